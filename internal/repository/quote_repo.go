package repository

import (
	"context"

	"gorm.io/gorm"

	"landscaping/internal/domain"
)

// QuoteRepository persists quotes
type QuoteRepository struct {
	db *gorm.DB
}

func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	return r.db.WithContext(ctx).Omit("Client").Create(q).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	var q domain.Quote
	if err := r.db.WithContext(ctx).Preload("Client").First(&q, id).Error; err != nil {
		return nil, translate(err, "quote", id)
	}
	return &q, nil
}

// GetForUpdate reads the quote and locks the row until the transaction ends.
func (r *QuoteRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Quote, error) {
	var q domain.Quote
	if err := forUpdate(r.db.WithContext(ctx)).First(&q, id).Error; err != nil {
		return nil, translate(err, "quote", id)
	}
	return &q, nil
}

func (r *QuoteRepository) SetStatus(ctx context.Context, id int64, status domain.QuoteStatus) error {
	tx := r.db.WithContext(ctx).Model(&domain.Quote{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return translate(tx.Error, "quote", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("quote", id)
	}
	return nil
}

// MarkAccepted is the single write of job_id on a quote.
func (r *QuoteRepository) MarkAccepted(ctx context.Context, id, jobID int64) error {
	tx := r.db.WithContext(ctx).Model(&domain.Quote{}).Where("id = ?", id).Updates(map[string]any{
		"status": domain.QuoteAccepted,
		"job_id": jobID,
	})
	if tx.Error != nil {
		return translate(tx.Error, "quote", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("quote", id)
	}
	return nil
}

// List returns quotes newest first, optionally filtered by status.
func (r *QuoteRepository) List(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	q := r.db.WithContext(ctx).Preload("Client")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Quote
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// DeleteByClient removes every quote of the client and reports how many.
func (r *QuoteRepository) DeleteByClient(ctx context.Context, clientID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&domain.Quote{})
	return tx.RowsAffected, tx.Error
}

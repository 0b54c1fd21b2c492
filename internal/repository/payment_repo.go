package repository

import (
	"context"

	"gorm.io/gorm"

	"landscaping/internal/domain"
)

// PaymentRepository has no update or delete: payments are append-only.
type PaymentRepository struct {
	db *gorm.DB
}

// Create appends a payment. Payments are never updated.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListByJob returns the job's payments oldest first.
func (r *PaymentRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("paid_at").Order("id").Find(&out).Error
	return out, err
}

// SumByJob totals every payment of the job, 0 when there are none.
func (r *PaymentRepository) SumByJob(ctx context.Context, jobID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("job_id = ?", jobID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

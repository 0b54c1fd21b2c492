package repository

import (
	"context"

	"gorm.io/gorm"

	"landscaping/internal/domain"
)

// ClientRepository persists clients
type ClientRepository struct {
	db *gorm.DB
}

// Create inserts the client and fills its ID.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "client", id)
	}
	return &c, nil
}

// Exists returns NotFound when no client has the id.
func (r *ClientRepository) Exists(ctx context.Context, id int64) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("client", id)
	}
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	tx := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":    c.Name,
		"address": c.Address,
		"phone":   c.Phone,
		"email":   c.Email,
	})
	if tx.Error != nil {
		return translate(tx.Error, "client", c.ID)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("client", c.ID)
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Client{}, id)
	if tx.Error != nil {
		return translate(tx.Error, "client", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("client", id)
	}
	return nil
}

// List returns clients ordered by name.
func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&out).Error
	return out, err
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Client{}).Count(&n).Error
	return n, err
}

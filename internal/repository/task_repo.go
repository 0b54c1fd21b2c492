package repository

import (
	"context"

	"gorm.io/gorm"

	"landscaping/internal/domain"
)

// TaskRepository persists job tasks
type TaskRepository struct {
	db *gorm.DB
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetForUpdate reads the task and locks the row until the transaction ends.
func (r *TaskRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	if err := forUpdate(r.db.WithContext(ctx)).First(&t, id).Error; err != nil {
		return nil, translate(err, "task", id)
	}
	return &t, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	tx := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Update("completed", completed)
	if tx.Error != nil {
		return translate(tx.Error, "task", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("task", id)
	}
	return nil
}

// ListByJob returns the job's tasks in creation order, never nil.
func (r *TaskRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.Task, error) {
	out := []domain.Task{}
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("id").Find(&out).Error
	return out, err
}

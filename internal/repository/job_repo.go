package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"landscaping/internal/domain"
)

// JobRepository persists jobs and their rosters
type JobRepository struct {
	db *gorm.DB
}

// JobFilter narrows List. Zero values mean "any".
type JobFilter struct {
	Status   domain.JobStatus
	ClientID int64
	CrewID   int64
	MemberID int64
	From     *time.Time // scheduled_date >= From
	Until    *time.Time // scheduled_date < Until
	Newest   bool       // order by scheduled_date descending
}

// Create inserts the job without touching its associations.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(j).Error
}

// GetByID loads the job with client, crew and tasks.
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	var j domain.Job
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("CrewRef").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&j, id).Error
	if err != nil {
		return nil, translate(err, "job", id)
	}
	return &j, nil
}

// GetForUpdate loads the bare job row and locks it for the rest of the transaction.
func (r *JobRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Job, error) {
	var j domain.Job
	if err := forUpdate(r.db.WithContext(ctx)).First(&j, id).Error; err != nil {
		return nil, translate(err, "job", id)
	}
	return &j, nil
}

// UpdateFields writes the given columns; nil pointers become NULL.
func (r *JobRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Job{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return translate(tx.Error, "job", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("job", id)
	}
	return nil
}

// List returns jobs matching the filter ordered by scheduled date.
func (r *JobRepository) List(ctx context.Context, f JobFilter) ([]domain.Job, error) {
	q := r.db.WithContext(ctx).Model(&domain.Job{}).Preload("Client").Preload("CrewRef")
	if f.Status != "" {
		q = q.Where("jobs.status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("jobs.client_id = ?", f.ClientID)
	}
	if f.CrewID != 0 {
		q = q.Where("jobs.crew_id = ?", f.CrewID)
	}
	if f.MemberID != 0 {
		q = q.Joins("JOIN job_members ON job_members.job_id = jobs.id").
			Where("job_members.member_id = ?", f.MemberID)
	}
	if f.From != nil {
		q = q.Where("jobs.scheduled_date >= ?", *f.From)
	}
	if f.Until != nil {
		q = q.Where("jobs.scheduled_date < ?", *f.Until)
	}
	if f.Newest {
		q = q.Order("jobs.scheduled_date DESC")
	} else {
		q = q.Order("jobs.scheduled_date ASC")
	}

	var out []domain.Job
	err := q.Order("jobs.id").Find(&out).Error
	return out, err
}

func (r *JobRepository) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).Where("client_id = ?", clientID).Count(&n).Error
	return n, err
}

// ClearCrew detaches the crew from every job that references it.
func (r *JobRepository) ClearCrew(ctx context.Context, crewID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Job{}).Where("crew_id = ?", crewID).Update("crew_id", nil)
	return tx.RowsAffected, tx.Error
}

// ReplaceMembers swaps the roster wholesale: every existing row goes, then memberIDs are inserted.
func (r *JobRepository) ReplaceMembers(ctx context.Context, jobID int64, memberIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("job_id = ?", jobID).Delete(&domain.JobMember{}).Error; err != nil {
		return translate(err, "job", jobID)
	}
	if len(memberIDs) == 0 {
		return nil
	}
	rows := make([]domain.JobMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		rows = append(rows, domain.JobMember{JobID: jobID, MemberID: id})
	}
	if err := db.Create(&rows).Error; err != nil {
		return translate(err, "job", jobID)
	}
	return nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"landscaping/internal/domain"
)

// CrewRepository persists crews
type CrewRepository struct {
	db *gorm.DB
}

func (r *CrewRepository) Create(ctx context.Context, c *domain.Crew) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CrewRepository) GetByID(ctx context.Context, id int64) (*domain.Crew, error) {
	var c domain.Crew
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "crew", id)
	}
	return &c, nil
}

func (r *CrewRepository) Rename(ctx context.Context, id int64, name string) error {
	tx := r.db.WithContext(ctx).Model(&domain.Crew{}).Where("id = ?", id).Update("name", name)
	if tx.Error != nil {
		return translate(tx.Error, "crew", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("crew", id)
	}
	return nil
}

func (r *CrewRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Crew{}, id)
	if tx.Error != nil {
		return translate(tx.Error, "crew", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("crew", id)
	}
	return nil
}

// List returns crews ordered by name.
func (r *CrewRepository) List(ctx context.Context) ([]domain.Crew, error) {
	var out []domain.Crew
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&out).Error
	return out, err
}

// MemberRepository persists crew members and their job rosters
type MemberRepository struct {
	db *gorm.DB
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	var m domain.Member
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "member", id)
	}
	return &m, nil
}

func (r *MemberRepository) Rename(ctx context.Context, id int64, name string) error {
	tx := r.db.WithContext(ctx).Model(&domain.Member{}).Where("id = ?", id).Update("name", name)
	if tx.Error != nil {
		return translate(tx.Error, "member", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("member", id)
	}
	return nil
}

// Delete removes the member together with its roster rows. Jobs are untouched.
func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("member_id = ?", id).Delete(&domain.JobMember{}).Error; err != nil {
		return translate(err, "member", id)
	}
	tx := db.Delete(&domain.Member{}, id)
	if tx.Error != nil {
		return translate(tx.Error, "member", id)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFound("member", id)
	}
	return nil
}

// List returns members ordered by name.
func (r *MemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&out).Error
	return out, err
}

// FindByIDs returns the members that exist among ids, ordered by id.
func (r *MemberRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Member, error) {
	if len(ids) == 0 {
		return []domain.Member{}, nil
	}
	var out []domain.Member
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error
	return out, err
}

// ListByJob returns the job's roster ordered by name.
func (r *MemberRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.Member, error) {
	var out []domain.Member
	err := r.db.WithContext(ctx).
		Joins("JOIN job_members ON job_members.member_id = members.id").
		Where("job_members.job_id = ?", jobID).
		Order("members.name").
		Find(&out).Error
	return out, err
}

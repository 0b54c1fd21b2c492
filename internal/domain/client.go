package domain

import "time"

type Client struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

type Crew struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Crew) TableName() string { return "crews" }

type Member struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// JobMember is the job roster association row.
type JobMember struct {
	JobID    int64 `json:"job_id" gorm:"primaryKey;autoIncrement:false"`
	MemberID int64 `json:"member_id" gorm:"primaryKey;autoIncrement:false;index"`
}

func (JobMember) TableName() string { return "job_members" }

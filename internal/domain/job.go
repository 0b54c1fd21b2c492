package domain

import (
	"strings"
	"time"
)

type JobStatus string

const (
	JobScheduled  JobStatus = "Scheduled"
	JobInProgress JobStatus = "In progress"
	JobCompleted  JobStatus = "Completed"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobScheduled, JobInProgress, JobCompleted:
		return true
	default:
		return false
	}
}

func ParseJobStatus(raw string) (JobStatus, error) {
	s := JobStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", Invalid("unknown job status %q", raw)
	}
	return s, nil
}

// InvoiceStatus is nil on a job until the invoice is sent or paid.
type InvoiceStatus string

const (
	InvoiceSent InvoiceStatus = "Sent"
	InvoicePaid InvoiceStatus = "Paid"
)

type Job struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	ClientID       int64          `json:"client_id" gorm:"not null;index"`
	Description    string         `json:"description" gorm:"not null"`
	ScheduledDate  time.Time      `json:"scheduled_date" gorm:"not null;index"`
	Crew           string         `json:"crew"`
	CrewID         *int64         `json:"crew_id,omitempty" gorm:"index"`
	EstimatedHours *float64       `json:"estimated_hours,omitempty"`
	EstimatedCost  *float64       `json:"estimated_cost,omitempty"`
	ActualHours    *float64       `json:"actual_hours,omitempty"`
	ActualCost     *float64       `json:"actual_cost,omitempty"`
	Status         JobStatus      `json:"status" gorm:"type:varchar(32);not null;default:Scheduled;index"`
	InvoiceSentAt  *time.Time     `json:"invoice_sent_at,omitempty"`
	InvoiceStatus  *InvoiceStatus `json:"invoice_status" gorm:"type:varchar(16)"`
	PaidAt         *time.Time     `json:"paid_at,omitempty"`
	OnMyWaySentAt  *time.Time     `json:"on_my_way_sent_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Client  *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	CrewRef *Crew    `json:"crew_ref,omitempty" gorm:"foreignKey:CrewID;constraint:OnDelete:SET NULL"`
	Tasks   []Task   `json:"tasks,omitempty" gorm:"foreignKey:JobID"`
	Members []Member `json:"members,omitempty" gorm:"-"`
}

func (Job) TableName() string { return "jobs" }

func (j *Job) IsCompleted() bool { return j.Status == JobCompleted }

func (j *Job) IsPaid() bool {
	return j.InvoiceStatus != nil && *j.InvoiceStatus == InvoicePaid
}

// BilledAmount is the amount payments are reconciled against; unset actual cost counts as zero.
func (j *Job) BilledAmount() float64 {
	if j.ActualCost == nil {
		return 0
	}
	return *j.ActualCost
}

type Task struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	JobID       int64     `json:"job_id" gorm:"not null;index"`
	Description string    `json:"description" gorm:"not null"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Task) TableName() string { return "tasks" }

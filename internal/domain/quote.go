package domain

import (
	"strings"
	"time"
)

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "Draft"
	QuoteSent     QuoteStatus = "Sent"
	QuoteAccepted QuoteStatus = "Accepted"
	QuoteDeclined QuoteStatus = "Declined"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteDeclined:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s QuoteStatus) Terminal() bool {
	switch s {
	case QuoteAccepted, QuoteDeclined:
		return true
	case QuoteDraft, QuoteSent:
		return false
	default:
		return false
	}
}

func ParseQuoteStatus(raw string) (QuoteStatus, error) {
	s := QuoteStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", Invalid("unknown quote status %q", raw)
	}
	return s, nil
}

type Quote struct {
	ID             int64       `json:"id" gorm:"primaryKey"`
	ClientID       int64       `json:"client_id" gorm:"not null;index"`
	Description    string      `json:"description" gorm:"not null"`
	EstimatedHours float64     `json:"estimated_hours" gorm:"not null"`
	EstimatedCost  float64     `json:"estimated_cost" gorm:"not null"`
	Status         QuoteStatus `json:"status" gorm:"type:varchar(16);not null;default:Draft;index"`
	CreatedAt      time.Time   `json:"created_at"`
	ValidUntil     *time.Time  `json:"valid_until,omitempty"`
	JobID          *int64      `json:"job_id,omitempty" gorm:"index"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (Quote) TableName() string { return "quotes" }

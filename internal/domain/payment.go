package domain

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentCheck PaymentMethod = "Check"
	PaymentCard  PaymentMethod = "Card"
	PaymentOther PaymentMethod = "Other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCheck, PaymentCard, PaymentOther:
		return true
	default:
		return false
	}
}

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(strings.TrimSpace(raw))
	if !m.Valid() {
		return "", Invalid("unknown payment method %q", raw)
	}
	return m, nil
}

// Payment rows are append-only.
type Payment struct {
	ID     int64         `json:"id" gorm:"primaryKey"`
	JobID  int64         `json:"job_id" gorm:"not null;index"`
	Amount float64       `json:"amount" gorm:"not null"`
	Method PaymentMethod `json:"method" gorm:"type:varchar(16);not null"`
	PaidAt time.Time     `json:"paid_at" gorm:"not null;index"`
}

func (Payment) TableName() string { return "payments" }

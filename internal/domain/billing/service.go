package billing

import (
	"context"
	"fmt"
	"math"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/repository"
)

// Service handles invoicing and payment collection
type Service struct {
	store  *repository.Store
	events activity.Publisher
	now    func() time.Time
}

// NewService creates billing service
func NewService(store *repository.Store, events activity.Publisher) *Service {
	if events == nil {
		events = activity.Discard
	}
	return &Service{
		store:  store,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Invoice is the billable view of a completed job.
type Invoice struct {
	Job        *domain.Job      `json:"job"`
	Tasks      []domain.Task    `json:"tasks"`
	Payments   []domain.Payment `json:"payments"`
	Total      float64          `json:"total"`
	TotalPaid  float64          `json:"total_paid"`
	BalanceDue float64          `json:"balance_due"`
}

// Receipt is returned after a payment is recorded.
type Receipt struct {
	Payment   *domain.Payment `json:"payment"`
	Job       *domain.Job     `json:"job"`
	TotalPaid float64         `json:"total_paid"`
	Paid      bool            `json:"paid"`
}

// MarkInvoiceSent stamps the invoice as sent. Resending moves the timestamp; a paid invoice
// stays paid.
func (s *Service) MarkInvoiceSent(ctx context.Context, jobID int64) (*domain.Job, error) {
	now := s.now()
	var out *domain.Job
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		j, err := tx.Jobs.GetForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if err := requireCompleted(j); err != nil {
			return err
		}

		fields := map[string]any{"invoice_sent_at": now}
		if !j.IsPaid() {
			fields["invoice_status"] = domain.InvoiceSent
		}
		if err := tx.Jobs.UpdateFields(ctx, jobID, fields); err != nil {
			return err
		}
		out, err = tx.Jobs.GetByID(ctx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, activity.NewEvent(activity.InvoiceSent, "job", jobID, jobID, now, map[string]any{
		"invoice_status": out.InvoiceStatus,
	}))
	return out, nil
}

// RecordPayment appends a payment and re-derives the paid latch from the sum of all payments.
// The job row stays locked from the status check to the latch write so concurrent payments
// always see each other.
func (s *Service) RecordPayment(ctx context.Context, jobID int64, in PaymentInput) (*Receipt, error) {
	method, err := domain.ParsePaymentMethod(in.Method)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return nil, domain.Invalid("amount must be greater than zero")
	}

	now := s.now()
	res := &Receipt{}
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		j, err := tx.Jobs.GetForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if err := requireCompleted(j); err != nil {
			return err
		}

		p := &domain.Payment{JobID: jobID, Amount: in.Amount, Method: method, PaidAt: now}
		if err := tx.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("record payment for job %d: %w", jobID, err)
		}
		res.Payment = p

		if res.TotalPaid, err = tx.Payments.SumByJob(ctx, jobID); err != nil {
			return err
		}
		if covers(res.TotalPaid, j.BilledAmount()) {
			res.Paid = true
			err = tx.Jobs.UpdateFields(ctx, jobID, map[string]any{
				"invoice_status": domain.InvoicePaid,
				"paid_at":        now,
			})
			if err != nil {
				return err
			}
		}
		res.Job, err = tx.Jobs.GetByID(ctx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, activity.NewEvent(activity.PaymentRecorded, "payment", res.Payment.ID, jobID, now, map[string]any{
		"amount":     res.Payment.Amount,
		"method":     res.Payment.Method,
		"total_paid": res.TotalPaid,
	}))
	if res.Paid {
		s.events.Publish(ctx, activity.NewEvent(activity.InvoicePaid, "job", jobID, jobID, now, map[string]any{
			"total_paid": res.TotalPaid,
		}))
	}
	return res, nil
}

// Invoice assembles the billable view of a completed job.
func (s *Service) Invoice(ctx context.Context, jobID int64) (*Invoice, error) {
	j, err := s.store.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := requireCompleted(j); err != nil {
		return nil, err
	}
	if j.Members, err = s.store.Members.ListByJob(ctx, jobID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// tasks are listed once, at the invoice level
	j.Tasks = nil
	inv := &Invoice{
		Job:      j,
		Tasks:    tasks,
		Payments: payments,
		Total:    j.BilledAmount(),
	}
	for _, p := range payments {
		inv.TotalPaid += p.Amount
	}
	inv.BalanceDue = math.Max(roundCents(inv.Total-inv.TotalPaid), 0)
	return inv, nil
}

// Payments lists the payments of a job in the order they were made.
func (s *Service) Payments(ctx context.Context, jobID int64) ([]domain.Payment, error) {
	if _, err := s.store.Jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.Payments.ListByJob(ctx, jobID)
}

func requireCompleted(j *domain.Job) error {
	switch j.Status {
	case domain.JobCompleted:
		return nil
	case domain.JobScheduled, domain.JobInProgress:
		return fmt.Errorf("%w: job %d is %s, invoices need a completed job", domain.ErrPreconditionFailed, j.ID, j.Status)
	default:
		return fmt.Errorf("%w: job %d has unknown status %q", domain.ErrPreconditionFailed, j.ID, j.Status)
	}
}

// covers compares in whole cents so float sums like 0.1+0.2 settle a 0.30 invoice.
func covers(paid, due float64) bool {
	return roundCents(paid) >= roundCents(due)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

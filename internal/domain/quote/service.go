package quote

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/repository"
)

const dateLayout = "2006-01-02"

// Service handles quote business logic
type Service struct {
	store  *repository.Store
	events activity.Publisher
	now    func() time.Time
}

// NewService creates quote service
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

// Acceptance is the outcome of Accept. Created is false when the quote had already been accepted.
type Acceptance struct {
	Quote   *domain.Quote `json:"quote"`
	Job     *domain.Job   `json:"job"`
	Created bool          `json:"created"`
}

// Create stores a draft quote for an existing client.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Quote, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, domain.Invalid("description is required")
	}
	if err := checkAmount("estimated_hours", in.EstimatedHours); err != nil {
		return nil, err
	}
	if err := checkAmount("estimated_cost", in.EstimatedCost); err != nil {
		return nil, err
	}

	q := &domain.Quote{
		ClientID:       in.ClientID,
		Description:    desc,
		EstimatedHours: in.EstimatedHours,
		EstimatedCost:  in.EstimatedCost,
		Status:         domain.QuoteDraft,
		CreatedAt:      s.now(),
	}
	if raw := strings.TrimSpace(in.ValidUntil); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, domain.Invalid("valid_until must be YYYY-MM-DD, got %q", raw)
		}
		q.ValidUntil = &d
	}

	if err := s.store.Clients.Exists(ctx, in.ClientID); err != nil {
		return nil, err
	}
	if err := s.store.Quotes.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	s.publish(ctx, activity.QuoteCreated, q, 0)
	return q, nil
}

// Get returns a quote by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	return s.store.Quotes.GetByID(ctx, id)
}

// List returns quotes newest first. An empty status means all.
func (s *Service) List(ctx context.Context, status string) ([]domain.Quote, error) {
	var st domain.QuoteStatus
	if strings.TrimSpace(status) != "" {
		var err error
		if st, err = domain.ParseQuoteStatus(status); err != nil {
			return nil, err
		}
	}
	return s.store.Quotes.List(ctx, st)
}

// Send moves a Draft quote to Sent.
func (s *Service) Send(ctx context.Context, id int64) (*domain.Quote, error) {
	var out *domain.Quote
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		q, err := tx.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch q.Status {
		case domain.QuoteDraft:
		case domain.QuoteSent, domain.QuoteAccepted, domain.QuoteDeclined:
			return transitionError(q, domain.QuoteSent)
		default:
			return transitionError(q, domain.QuoteSent)
		}
		if err := tx.Quotes.SetStatus(ctx, id, domain.QuoteSent); err != nil {
			return err
		}
		out, err = tx.Quotes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.QuoteSent, out, 0)
	return out, nil
}

// Decline closes a Draft or Sent quote.
func (s *Service) Decline(ctx context.Context, id int64) (*domain.Quote, error) {
	var out *domain.Quote
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		q, err := tx.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch q.Status {
		case domain.QuoteDraft, domain.QuoteSent:
		case domain.QuoteAccepted, domain.QuoteDeclined:
			return transitionError(q, domain.QuoteDeclined)
		default:
			return transitionError(q, domain.QuoteDeclined)
		}
		if err := tx.Quotes.SetStatus(ctx, id, domain.QuoteDeclined); err != nil {
			return err
		}
		out, err = tx.Quotes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.QuoteDeclined, out, 0)
	return out, nil
}

// Accept converts the quote into a Scheduled job. The job insert and the quote update commit
// together. Accepting an already accepted quote returns its existing job.
func (s *Service) Accept(ctx context.Context, id int64) (*Acceptance, error) {
	res := &Acceptance{}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		q, err := tx.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		switch q.Status {
		case domain.QuoteAccepted:
			if q.JobID == nil {
				return fmt.Errorf("%w: quote %d is accepted but has no job", domain.ErrInvalidState, q.ID)
			}
			res.Job, err = tx.Jobs.GetByID(ctx, *q.JobID)
			if err != nil {
				return err
			}
			res.Quote, err = tx.Quotes.GetByID(ctx, id)
			return err
		case domain.QuoteDeclined:
			return transitionError(q, domain.QuoteAccepted)
		case domain.QuoteDraft, domain.QuoteSent:
		default:
			return transitionError(q, domain.QuoteAccepted)
		}

		hours, cost := q.EstimatedHours, q.EstimatedCost
		job := &domain.Job{
			ClientID:       q.ClientID,
			Description:    q.Description,
			ScheduledDate:  s.now(),
			EstimatedHours: &hours,
			EstimatedCost:  &cost,
			Status:         domain.JobScheduled,
		}
		if err := tx.Jobs.Create(ctx, job); err != nil {
			return fmt.Errorf("create job from quote %d: %w", q.ID, err)
		}
		if err := tx.Quotes.MarkAccepted(ctx, q.ID, job.ID); err != nil {
			return err
		}

		res.Created = true
		if res.Job, err = tx.Jobs.GetByID(ctx, job.ID); err != nil {
			return err
		}
		res.Quote, err = tx.Quotes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.Created {
		s.events.Publish(ctx, activity.NewEvent(activity.JobCreated, "job", res.Job.ID, res.Job.ID, s.now(), res.Job))
		s.publish(ctx, activity.QuoteAccepted, res.Quote, res.Job.ID)
	}
	return res, nil
}

func (s *Service) publish(ctx context.Context, typ string, q *domain.Quote, jobID int64) {
	s.events.Publish(ctx, activity.NewEvent(typ, "quote", q.ID, jobID, s.now(), map[string]any{
		"status":    q.Status,
		"client_id": q.ClientID,
	}))
}

func transitionError(q *domain.Quote, to domain.QuoteStatus) error {
	return fmt.Errorf("%w: quote %d cannot move from %s to %s", domain.ErrInvalidTransition, q.ID, q.Status, to)
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.Invalid("%s must be a non-negative number", field)
	}
	return nil
}

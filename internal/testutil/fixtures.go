package testutil

import (
	"context"
	"testing"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/repository"
)

// Client inserts a client named name.
func Client(t *testing.T, store *repository.Store, name string) *domain.Client {
	t.Helper()
	c := &domain.Client{Name: name}
	if err := store.Clients.Create(context.Background(), c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

// Job inserts a Scheduled job for clientID on the given day.
func Job(t *testing.T, store *repository.Store, clientID int64, description string, scheduled time.Time) *domain.Job {
	t.Helper()
	j := &domain.Job{
		ClientID:      clientID,
		Description:   description,
		ScheduledDate: scheduled.UTC(),
		Status:        domain.JobScheduled,
	}
	if err := store.Jobs.Create(context.Background(), j); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

func Float(v float64) *float64 { return &v }

func Int64(v int64) *int64 { return &v }

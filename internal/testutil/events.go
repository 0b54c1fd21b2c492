package testutil

import (
	"context"
	"sync"

	"landscaping/internal/domain/activity"
)

// Recorder is a Publisher that keeps every event it is given.
type Recorder struct {
	mu     sync.Mutex
	events []activity.Event
}

func (r *Recorder) Publish(_ context.Context, evt activity.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *Recorder) Events() []activity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]activity.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

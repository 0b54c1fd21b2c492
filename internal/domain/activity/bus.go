package activity

import (
	"context"
	"log"
	"sync"
)

// Publisher is what the domain services depend on.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

type Listener func(ctx context.Context, evt Event)

// Bus fans events out to listeners synchronously, in subscription order.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		deliver(ctx, l, evt)
	}
}

// A panicking listener must not take the request down with it.
func deliver(ctx context.Context, l Listener, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("activity_listener_panic type=%s entity=%s entity_id=%d error=%v", evt.Type, evt.Entity, evt.EntityID, r)
		}
	}()
	l(ctx, evt)
}

type discard struct{}

func (discard) Publish(context.Context, Event) {}

// Discard drops every event.
var Discard Publisher = discard{}

package mocks

import (
	"context"
	"sync"
	"time"

	"hotel/shared/event"
)

// Recorder collects dispatched events so tests can wait for background publishes.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
	signal chan struct{}
}

func NewRecorder() *Recorder {
	return &Recorder{signal: make(chan struct{}, 64)}
}

func (r *Recorder) Publish(_ context.Context, events ...event.Event) error {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}

	return nil
}

// Wait blocks until at least n events arrived or the timeout passes, then returns what was seen.
func (r *Recorder) Wait(n int, timeout time.Duration) []event.Event {
	deadline := time.After(timeout)

	for {
		r.mu.Lock()
		if len(r.events) >= n {
			seen := append([]event.Event(nil), r.events...)
			r.mu.Unlock()

			return seen
		}
		r.mu.Unlock()

		select {
		case <-r.signal:
		case <-deadline:
			r.mu.Lock()
			defer r.mu.Unlock()

			return append([]event.Event(nil), r.events...)
		}
	}
}

// Types lists the received event types in arrival order.
func (r *Recorder) Types(n int, timeout time.Duration) []event.Type {
	types := []event.Type{}
	for _, evt := range r.Wait(n, timeout) {
		types = append(types, evt.Type)
	}

	return types
}

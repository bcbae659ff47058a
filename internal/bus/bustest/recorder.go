// Package bustest provides a recording bus for tests.
package bustest

import "sync"

// Event is a recorded publish.
type Event struct {
	Name    string
	Payload any
}

// Recorder implements bus.Bus and keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements bus.Bus.
func (r *Recorder) Publish(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Name: event, Payload: payload})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// Package events carries booking lifecycle notifications to in-process and
// external subscribers. Publishing is best-effort: a failed publish never
// fails the request that triggered it.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types.
const (
	TypeBookingCreated = "booking.created"
)

// Event is a lightweight domain event.
type Event struct {
	Type      string    `json:"type"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Handler reacts to an event.
type Handler func(event Event) error

// Publisher is what producers depend on.
type Publisher interface {
	PublishJSON(eventType string, payload any) error
}

// Bus provides in-process pub/sub for events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// PublishJSON marshals the payload and notifies subscribers of the type.
// Handlers run synchronously; the caller decides the concurrency model.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[eventType]...)
	b.mu.RUnlock()

	event := Event{Type: eventType, Payload: data, CreatedAt: time.Now()}
	for _, handler := range handlers {
		_ = handler(event)
	}
	return nil
}

// Multi fans a publish out to several publishers, returning the first error.
type Multi []Publisher

func (m Multi) PublishJSON(eventType string, payload any) error {
	var firstErr error
	for _, p := range m {
		if err := p.PublishJSON(eventType, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

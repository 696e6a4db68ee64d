// Package events provides event bus infrastructure for decoupled,
// event-driven communication between modules.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type; handlers subscribe by it.
	EventName() string
	// EventID is unique per published event and ties handler logs together.
	EventID() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent carries the identity and time of an event.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a new event with a fresh ID and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to subscribed handlers.
type Bus interface {
	// Publish hands the event to every subscribed handler without waiting.
	Publish(ctx context.Context, event Event)

	// PublishSync runs every handler and returns the first error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the given Event.EventName().
	Subscribe(eventName string, handler Handler)
}

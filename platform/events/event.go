// Package events carries the in-process notifications raised when a quote
// request or a rendez-vous is committed. Payload types live in internal/events.
package events

import (
	"context"
	"time"
)

// Event is a committed fact. EventName is "<context>.<aggregate>.<verb>",
// e.g. "quotes.quote.requested", and is the subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent stamps an event with its commit time.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps the event with the current time in UTC.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event. Errors are logged by the bus and never reach
// the request that published the event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans events out to subscribed handlers.
type Bus interface {
	// Publish returns immediately; handlers keep running if the caller's context is canceled.
	Publish(ctx context.Context, event Event)
	// PublishSync runs the handlers in order and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}

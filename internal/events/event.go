// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"vitrine_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteLine is a priced line carried by QuoteRequested for the notification emails.
type QuoteLine struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	Included   bool   `json:"included"`
	PriceLabel string `json:"priceLabel"`
}

// QuoteRequested is published after a quote request has been committed.
type QuoteRequested struct {
	BaseEvent
	QuoteID           uuid.UUID   `json:"quoteId"`
	OfferTitle        string      `json:"offerTitle,omitempty"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone,omitempty"`
	Company           string      `json:"company,omitempty"`
	Message           string      `json:"message,omitempty"`
	Lines             []QuoteLine `json:"lines"`
	OneTimeTotal      string      `json:"oneTimeTotal"`
	MonthlyTotal      string      `json:"monthlyTotal,omitempty"`
	TotalDurationDays int         `json:"totalDurationDays"`
	RendezvousID      *uuid.UUID  `json:"rendezvousId,omitempty"`
	RendezvousAt      *time.Time  `json:"rendezvousAt,omitempty"`
}

func (e QuoteRequested) EventName() string { return "quotes.quote.requested" }

// =============================================================================
// Rendezvous Domain Events
// =============================================================================

// RendezvousBooked is published after a rendez-vous has been committed.
type RendezvousBooked struct {
	BaseEvent
	RendezvousID uuid.UUID `json:"rendezvousId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Topic        string    `json:"topic,omitempty"`
	ScheduledAt  time.Time `json:"scheduledAt"`
}

func (e RendezvousBooked) EventName() string { return "rendezvous.booked" }

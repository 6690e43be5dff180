package transport

import (
	"time"

	"vitrine_backend/internal/pricing"
	rvtransport "vitrine_backend/internal/rendezvous/transport"

	"github.com/google/uuid"
)

// SelectionRequest is a configurator state: an offer, the extra options and their quantities.
// Included options may be listed or not; they are always part of the synthesis.
type SelectionRequest struct {
	ServiceOfferID *uuid.UUID        `json:"serviceOfferId"`
	OfferOptionIDs []uuid.UUID       `json:"offerOptionIds" validate:"max=200,dive,required"`
	Quantities     map[uuid.UUID]int `json:"quantities" validate:"max=200,dive,min=0,max=10000"`
}

// ContactRequest holds the visitor's contact details as submitted.
type ContactRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"max=40"`
	Company   string `json:"company" validate:"max=200"`
	Message   string `json:"message" validate:"max=5000"`
}

// SubmitRequest is the public quote form, optionally booking a rendez-vous in the same step.
type SubmitRequest struct {
	SelectionRequest
	ContactRequest
	Rendezvous *rvtransport.SlotRequest `json:"rendezvous"`
}

func (r SubmitRequest) Selection() SelectionRequest { return r.SelectionRequest }

func (r SubmitRequest) Contact() ContactRequest { return r.ContactRequest }

// UpdateRequest is the admin editor payload; the status and the rendez-vous are managed separately.
type UpdateRequest struct {
	SelectionRequest
	ContactRequest
}

func (r UpdateRequest) Selection() SelectionRequest { return r.SelectionRequest }

func (r UpdateRequest) Contact() ContactRequest { return r.ContactRequest }

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW SENT REVIEWED"`
}

type ListRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=NEW SENT REVIEWED"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ItemResponse struct {
	OptionID uuid.UUID `json:"optionId"`
	Quantity int       `json:"quantity"`
}

// QuoteResponse is a stored quote request. Synthesis is only set on the detail route.
type QuoteResponse struct {
	ID             uuid.UUID          `json:"id"`
	ServiceOfferID *uuid.UUID         `json:"serviceOfferId"`
	OfferTitle     string             `json:"offerTitle,omitempty"`
	RendezvousID   *uuid.UUID         `json:"rendezvousId,omitempty"`
	RendezvousAt   *time.Time         `json:"rendezvousAt,omitempty"`
	Status         string             `json:"status"`
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Company        string             `json:"company"`
	Message        string             `json:"message"`
	Items          []ItemResponse     `json:"items,omitempty"`
	Synthesis      *pricing.Synthesis `json:"synthesis,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type ListResponse struct {
	Items      []QuoteResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

package transport

import (
	"time"

	"github.com/google/uuid"
)

// BookRequest is the public booking form. It is also embedded in quote submissions.
type BookRequest struct {
	FirstName   string    `json:"firstName" validate:"required,max=100"`
	LastName    string    `json:"lastName" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email,max=254"`
	Phone       string    `json:"phone" validate:"max=40"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Topic       string    `json:"topic" validate:"max=200"`
	Message     string    `json:"message" validate:"max=5000"`
}

// SlotRequest is the rendez-vous part of a quote submission; contact fields come from the quote.
type SlotRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Topic       string    `json:"topic" validate:"max=200"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED"`
}

type ListRequest struct {
	Status   string     `form:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" validate:"omitempty,min=1"`
	PageSize int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type Response struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Topic       string    `json:"topic"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListResponse struct {
	Items      []Response `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

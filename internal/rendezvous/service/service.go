package service

import (
	"context"
	"time"

	"vitrine_backend/internal/events"
	"vitrine_backend/internal/rendezvous/repository"
	"vitrine_backend/internal/rendezvous/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/phone"
	"vitrine_backend/platform/sanitize"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	pastSlotMsg     = "must be in the future"
)

// Service handles rendez-vous bookings and their admin follow-up.
type Service struct {
	repo     repository.Repository
	val      *validator.Validator
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new rendez-vous service.
func New(repo repository.Repository, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, eventBus: eventBus, log: log, now: time.Now}
}

// Book stores a public booking and announces it once committed.
func (s *Service) Book(ctx context.Context, req transport.BookRequest) (transport.Response, error) {
	if err := s.val.Check(req); err != nil {
		return transport.Response{}, err
	}
	if err := CheckSlot(req.ScheduledAt, s.now()); err != nil {
		return transport.Response{}, err
	}

	rv, err := s.repo.Create(ctx, NewRendezvous(req))
	if err != nil {
		return transport.Response{}, err
	}

	s.log.WithContext(ctx).Info("rendezvous booked", "id", rv.ID, "scheduledAt", rv.ScheduledAt)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, BookedEvent(rv))
	}
	return toResponse(rv), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.Response, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.Response{}, err
	}
	return toResponse(rv), nil
}

func (s *Service) List(ctx context.Context, req transport.ListRequest) (transport.ListResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.ListResponse{}, err
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	params := repository.ListParams{From: req.From, To: req.To, Page: page, PageSize: pageSize}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ListResponse{}, err
	}

	items := make([]transport.Response, 0, len(result.Items))
	for _, rv := range result.Items {
		items = append(items, toResponse(rv))
	}
	return transport.ListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (result.Total + pageSize - 1) / pageSize,
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (transport.Response, error) {
	if err := s.val.Check(req); err != nil {
		return transport.Response{}, err
	}

	rv, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return transport.Response{}, err
	}

	s.log.WithContext(ctx).Info("rendezvous status updated", "id", id, "status", rv.Status)
	return toResponse(rv), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("rendezvous deleted", "id", id)
	return nil
}

// CheckSlot rejects slots that are not strictly after now.
func CheckSlot(at, now time.Time) error {
	if !at.After(now) {
		return apperr.Field("scheduledAt", pastSlotMsg)
	}
	return nil
}

// NewRendezvous builds a pending booking from a sanitized form.
func NewRendezvous(req transport.BookRequest) repository.Rendezvous {
	return repository.Rendezvous{
		ID:          uuid.New(),
		FirstName:   sanitize.Line(req.FirstName),
		LastName:    sanitize.Line(req.LastName),
		Email:       sanitize.Email(req.Email),
		Phone:       phone.NormalizeE164(req.Phone),
		ScheduledAt: req.ScheduledAt.UTC().Truncate(time.Minute),
		Topic:       sanitize.Line(req.Topic),
		Message:     sanitize.Text(req.Message),
		Status:      repository.StatusPending,
	}
}

// BookedEvent is the event published after a booking commits.
func BookedEvent(rv repository.Rendezvous) events.RendezvousBooked {
	return events.RendezvousBooked{
		BaseEvent:    events.NewBaseEvent(),
		RendezvousID: rv.ID,
		FirstName:    rv.FirstName,
		LastName:     rv.LastName,
		Email:        rv.Email,
		Topic:        rv.Topic,
		ScheduledAt:  rv.ScheduledAt,
	}
}

func toResponse(rv repository.Rendezvous) transport.Response {
	return transport.Response{
		ID:          rv.ID,
		FirstName:   rv.FirstName,
		LastName:    rv.LastName,
		Email:       rv.Email,
		Phone:       rv.Phone,
		ScheduledAt: rv.ScheduledAt,
		Topic:       rv.Topic,
		Message:     rv.Message,
		Status:      rv.Status,
		CreatedAt:   rv.CreatedAt,
		UpdatedAt:   rv.UpdatedAt,
	}
}

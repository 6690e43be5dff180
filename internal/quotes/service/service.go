package service

import (
	"context"
	"time"

	"vitrine_backend/internal/events"
	"vitrine_backend/internal/pricing"
	"vitrine_backend/internal/quotes/repository"
	"vitrine_backend/internal/quotes/transport"
	rvrepo "vitrine_backend/internal/rendezvous/repository"
	rvservice "vitrine_backend/internal/rendezvous/service"
	rvtransport "vitrine_backend/internal/rendezvous/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/phone"
	"vitrine_backend/platform/sanitize"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

const defaultPageSize = 20

// CatalogReader is the narrow view of the offer catalog the quotes service needs.
// Implemented by an adapter in internal/adapters that wraps the offers service.
type CatalogReader interface {
	// Offer returns apperr.NotFound when id does not exist.
	Offer(ctx context.Context, id uuid.UUID) (*pricing.Offer, error)
	Options(ctx context.Context) ([]pricing.Option, error)
}

// Service provides business logic for quote requests.
type Service struct {
	repo     repository.Repository
	catalog  CatalogReader
	val      *validator.Validator
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new quotes service.
func New(repo repository.Repository, catalog CatalogReader, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, val: val, eventBus: eventBus, log: log, now: time.Now}
}

// Preview computes the synthesis of an unsaved selection. Unknown option ids are ignored.
func (s *Service) Preview(ctx context.Context, req transport.SelectionRequest) (pricing.Synthesis, error) {
	if err := s.val.Check(req); err != nil {
		return pricing.Synthesis{}, err
	}

	offer, catalog, err := s.load(ctx, req.ServiceOfferID)
	if err != nil {
		return pricing.Synthesis{}, err
	}
	return pricing.Synthesize(offer, catalog, selectionOf(req)), nil
}

// Submit re-checks a public selection against the live catalog and stores it,
// together with the optional rendez-vous, in one transaction.
func (s *Service) Submit(ctx context.Context, req transport.SubmitRequest) (transport.QuoteResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.QuoteResponse{}, err
	}
	if req.Rendezvous != nil {
		if err := rvservice.CheckSlot(req.Rendezvous.ScheduledAt, s.now()); err != nil {
			return transport.QuoteResponse{}, apperr.Field("rendezvous.scheduledAt", "must be in the future")
		}
	}

	offer, catalog, err := s.load(ctx, req.ServiceOfferID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	synthesis, err := checkedSynthesis(offer, catalog, req.Selection())
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	quote := newQuote(uuid.New(), req.ServiceOfferID, req.Contact(), synthesis)
	quote.Status = repository.StatusNew

	var rv *rvrepo.Rendezvous
	if req.Rendezvous != nil {
		booked := rvservice.NewRendezvous(rvtransport.BookRequest{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			ScheduledAt: req.Rendezvous.ScheduledAt,
			Topic:       req.Rendezvous.Topic,
			Message:     req.Message,
		})
		rv = &booked
	}

	stored, err := s.repo.Create(ctx, quote, rv)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	s.log.WithContext(ctx).Info("quote request created",
		"id", stored.ID,
		"items", len(stored.Items),
		"oneTimeTotalCents", synthesis.OneTimeTotalCents,
		"monthlyTotalCents", synthesis.MonthlyTotalCents,
		"withRendezvous", rv != nil,
	)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, requestedEvent(stored, offer, synthesis))
	}

	return toResponse(stored, offer, &synthesis), nil
}

// GetByID returns a quote request with its synthesis recomputed from the current catalog.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	offer, catalog, err := s.load(ctx, nil)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	if quote.ServiceOfferID != nil {
		offer, err = s.catalog.Offer(ctx, *quote.ServiceOfferID)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return transport.QuoteResponse{}, err
		}
	}

	synthesis := pricing.Synthesize(offer, catalog, storedSelection(quote))
	return toResponse(quote, offer, &synthesis), nil
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

	params := repository.ListParams{Search: sanitize.Line(req.Search), Page: page, PageSize: pageSize}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ListResponse{}, err
	}

	items := make([]transport.QuoteResponse, 0, len(result.Items))
	for _, q := range result.Items {
		items = append(items, toResponse(q, nil, nil))
	}
	return transport.ListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (result.Total + pageSize - 1) / pageSize,
	}, nil
}

// Update is the admin editor save: contact fields and the whole selection are replaced.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateRequest) (transport.QuoteResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.QuoteResponse{}, err
	}

	offer, catalog, err := s.load(ctx, req.ServiceOfferID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	synthesis, err := checkedSynthesis(offer, catalog, req.Selection())
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	stored, err := s.repo.Update(ctx, newQuote(id, req.ServiceOfferID, req.Contact(), synthesis))
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	s.log.WithContext(ctx).Info("quote request updated", "id", id, "items", len(stored.Items))
	return toResponse(stored, offer, &synthesis), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) error {
	if err := s.val.Check(req); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("quote request status updated", "id", id, "status", req.Status)
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("quote request deleted", "id", id)
	return nil
}

// load fetches the offer (when offerID is set) and the option catalog.
// An unknown offer is reported against the serviceOfferId field.
func (s *Service) load(ctx context.Context, offerID *uuid.UUID) (*pricing.Offer, []pricing.Option, error) {
	var offer *pricing.Offer
	if offerID != nil {
		o, err := s.catalog.Offer(ctx, *offerID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, nil, apperr.Field("serviceOfferId", "unknown service offer")
			}
			return nil, nil, err
		}
		offer = o
	}

	catalog, err := s.catalog.Options(ctx)
	if err != nil {
		return nil, nil, err
	}
	return offer, catalog, nil
}

// checkedSynthesis rejects ids missing from the catalog, then synthesizes.
func checkedSynthesis(offer *pricing.Offer, catalog []pricing.Option, req transport.SelectionRequest) (pricing.Synthesis, error) {
	known := make(map[uuid.UUID]struct{}, len(catalog))
	for _, opt := range catalog {
		known[opt.ID] = struct{}{}
	}
	for _, id := range req.OfferOptionIDs {
		if _, ok := known[id]; !ok {
			return pricing.Synthesis{}, apperr.Field("offerOptionIds", "unknown option id: "+id.String())
		}
	}
	return pricing.Synthesize(offer, catalog, selectionOf(req)), nil
}

func selectionOf(req transport.SelectionRequest) pricing.Selection {
	return pricing.NewSelection(req.ServiceOfferID, req.OfferOptionIDs, req.Quantities)
}

// storedSelection rebuilds a selection from stored items. Included options
// keep their stored quantity; options no longer in the catalog drop out.
func storedSelection(q repository.QuoteRequest) pricing.Selection {
	ids := make([]uuid.UUID, 0, len(q.Items))
	quantities := make(map[uuid.UUID]int, len(q.Items))
	for _, item := range q.Items {
		ids = append(ids, item.OptionID)
		quantities[item.OptionID] = item.Quantity
	}
	return pricing.NewSelection(q.ServiceOfferID, ids, quantities)
}

// newQuote stores every synthesized line, included ones with their effective quantity.
func newQuote(id uuid.UUID, offerID *uuid.UUID, contact transport.ContactRequest, synthesis pricing.Synthesis) repository.QuoteRequest {
	items := make([]repository.Item, 0, len(synthesis.Lines))
	for _, line := range synthesis.Lines {
		items = append(items, repository.Item{OptionID: line.OptionID, Quantity: line.Quantity})
	}

	return repository.QuoteRequest{
		ID:             id,
		ServiceOfferID: offerID,
		FirstName:      sanitize.Line(contact.FirstName),
		LastName:       sanitize.Line(contact.LastName),
		Email:          sanitize.Email(contact.Email),
		Phone:          phone.NormalizeE164(contact.Phone),
		Company:        sanitize.Line(contact.Company),
		Message:        sanitize.Text(contact.Message),
		Items:          items,
	}
}

func requestedEvent(q repository.QuoteRequest, offer *pricing.Offer, synthesis pricing.Synthesis) events.QuoteRequested {
	lines := make([]events.QuoteLine, 0, len(synthesis.Lines))
	for _, line := range synthesis.Lines {
		lines = append(lines, events.QuoteLine{
			Title:      line.Title,
			Quantity:   line.Quantity,
			Included:   line.Included,
			PriceLabel: line.PriceLabel,
		})
	}

	event := events.QuoteRequested{
		BaseEvent:         events.NewBaseEvent(),
		QuoteID:           q.ID,
		FirstName:         q.FirstName,
		LastName:          q.LastName,
		Email:             q.Email,
		Phone:             phone.Display(q.Phone),
		Company:           q.Company,
		Message:           q.Message,
		Lines:             lines,
		OneTimeTotal:      synthesis.OneTimeTotalLabel,
		MonthlyTotal:      synthesis.MonthlyTotalLabel,
		TotalDurationDays: synthesis.TotalDurationDays,
		RendezvousID:      q.RendezvousID,
		RendezvousAt:      q.RendezvousAt,
	}
	if offer != nil {
		event.OfferTitle = offer.Title
	}
	return event
}

func toResponse(q repository.QuoteRequest, offer *pricing.Offer, synthesis *pricing.Synthesis) transport.QuoteResponse {
	out := transport.QuoteResponse{
		ID:             q.ID,
		ServiceOfferID: q.ServiceOfferID,
		RendezvousID:   q.RendezvousID,
		RendezvousAt:   q.RendezvousAt,
		Status:         q.Status,
		FirstName:      q.FirstName,
		LastName:       q.LastName,
		Email:          q.Email,
		Phone:          q.Phone,
		Company:        q.Company,
		Message:        q.Message,
		Synthesis:      synthesis,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
	if offer != nil {
		out.OfferTitle = offer.Title
	}
	if q.Items != nil {
		out.Items = make([]transport.ItemResponse, 0, len(q.Items))
		for _, item := range q.Items {
			out.Items = append(out.Items, transport.ItemResponse{OptionID: item.OptionID, Quantity: item.Quantity})
		}
	}
	return out
}

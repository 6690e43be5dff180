package service

import (
	"context"
	"strings"

	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/internal/offers/transport"
	"vitrine_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListOptions returns the option catalog in display order.
func (s *Service) ListOptions(ctx context.Context) (transport.OptionListResponse, error) {
	return cached(ctx, s, cacheKeyOptions, func() (transport.OptionListResponse, error) {
		opts, err := s.repo.ListOptions(ctx)
		if err != nil {
			return transport.OptionListResponse{}, err
		}
		items := make([]transport.OptionResponse, 0, len(opts))
		for _, o := range opts {
			items = append(items, toOptionResponse(o))
		}
		return transport.OptionListResponse{Items: items, Total: len(items)}, nil
	})
}

// GetOption returns one option.
func (s *Service) GetOption(ctx context.Context, id uuid.UUID) (transport.OptionResponse, error) {
	opt, err := s.repo.GetOption(ctx, id)
	if err != nil {
		return transport.OptionResponse{}, err
	}
	return toOptionResponse(opt), nil
}

// CreateOption adds an option to the catalog.
func (s *Service) CreateOption(ctx context.Context, req transport.OptionRequest) (transport.OptionResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.OptionResponse{}, err
	}

	opt, err := s.repo.CreateOption(ctx, optionRow(uuid.New(), req))
	if err != nil {
		return transport.OptionResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.log.Info("offer option created", "id", opt.ID, "slug", opt.Slug, "pricingType", opt.PricingType)
	return toOptionResponse(opt), nil
}

// UpdateOption replaces an option's fields.
func (s *Service) UpdateOption(ctx context.Context, id uuid.UUID, req transport.OptionRequest) (transport.OptionResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.OptionResponse{}, err
	}

	opt, err := s.repo.UpdateOption(ctx, optionRow(id, req))
	if err != nil {
		return transport.OptionResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.log.Info("offer option updated", "id", opt.ID, "slug", opt.Slug)
	return toOptionResponse(opt), nil
}

// DeleteOption removes an option. Offers stop including it and stored quote
// requests lose the matching item.
func (s *Service) DeleteOption(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteOption(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.log.Info("offer option deleted", "id", id)
	return nil
}

func optionRow(id uuid.UUID, req transport.OptionRequest) repository.Option {
	var unitLabel *string
	if req.UnitLabel != nil {
		if trimmed := sanitize.Line(*req.UnitLabel); trimmed != "" {
			unitLabel = &trimmed
		}
	}

	return repository.Option{
		ID:               id,
		Slug:             req.Slug,
		Title:            sanitize.Line(req.Title),
		ShortDescription: sanitize.Text(req.ShortDescription),
		Description:      sanitize.Text(req.Description),
		PricingType:      strings.ToUpper(req.PricingType),
		PriceCents:       req.PriceCents,
		PriceFromCents:   req.PriceFromCents,
		UnitLabel:        unitLabel,
		UnitPriceCents:   req.UnitPriceCents,
		DurationDays:     req.DurationDays,
		BillingCadence:   req.BillingCadence,
		SortOrder:        req.Order,
	}
}

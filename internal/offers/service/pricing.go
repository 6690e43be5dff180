package service

import (
	"context"

	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/internal/pricing"

	"github.com/google/uuid"
)

// PricingOffer loads an offer in the shape the synthesizer reads.
func (s *Service) PricingOffer(ctx context.Context, id uuid.UUID) (*pricing.Offer, error) {
	offer, err := s.repo.GetOfferByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPricingOffer(offer), nil
}

// PricingCatalog loads the whole option catalog for the synthesizer.
func (s *Service) PricingCatalog(ctx context.Context) ([]pricing.Option, error) {
	opts, err := s.repo.ListOptions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]pricing.Option, 0, len(opts))
	for _, o := range opts {
		out = append(out, ToPricingOption(o))
	}
	return out, nil
}

// ToPricingOffer converts a stored offer.
func ToPricingOffer(o repository.Offer) *pricing.Offer {
	ids := make([]uuid.UUID, len(o.OptionIDs))
	copy(ids, o.OptionIDs)
	return &pricing.Offer{
		ID:                o.ID,
		Title:             o.Title,
		DurationDays:      o.DurationDays,
		IncludedOptionIDs: ids,
	}
}

// ToPricingOption converts a stored option.
func ToPricingOption(o repository.Option) pricing.Option {
	return pricing.Option{
		ID:             o.ID,
		Title:          o.Title,
		PricingType:    pricing.PricingType(o.PricingType),
		PriceCents:     o.PriceCents,
		PriceFromCents: o.PriceFromCents,
		UnitLabel:      o.UnitLabel,
		UnitPriceCents: o.UnitPriceCents,
		DurationDays:   o.DurationDays,
		BillingCadence: pricing.Cadence(o.BillingCadence),
	}
}

package service

import (
	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/internal/offers/transport"
	"vitrine_backend/internal/pricing"

	"github.com/google/uuid"
)

func toOfferResponse(o repository.Offer) transport.OfferResponse {
	features := make([]transport.FeatureResponse, 0, len(o.Features))
	for _, f := range o.Features {
		features = append(features, transport.FeatureResponse{ID: f.ID, Label: f.Label, Icon: f.Icon, Order: f.SortOrder})
	}
	steps := make([]transport.StepResponse, 0, len(o.Steps))
	for _, st := range o.Steps {
		steps = append(steps, transport.StepResponse{ID: st.ID, Title: st.Title, Description: st.Description, Order: st.SortOrder})
	}
	useCases := make([]transport.UseCaseResponse, 0, len(o.UseCases))
	for _, u := range o.UseCases {
		useCases = append(useCases, transport.UseCaseResponse{ID: u.ID, Title: u.Title, Description: u.Description, Order: u.SortOrder})
	}
	optionIDs := o.OptionIDs
	if optionIDs == nil {
		optionIDs = []uuid.UUID{}
	}

	return transport.OfferResponse{
		ID:               o.ID,
		Title:            o.Title,
		Slug:             o.Slug,
		Subtitle:         o.Subtitle,
		ShortDescription: o.ShortDescription,
		Description:      o.Description,
		PriceLabel:       o.PriceLabel,
		DurationLabel:    o.DurationLabel,
		EngagementLabel:  o.EngagementLabel,
		DurationDays:     o.DurationDays,
		CTALabel:         o.CTALabel,
		CTALink:          o.CTALink,
		IsFeatured:       o.IsFeatured,
		Order:            o.SortOrder,
		Features:         features,
		Steps:            steps,
		UseCases:         useCases,
		OfferOptionIDs:   optionIDs,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func toOptionResponse(o repository.Option) transport.OptionResponse {
	p := ToPricingOption(o)
	return transport.OptionResponse{
		ID:               o.ID,
		Slug:             o.Slug,
		Title:            o.Title,
		ShortDescription: o.ShortDescription,
		Description:      o.Description,
		PricingType:      o.PricingType,
		PriceCents:       o.PriceCents,
		PriceFromCents:   o.PriceFromCents,
		UnitLabel:        o.UnitLabel,
		UnitPriceCents:   o.UnitPriceCents,
		DurationDays:     o.DurationDays,
		BillingCadence:   o.BillingCadence,
		Recurring:        p.PricingType != pricing.PricingQuoteOnly && pricing.IsRecurring(p),
		PriceLabel:       pricing.FormatPrice(p),
		Order:            o.SortOrder,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

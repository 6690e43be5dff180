package main

import (
	_ "embed"
	"fmt"
	"os"

	"vitrine_backend/internal/offers/transport"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type seedCatalog struct {
	Options []seedOption `yaml:"options"`
	Offers  []seedOffer  `yaml:"offers"`
}

type seedOption struct {
	Slug             string  `yaml:"slug"`
	Title            string  `yaml:"title"`
	ShortDescription string  `yaml:"shortDescription"`
	Description      string  `yaml:"description"`
	PricingType      string  `yaml:"pricingType"`
	PriceCents       *int64  `yaml:"priceCents"`
	PriceFromCents   *int64  `yaml:"priceFromCents"`
	UnitLabel        *string `yaml:"unitLabel"`
	UnitPriceCents   *int64  `yaml:"unitPriceCents"`
	DurationDays     int     `yaml:"durationDays"`
	BillingCadence   string  `yaml:"billingCadence"`
}

type seedTitled struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type seedFeature struct {
	Label string  `yaml:"label"`
	Icon  *string `yaml:"icon"`
}

type seedOffer struct {
	Slug             string        `yaml:"slug"`
	Title            string        `yaml:"title"`
	Subtitle         string        `yaml:"subtitle"`
	ShortDescription string        `yaml:"shortDescription"`
	Description      string        `yaml:"description"`
	PriceLabel       string        `yaml:"priceLabel"`
	DurationLabel    string        `yaml:"durationLabel"`
	EngagementLabel  string        `yaml:"engagementLabel"`
	DurationDays     int           `yaml:"durationDays"`
	CTALabel         string        `yaml:"ctaLabel"`
	CTALink          string        `yaml:"ctaLink"`
	IsFeatured       bool          `yaml:"isFeatured"`
	Features         []seedFeature `yaml:"features"`
	Steps            []seedTitled  `yaml:"steps"`
	UseCases         []seedTitled  `yaml:"useCases"`
	Options          []string      `yaml:"options"`
}

// loadCatalog reads path, or the embedded catalog when path is empty.
func loadCatalog(path string) (seedCatalog, error) {
	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return seedCatalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		raw = data
	}

	var catalog seedCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return seedCatalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return catalog, nil
}

func (o seedOption) request(order int) transport.OptionRequest {
	return transport.OptionRequest{
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
		Order:            order,
	}
}

// request resolves option slugs against optionIDs; an unknown slug is an error.
func (o seedOffer) request(order int, optionIDs map[string]uuid.UUID) (transport.OfferRequest, error) {
	req := transport.OfferRequest{
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
		Order:            order,
		Features:         make([]transport.FeatureRequest, 0, len(o.Features)),
		Steps:            make([]transport.StepRequest, 0, len(o.Steps)),
		UseCases:         make([]transport.UseCaseRequest, 0, len(o.UseCases)),
		OfferOptionIDs:   make([]uuid.UUID, 0, len(o.Options)),
	}
	for _, f := range o.Features {
		req.Features = append(req.Features, transport.FeatureRequest{Label: f.Label, Icon: f.Icon})
	}
	for _, s := range o.Steps {
		req.Steps = append(req.Steps, transport.StepRequest{Title: s.Title, Description: s.Description})
	}
	for _, u := range o.UseCases {
		req.UseCases = append(req.UseCases, transport.UseCaseRequest{Title: u.Title, Description: u.Description})
	}
	for _, slug := range o.Options {
		id, ok := optionIDs[slug]
		if !ok {
			return transport.OfferRequest{}, fmt.Errorf("offer %s: unknown option %q", o.Slug, slug)
		}
		req.OfferOptionIDs = append(req.OfferOptionIDs, id)
	}
	return req, nil
}

package transport

import (
	"time"

	"github.com/google/uuid"
)

// FeatureRequest is one feature bullet. Order defaults to the array position.
type FeatureRequest struct {
	Label string  `json:"label" validate:"required,max=200"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=50"`
	Order *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

// StepRequest is one delivery step. Order defaults to the array position.
type StepRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Order       *int   `json:"order,omitempty" validate:"omitempty,min=0"`
}

// UseCaseRequest is one use case. Order defaults to the array position.
type UseCaseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Order       *int   `json:"order,omitempty" validate:"omitempty,min=0"`
}

// OfferRequest is the full aggregate written by create and update.
type OfferRequest struct {
	Title            string           `json:"title" validate:"required,max=200"`
	Slug             string           `json:"slug" validate:"required,max=200,slug"`
	Subtitle         string           `json:"subtitle" validate:"max=300"`
	ShortDescription string           `json:"shortDescription" validate:"required,max=500"`
	Description      string           `json:"description" validate:"required,max=10000"`
	PriceLabel       string           `json:"priceLabel" validate:"max=100"`
	DurationLabel    string           `json:"durationLabel" validate:"max=100"`
	EngagementLabel  string           `json:"engagementLabel" validate:"max=100"`
	DurationDays     int              `json:"durationDays" validate:"min=0,max=3650"`
	CTALabel         string           `json:"ctaLabel" validate:"max=100"`
	CTALink          string           `json:"ctaLink" validate:"required,max=500"`
	IsFeatured       bool             `json:"isFeatured"`
	Order            int              `json:"order" validate:"min=0"`
	Features         []FeatureRequest `json:"features" validate:"max=50,dive"`
	Steps            []StepRequest    `json:"steps" validate:"max=50,dive"`
	UseCases         []UseCaseRequest `json:"useCases" validate:"max=50,dive"`
	OfferOptionIDs   []uuid.UUID      `json:"offerOptionIds" validate:"max=100,dive,required"`
}

type FeatureResponse struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Icon  *string   `json:"icon,omitempty"`
	Order int       `json:"order"`
}

type StepResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
}

type UseCaseResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
}

// OfferResponse is an offer with all relations in stored order.
type OfferResponse struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Subtitle         string            `json:"subtitle"`
	ShortDescription string            `json:"shortDescription"`
	Description      string            `json:"description"`
	PriceLabel       string            `json:"priceLabel"`
	DurationLabel    string            `json:"durationLabel"`
	EngagementLabel  string            `json:"engagementLabel"`
	DurationDays     int               `json:"durationDays"`
	CTALabel         string            `json:"ctaLabel"`
	CTALink          string            `json:"ctaLink"`
	IsFeatured       bool              `json:"isFeatured"`
	Order            int               `json:"order"`
	Features         []FeatureResponse `json:"features"`
	Steps            []StepResponse    `json:"steps"`
	UseCases         []UseCaseResponse `json:"useCases"`
	OfferOptionIDs   []uuid.UUID       `json:"offerOptionIds"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// OfferListResponse wraps the offer list.
type OfferListResponse struct {
	Items []OfferResponse `json:"items"`
	Total int             `json:"total"`
}

// OptionRequest creates or replaces an option. Only the price field matching
// pricingType is used by the quote synthesis; a missing one renders "À définir".
type OptionRequest struct {
	Slug             string  `json:"slug" validate:"required,max=200,slug"`
	Title            string  `json:"title" validate:"required,max=200"`
	ShortDescription string  `json:"shortDescription" validate:"max=500"`
	Description      string  `json:"description" validate:"max=5000"`
	PricingType      string  `json:"pricingType" validate:"required,oneof=FIXED FROM PER_UNIT QUOTE_ONLY"`
	PriceCents       *int64  `json:"priceCents,omitempty" validate:"omitempty,min=0,max=100000000000"`
	PriceFromCents   *int64  `json:"priceFromCents,omitempty" validate:"omitempty,min=0,max=100000000000"`
	UnitLabel        *string `json:"unitLabel,omitempty" validate:"omitempty,max=50"`
	UnitPriceCents   *int64  `json:"unitPriceCents,omitempty" validate:"omitempty,min=0,max=100000000000"`
	DurationDays     int     `json:"durationDays" validate:"min=0,max=3650"`
	BillingCadence   string  `json:"billingCadence" validate:"omitempty,oneof=ONE_TIME MONTHLY"`
	Order            int     `json:"order" validate:"min=0"`
}

// OptionResponse is an option with its rendered price label.
type OptionResponse struct {
	ID               uuid.UUID `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Description      string    `json:"description"`
	PricingType      string    `json:"pricingType"`
	PriceCents       *int64    `json:"priceCents,omitempty"`
	PriceFromCents   *int64    `json:"priceFromCents,omitempty"`
	UnitLabel        *string   `json:"unitLabel,omitempty"`
	UnitPriceCents   *int64    `json:"unitPriceCents,omitempty"`
	DurationDays     int       `json:"durationDays"`
	BillingCadence   string    `json:"billingCadence,omitempty"`
	Recurring        bool      `json:"recurring"`
	PriceLabel       string    `json:"priceLabel"`
	Order            int       `json:"order"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// OptionListResponse wraps the option catalog.
type OptionListResponse struct {
	Items []OptionResponse `json:"items"`
	Total int              `json:"total"`
}

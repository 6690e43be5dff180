package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Offer is a service offer with its owned collections in stored order.
type Offer struct {
	ID               uuid.UUID
	Title            string
	Slug             string
	Subtitle         string
	ShortDescription string
	Description      string
	PriceLabel       string
	DurationLabel    string
	EngagementLabel  string
	DurationDays     int
	CTALabel         string
	CTALink          string
	IsFeatured       bool
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Features  []Feature
	Steps     []Step
	UseCases  []UseCase
	OptionIDs []uuid.UUID
}

// Feature is one bullet of an offer.
type Feature struct {
	ID        uuid.UUID
	Label     string
	Icon      *string
	SortOrder int
}

// Step is one stage of the delivery process shown on the offer page.
type Step struct {
	ID          uuid.UUID
	Title       string
	Description string
	SortOrder   int
}

// UseCase is an example situation the offer fits.
type UseCase struct {
	ID          uuid.UUID
	Title       string
	Description string
	SortOrder   int
}

// Option is an add-on of the option catalog.
type Option struct {
	ID               uuid.UUID
	Slug             string
	Title            string
	ShortDescription string
	Description      string
	PricingType      string
	PriceCents       *int64
	PriceFromCents   *int64
	UnitLabel        *string
	UnitPriceCents   *int64
	DurationDays     int
	BillingCadence   string
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OfferReader provides read operations outside of a write transaction.
type OfferReader interface {
	ListOffers(ctx context.Context) ([]Offer, error)
	GetOfferByID(ctx context.Context, id uuid.UUID) (Offer, error)
	GetOfferBySlug(ctx context.Context, slug string) (Offer, error)
}

// OptionRepository provides the option catalog operations.
type OptionRepository interface {
	ListOptions(ctx context.Context) ([]Option, error)
	GetOption(ctx context.Context, id uuid.UUID) (Option, error)
	CreateOption(ctx context.Context, opt Option) (Option, error)
	UpdateOption(ctx context.Context, opt Option) (Option, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error
}

// Tx is the set of writes available inside one offer transaction.
// Every call made through a Tx commits or rolls back together.
type Tx interface {
	// OfferExists reports whether the offer row is present and locks it for the transaction.
	OfferExists(ctx context.Context, id uuid.UUID) (bool, error)
	// MissingOptionIDs returns the ids that do not exist in the option catalog.
	MissingOptionIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	// UnfeatureOthers serializes featured writes and clears the flag on every offer except keepID.
	UnfeatureOthers(ctx context.Context, keepID uuid.UUID) error
	// UpsertOffer inserts or updates the offer's scalar fields.
	UpsertOffer(ctx context.Context, offer Offer) error
	ReplaceOptionLinks(ctx context.Context, offerID uuid.UUID, optionIDs []uuid.UUID) error
	ReplaceFeatures(ctx context.Context, offerID uuid.UUID, features []Feature) error
	ReplaceSteps(ctx context.Context, offerID uuid.UUID, steps []Step) error
	ReplaceUseCases(ctx context.Context, offerID uuid.UUID, useCases []UseCase) error
	// DeleteOffer removes the owned rows then the offer. It reports false when nothing was deleted.
	DeleteOffer(ctx context.Context, id uuid.UUID) (bool, error)
	// GetOffer reloads the offer with relations as seen by the transaction.
	GetOffer(ctx context.Context, id uuid.UUID) (Offer, error)
}

// Repository combines all offer catalog operations.
type Repository interface {
	OfferReader
	OptionRepository
	// WithTx runs fn in one transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

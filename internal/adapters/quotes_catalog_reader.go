package adapters

import (
	"context"

	offersservice "vitrine_backend/internal/offers/service"
	"vitrine_backend/internal/pricing"
	quotesservice "vitrine_backend/internal/quotes/service"

	"github.com/google/uuid"
)

// QuotesCatalogReader gives the quotes service read access to the offer catalog
// without importing the offers repository.
type QuotesCatalogReader struct {
	svc *offersservice.Service
}

func NewQuotesCatalogReader(svc *offersservice.Service) *QuotesCatalogReader {
	return &QuotesCatalogReader{svc: svc}
}

func (a *QuotesCatalogReader) Offer(ctx context.Context, id uuid.UUID) (*pricing.Offer, error) {
	return a.svc.PricingOffer(ctx, id)
}

func (a *QuotesCatalogReader) Options(ctx context.Context) ([]pricing.Option, error) {
	return a.svc.PricingCatalog(ctx)
}

var _ quotesservice.CatalogReader = (*QuotesCatalogReader)(nil)

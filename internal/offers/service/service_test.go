package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/internal/offers/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/cache"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func intPtr(v int) *int { return &v }

func newTestService(store *memStore) *Service {
	return New(store, validator.New(), nil, logger.Discard())
}

func validOffer(slug string) transport.OfferRequest {
	return transport.OfferRequest{
		Title:            "Site vitrine",
		Slug:             slug,
		ShortDescription: "Un site clair pour présenter votre activité.",
		Description:      "Conception, intégration et mise en ligne.",
		DurationDays:     10,
		CTALink:          "/devis",
		Features:         []transport.FeatureRequest{{Label: "Design sur mesure"}},
		Steps:            []transport.StepRequest{{Title: "Atelier"}},
		UseCases:         []transport.UseCaseRequest{{Title: "Artisan"}},
	}
}

func fieldErrors(t *testing.T, err error) apperr.FieldErrors {
	t.Helper()
	domainErr, ok := apperr.As(err)
	if !ok || domainErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields, ok := domainErr.Details.(apperr.FieldErrors)
	if !ok {
		t.Fatalf("expected field errors, got %T", domainErr.Details)
	}
	return fields
}

func TestCreateOffer_UnfeaturesPreviousFeaturedOffer(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	reqY := validOffer("offre-y")
	reqY.IsFeatured = true
	offerY, err := svc.CreateOffer(ctx, reqY)
	if err != nil {
		t.Fatalf("create Y: %v", err)
	}

	reqX := validOffer("offre-x")
	reqX.IsFeatured = true
	txBefore := store.txCount
	offerX, err := svc.CreateOffer(ctx, reqX)
	if err != nil {
		t.Fatalf("create X: %v", err)
	}

	if store.txCount != txBefore+1 {
		t.Fatalf("expected the unfeature and the creation in one transaction, got %d", store.txCount-txBefore)
	}
	featured := store.featuredIDs()
	if len(featured) != 1 || featured[0] != offerX.ID {
		t.Fatalf("expected only X featured, got %v", featured)
	}
	y, _ := svc.GetOffer(ctx, offerY.ID)
	if y.IsFeatured {
		t.Fatal("expected Y to lose the featured flag")
	}
}

func TestUpdateOffer_SingleFeaturedInvariant(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	var ids []uuid.UUID
	for i, slug := range []string{"a", "b", "c"} {
		req := validOffer(slug)
		req.IsFeatured = i == 0
		o, err := svc.CreateOffer(ctx, req)
		if err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
		ids = append(ids, o.ID)
	}

	req := validOffer("c")
	req.IsFeatured = true
	if _, err := svc.UpdateOffer(ctx, ids[2], req); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := svc.ListOffers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var featured []uuid.UUID
	for _, o := range list.Items {
		if o.IsFeatured {
			featured = append(featured, o.ID)
		}
	}
	if len(featured) != 1 || featured[0] != ids[2] {
		t.Fatalf("expected exactly offer c featured, got %v", featured)
	}
}

func TestCreateOffer_ValidationHasNoSideEffects(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	req := validOffer("Pas Un Slug")
	req.Title = ""
	req.CTALink = ""
	req.DurationDays = -1
	req.Features = []transport.FeatureRequest{{Label: "ok"}, {Label: ""}}

	_, err := svc.CreateOffer(context.Background(), req)
	fields := fieldErrors(t, err)

	for _, key := range []string{"title", "slug", "ctaLink", "durationDays", "features[1].label"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected field error for %q, got %v", key, fields)
		}
	}
	if store.txCount != 0 || len(store.state.offers) != 0 {
		t.Fatal("validation failure must not open a transaction or store anything")
	}
}

func TestCreateOffer_UnknownOptionIDs(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	req := validOffer("site")
	req.OfferOptionIDs = []uuid.UUID{uuid.New()}
	_, err := svc.CreateOffer(context.Background(), req)

	if _, ok := fieldErrors(t, err)["offerOptionIds"]; !ok {
		t.Fatal("expected offerOptionIds field error")
	}
	if len(store.state.offers) != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestCreateOffer_DuplicateSlug(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	if _, err := svc.CreateOffer(ctx, validOffer("site")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateOffer(ctx, validOffer("site"))
	if _, ok := fieldErrors(t, err)["slug"]; !ok {
		t.Fatal("expected slug field error")
	}
}

func TestCreateOffer_ReturnsReloadedOrderedState(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	optA, err := svc.CreateOption(ctx, transport.OptionRequest{Slug: "a", Title: "A", PricingType: "FIXED"})
	if err != nil {
		t.Fatalf("create option: %v", err)
	}

	req := validOffer("site")
	req.Features = []transport.FeatureRequest{
		{Label: "third", Order: intPtr(5)},
		{Label: "first"},
		{Label: "second", Order: intPtr(1)},
	}
	req.Steps = []transport.StepRequest{{Title: "s0"}, {Title: "s1"}, {Title: "s2"}}
	req.OfferOptionIDs = []uuid.UUID{optA.ID, optA.ID}

	out, err := svc.CreateOffer(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	labels := []string{out.Features[0].Label, out.Features[1].Label, out.Features[2].Label}
	if labels[0] != "first" || labels[1] != "second" || labels[2] != "third" {
		t.Fatalf("expected features in stored order, got %v", labels)
	}
	if out.Features[0].Order != 1 || out.Steps[2].Order != 2 {
		t.Fatalf("expected order to default to the array index, got %d and %d", out.Features[0].Order, out.Steps[2].Order)
	}
	if len(out.OfferOptionIDs) != 1 || out.OfferOptionIDs[0] != optA.ID {
		t.Fatalf("expected deduplicated option links, got %v", out.OfferOptionIDs)
	}
}

func TestUpdateOffer_ReplacesCollections(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.CreateOffer(ctx, validOffer("site"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := validOffer("site")
	req.Features = []transport.FeatureRequest{{Label: "new one"}, {Label: "new two"}}
	req.Steps = nil
	updated, err := svc.UpdateOffer(ctx, created.ID, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(updated.Features) != 2 || updated.Features[0].Label != "new one" {
		t.Fatalf("expected replaced features, got %+v", updated.Features)
	}
	if len(updated.Steps) != 0 {
		t.Fatalf("expected steps cleared, got %+v", updated.Steps)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("expected creation time preserved")
	}
}

func TestUpdateOffer_NotFound(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.UpdateOffer(context.Background(), uuid.New(), validOffer("site"))
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(store.state.offers) != 0 {
		t.Fatal("update of a missing offer must not create it")
	}
}

func TestWriteOffer_RollsBackOnFailingStep(t *testing.T) {
	for _, step := range []string{"UpsertOffer", "ReplaceOptionLinks", "ReplaceFeatures", "ReplaceSteps", "ReplaceUseCases", "GetOffer"} {
		t.Run(step, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)
			ctx := context.Background()

			previous := validOffer("previous")
			previous.IsFeatured = true
			prev, err := svc.CreateOffer(ctx, previous)
			if err != nil {
				t.Fatalf("seed: %v", err)
			}

			store.failOn = step
			req := validOffer("site")
			req.IsFeatured = true
			if _, err := svc.CreateOffer(ctx, req); !errors.Is(err, errInjected) {
				t.Fatalf("expected injected failure, got %v", err)
			}

			if len(store.state.offers) != 1 {
				t.Fatalf("expected only the seeded offer, got %d offers", len(store.state.offers))
			}
			featured := store.featuredIDs()
			if len(featured) != 1 || featured[0] != prev.ID {
				t.Fatalf("expected previous featured flag restored, got %v", featured)
			}
			if len(store.state.features) != 1 || len(store.state.steps) != 1 {
				t.Fatal("expected no partial collections")
			}
		})
	}
}

func TestDeleteOffer(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.CreateOffer(ctx, validOffer("site"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteOffer(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.state.offers) != 0 || len(store.state.features) != 0 || len(store.state.steps) != 0 {
		t.Fatal("expected offer and owned rows removed")
	}
	if err := svc.DeleteOffer(ctx, created.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListOffers_CacheInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newMemStore()
	svc := New(store, validator.New(), cache.New(client, time.Minute), logger.Discard())
	ctx := context.Background()

	if _, err := svc.CreateOffer(ctx, validOffer("a")); err != nil {
		t.Fatalf("create a: %v", err)
	}
	first, err := svc.ListOffers(ctx)
	if err != nil || first.Total != 1 {
		t.Fatalf("expected one offer, got %d (%v)", first.Total, err)
	}
	if !mr.Exists("vitrine:" + cacheKeyOffers) {
		t.Fatal("expected list to be cached")
	}

	if _, err := svc.CreateOffer(ctx, validOffer("b")); err != nil {
		t.Fatalf("create b: %v", err)
	}
	second, err := svc.ListOffers(ctx)
	if err != nil || second.Total != 2 {
		t.Fatalf("expected fresh list with two offers, got %d (%v)", second.Total, err)
	}
}

func TestOptionCRUD(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.CreateOption(ctx, transport.OptionRequest{Slug: "x", Title: "X", PricingType: "HOURLY"})
	if _, ok := fieldErrors(t, err)["pricingType"]; !ok {
		t.Fatal("expected pricingType field error")
	}

	price := int64(2500)
	unit := "  page "
	opt, err := svc.CreateOption(ctx, transport.OptionRequest{
		Slug: "pages", Title: "Pages", PricingType: "PER_UNIT", UnitPriceCents: &price, UnitLabel: &unit, DurationDays: 1,
	})
	if err != nil {
		t.Fatalf("create option: %v", err)
	}
	if opt.PriceLabel != "25 € / page" || opt.Recurring {
		t.Fatalf("unexpected option response %+v", opt)
	}

	cadence := transport.OptionRequest{Slug: "pages", Title: "Pages", PricingType: "PER_UNIT", UnitPriceCents: &price, BillingCadence: "MONTHLY"}
	updated, err := svc.UpdateOption(ctx, opt.ID, cadence)
	if err != nil {
		t.Fatalf("update option: %v", err)
	}
	if !updated.Recurring || updated.PriceLabel != "25 € / unité" {
		t.Fatalf("unexpected updated option %+v", updated)
	}

	offerReq := validOffer("site")
	offerReq.OfferOptionIDs = []uuid.UUID{opt.ID}
	offer, err := svc.CreateOffer(ctx, offerReq)
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	if err := svc.DeleteOption(ctx, opt.ID); err != nil {
		t.Fatalf("delete option: %v", err)
	}
	reloaded, _ := svc.GetOffer(ctx, offer.ID)
	if len(reloaded.OfferOptionIDs) != 0 {
		t.Fatal("expected option link removed with the option")
	}
}

func TestCreateOption_RejectsPricesBeyondCap(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	huge := int64(100000000001)
	tests := []struct {
		name  string
		req   transport.OptionRequest
		field string
	}{
		{name: "fixed", req: transport.OptionRequest{Slug: "a", Title: "A", PricingType: "FIXED", PriceCents: &huge}, field: "priceCents"},
		{name: "from", req: transport.OptionRequest{Slug: "b", Title: "B", PricingType: "FROM", PriceFromCents: &huge}, field: "priceFromCents"},
		{name: "per unit", req: transport.OptionRequest{Slug: "c", Title: "C", PricingType: "PER_UNIT", UnitPriceCents: &huge}, field: "unitPriceCents"},
		{name: "duration", req: transport.OptionRequest{Slug: "d", Title: "D", PricingType: "QUOTE_ONLY", DurationDays: 3651}, field: "durationDays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOption(ctx, tt.req)
			if _, ok := fieldErrors(t, err)[tt.field]; !ok {
				t.Fatalf("expected %s field error, got %v", tt.field, err)
			}
		})
	}

	limit := int64(100000000000)
	if _, err := svc.CreateOption(ctx, transport.OptionRequest{Slug: "e", Title: "E", PricingType: "FIXED", PriceCents: &limit}); err != nil {
		t.Fatalf("expected price at the cap to be accepted, got %v", err)
	}
}

func TestPricingConversion(t *testing.T) {
	label := "mois"
	o := repository.Option{ID: uuid.New(), Title: "Hébergement", PricingType: "PER_UNIT", UnitLabel: &label}
	p := ToPricingOption(o)
	if p.PricingType != "PER_UNIT" || p.UnitLabel == nil || *p.UnitLabel != "mois" {
		t.Fatalf("unexpected conversion %+v", p)
	}
}

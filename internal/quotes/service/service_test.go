package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"vitrine_backend/internal/events"
	"vitrine_backend/internal/pricing"
	"vitrine_backend/internal/quotes/repository"
	"vitrine_backend/internal/quotes/transport"
	rvrepo "vitrine_backend/internal/rendezvous/repository"
	rvtransport "vitrine_backend/internal/rendezvous/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeCatalog struct {
	offers  map[uuid.UUID]*pricing.Offer
	options []pricing.Option
}

func (f *fakeCatalog) Offer(ctx context.Context, id uuid.UUID) (*pricing.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, apperr.NotFound("service offer not found")
	}
	return o, nil
}

func (f *fakeCatalog) Options(ctx context.Context) ([]pricing.Option, error) {
	return f.options, nil
}

type fakeRepo struct {
	quotes      map[uuid.UUID]repository.QuoteRequest
	rendezvous  []rvrepo.Rendezvous
	createCalls int
}

func (f *fakeRepo) Create(ctx context.Context, q repository.QuoteRequest, rv *rvrepo.Rendezvous) (repository.QuoteRequest, error) {
	f.createCalls++
	if rv != nil {
		f.rendezvous = append(f.rendezvous, *rv)
		q.RendezvousID = &rv.ID
		at := rv.ScheduledAt
		q.RendezvousAt = &at
	}
	q.CreatedAt, q.UpdatedAt = time.Now(), time.Now()
	f.quotes[q.ID] = q
	return q, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.QuoteRequest, error) {
	q, ok := f.quotes[id]
	if !ok {
		return repository.QuoteRequest{}, apperr.NotFound("quote request not found")
	}
	return q, nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	var items []repository.QuoteRequest
	for _, q := range f.quotes {
		if params.Status == nil || *params.Status == q.Status {
			items = append(items, q)
		}
	}
	return repository.ListResult{Items: items, Total: len(items)}, nil
}

func (f *fakeRepo) Update(ctx context.Context, q repository.QuoteRequest) (repository.QuoteRequest, error) {
	existing, ok := f.quotes[q.ID]
	if !ok {
		return repository.QuoteRequest{}, apperr.NotFound("quote request not found")
	}
	q.Status = existing.Status
	q.RendezvousID, q.RendezvousAt = existing.RendezvousID, existing.RendezvousAt
	q.CreatedAt = existing.CreatedAt
	f.quotes[q.ID] = q
	return q, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	q, ok := f.quotes[id]
	if !ok {
		return apperr.NotFound("quote request not found")
	}
	q.Status = status
	f.quotes[id] = q
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.quotes[id]; !ok {
		return apperr.NotFound("quote request not found")
	}
	delete(f.quotes, id)
	return nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func ptr[T any](v T) *T { return &v }

var (
	fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	offerID  = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	optY     = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	optZ     = uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
	optQuote = uuid.MustParse("00000000-0000-0000-0000-0000000000b3")
)

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	catalog *fakeCatalog
	bus     *recordingBus
}

func newFixture() fixture {
	catalog := &fakeCatalog{
		offers: map[uuid.UUID]*pricing.Offer{
			offerID: {ID: offerID, Title: "Site vitrine", DurationDays: 5, IncludedOptionIDs: []uuid.UUID{optY}},
		},
		options: []pricing.Option{
			{ID: optY, Title: "Opt Y", PricingType: pricing.PricingFixed, PriceCents: ptr(int64(5000)), DurationDays: 2},
			{ID: optZ, Title: "Opt Z", PricingType: pricing.PricingPerUnit, UnitPriceCents: ptr(int64(2500)), UnitLabel: ptr("page"), DurationDays: 1},
			{ID: optQuote, Title: "Sur mesure", PricingType: pricing.PricingQuoteOnly, DurationDays: 3},
		},
	}
	repo := &fakeRepo{quotes: map[uuid.UUID]repository.QuoteRequest{}}
	bus := &recordingBus{}
	svc := New(repo, catalog, validator.New(), bus, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, repo: repo, catalog: catalog, bus: bus}
}

func submission() transport.SubmitRequest {
	return transport.SubmitRequest{
		SelectionRequest: transport.SelectionRequest{
			ServiceOfferID: ptr(offerID),
			OfferOptionIDs: []uuid.UUID{optZ},
			Quantities:     map[uuid.UUID]int{optZ: 2},
		},
		ContactRequest: transport.ContactRequest{
			FirstName: "Camille",
			LastName:  "Martin",
			Email:     "camille@example.com",
			Phone:     "0612345678",
		},
	}
}

func TestPreview_MatchesSubmissionTotals(t *testing.T) {
	f := newFixture()

	got, err := f.svc.Preview(context.Background(), submission().Selection())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if got.OneTimeTotalCents != 10000 || got.TotalDurationDays != 9 || got.MonthlyTotalCents != 0 {
		t.Fatalf("unexpected synthesis %+v", got)
	}
	if f.repo.createCalls != 0 {
		t.Fatal("preview must not store anything")
	}
}

func TestPreview_IgnoresUnknownOptions(t *testing.T) {
	f := newFixture()
	sel := transport.SelectionRequest{OfferOptionIDs: []uuid.UUID{uuid.New(), optQuote}}

	got, err := f.svc.Preview(context.Background(), sel)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(got.ExtraOptionIDs) != 1 || got.OneTimeTotalCents != 0 || !got.Estimate || got.TotalDurationDays != 3 {
		t.Fatalf("unexpected synthesis %+v", got)
	}
}

func TestSubmit_StoresEffectiveSelection(t *testing.T) {
	f := newFixture()

	out, err := f.svc.Submit(context.Background(), submission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored := f.repo.quotes[out.ID]
	if stored.Status != repository.StatusNew {
		t.Fatalf("expected NEW, got %s", stored.Status)
	}
	want := map[uuid.UUID]int{optY: 1, optZ: 2}
	if len(stored.Items) != len(want) {
		t.Fatalf("expected %d items, got %+v", len(want), stored.Items)
	}
	for _, item := range stored.Items {
		if want[item.OptionID] != item.Quantity {
			t.Fatalf("unexpected item %+v", item)
		}
	}
	if stored.Phone != "+33612345678" {
		t.Fatalf("expected normalized phone, got %q", stored.Phone)
	}
	if out.Synthesis == nil || out.Synthesis.OneTimeTotalCents != 10000 {
		t.Fatalf("expected recomputed synthesis in response, got %+v", out.Synthesis)
	}

	if len(f.bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(f.bus.published))
	}
	event, ok := f.bus.published[0].(events.QuoteRequested)
	if !ok {
		t.Fatalf("unexpected event %T", f.bus.published[0])
	}
	if event.OneTimeTotal != "100 €" || event.TotalDurationDays != 9 || event.OfferTitle != "Site vitrine" || len(event.Lines) != 2 {
		t.Fatalf("unexpected event payload %+v", event)
	}
}

func TestSubmit_RejectsUnknownOptionAndOffer(t *testing.T) {
	f := newFixture()

	req := submission()
	req.OfferOptionIDs = append(req.OfferOptionIDs, uuid.New())
	_, err := f.svc.Submit(context.Background(), req)
	assertField(t, err, "offerOptionIds")

	req = submission()
	req.ServiceOfferID = ptr(uuid.New())
	_, err = f.svc.Submit(context.Background(), req)
	assertField(t, err, "serviceOfferId")

	if f.repo.createCalls != 0 || len(f.bus.published) != 0 {
		t.Fatal("rejected submissions must not be stored or announced")
	}
}

func TestSubmit_ContactValidation(t *testing.T) {
	f := newFixture()
	req := submission()
	req.Email = "pas-un-email"
	req.FirstName = ""

	_, err := f.svc.Submit(context.Background(), req)
	assertField(t, err, "email")
	assertField(t, err, "firstName")
}

func TestSubmit_WithRendezvous(t *testing.T) {
	f := newFixture()
	at := fixedNow.Add(72 * time.Hour)

	req := submission()
	req.Rendezvous = &rvtransport.SlotRequest{ScheduledAt: at, Topic: "Cadrage"}
	out, err := f.svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(f.repo.rendezvous) != 1 {
		t.Fatalf("expected one rendezvous created with the quote, got %d", len(f.repo.rendezvous))
	}
	rv := f.repo.rendezvous[0]
	if rv.Email != "camille@example.com" || rv.Status != rvrepo.StatusPending || !rv.ScheduledAt.Equal(at) {
		t.Fatalf("unexpected rendezvous %+v", rv)
	}
	if out.RendezvousID == nil || *out.RendezvousID != rv.ID {
		t.Fatal("expected quote linked to the rendezvous")
	}
	event := f.bus.published[0].(events.QuoteRequested)
	if event.RendezvousAt == nil || !event.RendezvousAt.Equal(at) {
		t.Fatal("expected the event to carry the rendezvous time")
	}
}

func TestSubmit_RejectsPastRendezvous(t *testing.T) {
	f := newFixture()
	req := submission()
	req.Rendezvous = &rvtransport.SlotRequest{ScheduledAt: fixedNow.Add(-time.Hour)}

	_, err := f.svc.Submit(context.Background(), req)
	assertField(t, err, "rendezvous.scheduledAt")
	if f.repo.createCalls != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestGetByID_RecomputesFromLiveCatalog(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.svc.Submit(ctx, submission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	f.catalog.options[1].UnitPriceCents = ptr(int64(3000))
	detail, err := f.svc.GetByID(ctx, out.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Synthesis.OneTimeTotalCents != 5000+2*3000 {
		t.Fatalf("expected totals from the current catalog, got %d", detail.Synthesis.OneTimeTotalCents)
	}

	delete(f.catalog.offers, offerID)
	detail, err = f.svc.GetByID(ctx, out.ID)
	if err != nil {
		t.Fatalf("get after offer removal: %v", err)
	}
	if detail.OfferTitle != "" || detail.Synthesis == nil {
		t.Fatalf("expected detail without offer, got %+v", detail)
	}
}

func TestQuantityCapAppliesToEveryEntryPoint(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	field := "quantities[" + optZ.String() + "]"

	req := submission()
	req.Quantities = map[uuid.UUID]int{optZ: 10001}

	_, err := f.svc.Preview(ctx, req.Selection())
	assertField(t, err, field)

	_, err = f.svc.Submit(ctx, req)
	assertField(t, err, field)

	_, err = f.svc.Update(ctx, uuid.New(), transport.UpdateRequest{
		SelectionRequest: req.SelectionRequest,
		ContactRequest:   req.ContactRequest,
	})
	assertField(t, err, field)

	if f.repo.createCalls != 0 {
		t.Fatal("over-cap selections must not be stored")
	}
}

func TestUpdate_ReplacesSelection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.svc.Submit(ctx, submission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	upd := transport.UpdateRequest{
		SelectionRequest: transport.SelectionRequest{OfferOptionIDs: []uuid.UUID{optQuote}},
		ContactRequest:   transport.ContactRequest{FirstName: "Camille", LastName: "Martin", Email: "camille@example.com"},
	}
	updated, err := f.svc.Update(ctx, out.ID, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].OptionID != optQuote {
		t.Fatalf("expected items replaced, got %+v", updated.Items)
	}
	if updated.Status != repository.StatusNew {
		t.Fatalf("expected status kept, got %s", updated.Status)
	}

	_, err = f.svc.Update(ctx, uuid.New(), upd)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.svc.Submit(ctx, submission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.svc.UpdateStatus(ctx, out.ID, transport.UpdateStatusRequest{Status: "REVIEWED"}); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if f.repo.quotes[out.ID].Status != repository.StatusReviewed {
		t.Fatal("expected REVIEWED")
	}
	if err := f.svc.UpdateStatus(ctx, out.ID, transport.UpdateStatusRequest{Status: "ARCHIVED"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	domainErr, ok := apperr.As(err)
	if !ok || domainErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields, _ := domainErr.Details.(apperr.FieldErrors)
	if _, ok := fields[field]; !ok {
		t.Fatalf("expected field error for %q, got %v", field, fields)
	}
}

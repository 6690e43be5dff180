package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"vitrine_backend/internal/events"
	"vitrine_backend/internal/rendezvous/repository"
	"vitrine_backend/internal/rendezvous/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeRepo struct {
	items map[uuid.UUID]repository.Rendezvous
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]repository.Rendezvous{}}
}

func (f *fakeRepo) slotTaken(at time.Time, except uuid.UUID) bool {
	for id, rv := range f.items {
		if id != except && rv.Status != repository.StatusCancelled && rv.ScheduledAt.Equal(at) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Create(ctx context.Context, rv repository.Rendezvous) (repository.Rendezvous, error) {
	if f.slotTaken(rv.ScheduledAt, rv.ID) {
		return repository.Rendezvous{}, apperr.Conflict("this time slot is already booked")
	}
	rv.CreatedAt, rv.UpdatedAt = time.Now(), time.Now()
	f.items[rv.ID] = rv
	return rv, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Rendezvous, error) {
	rv, ok := f.items[id]
	if !ok {
		return repository.Rendezvous{}, apperr.NotFound("rendezvous not found")
	}
	return rv, nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	var items []repository.Rendezvous
	for _, rv := range f.items {
		if params.Status == nil || *params.Status == rv.Status {
			items = append(items, rv)
		}
	}
	total := len(items)
	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := min(start+params.PageSize, total)
	return repository.ListResult{Items: items[start:end], Total: total}, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Rendezvous, error) {
	rv, ok := f.items[id]
	if !ok {
		return repository.Rendezvous{}, apperr.NotFound("rendezvous not found")
	}
	if status != repository.StatusCancelled && f.slotTaken(rv.ScheduledAt, id) {
		return repository.Rendezvous{}, apperr.Conflict("this time slot is already booked")
	}
	rv.Status = status
	f.items[id] = rv
	return rv, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("rendezvous not found")
	}
	delete(f.items, id)
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

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeRepo, *recordingBus) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, validator.New(), bus, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, bus
}

func booking(at time.Time) transport.BookRequest {
	return transport.BookRequest{
		FirstName:   " Camille ",
		LastName:    "Martin",
		Email:       "Camille@Example.com ",
		Phone:       "06 12 34 56 78",
		ScheduledAt: at,
		Topic:       "Refonte du site",
	}
}

func TestBook_StoresPendingAndPublishes(t *testing.T) {
	svc, _, bus := newTestService()

	rv, err := svc.Book(context.Background(), booking(fixedNow.Add(48*time.Hour)))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if rv.Status != repository.StatusPending {
		t.Fatalf("expected PENDING, got %s", rv.Status)
	}
	if rv.Email != "camille@example.com" || rv.FirstName != "Camille" {
		t.Fatalf("expected sanitized contact, got %q %q", rv.Email, rv.FirstName)
	}
	if rv.Phone != "+33612345678" {
		t.Fatalf("expected E.164 phone, got %q", rv.Phone)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	booked, ok := bus.published[0].(events.RendezvousBooked)
	if !ok || booked.RendezvousID != rv.ID {
		t.Fatalf("unexpected event %#v", bus.published[0])
	}
}

func TestBook_RejectsPastSlot(t *testing.T) {
	svc, repo, bus := newTestService()

	_, err := svc.Book(context.Background(), booking(fixedNow.Add(-time.Hour)))
	domainErr, ok := apperr.As(err)
	if !ok || domainErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.items) != 0 || len(bus.published) != 0 {
		t.Fatal("expected nothing stored or published")
	}
}

func TestBook_SlotConflict(t *testing.T) {
	svc, _, bus := newTestService()
	at := fixedNow.Add(24 * time.Hour)

	if _, err := svc.Book(context.Background(), booking(at)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := svc.Book(context.Background(), booking(at.Add(30*time.Second)))
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for the same minute, got %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatal("expected no event for the rejected booking")
	}
}

func TestUpdateStatus_CancelFreesSlot(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	at := fixedNow.Add(24 * time.Hour)

	first, err := svc.Book(ctx, booking(at))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, first.ID, transport.UpdateStatusRequest{Status: "CANCELLED"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Book(ctx, booking(at)); err != nil {
		t.Fatalf("expected cancelled slot to be bookable again: %v", err)
	}
	_, err = svc.UpdateStatus(ctx, first.ID, transport.UpdateStatusRequest{Status: "CONFIRMED"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict when re-activating a taken slot, got %v", err)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), transport.UpdateStatusRequest{Status: "DONE"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestList_Pagination(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for i := range 5 {
		if _, err := svc.Book(ctx, booking(fixedNow.Add(time.Duration(i+1)*time.Hour))); err != nil {
			t.Fatalf("book %d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, transport.ListRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || len(page.Items) != 2 || page.Page != 2 {
		t.Fatalf("unexpected page %+v", page)
	}

	defaults, err := svc.List(ctx, transport.ListRequest{})
	if err != nil {
		t.Fatalf("list defaults: %v", err)
	}
	if defaults.Page != 1 || defaults.PageSize != defaultPageSize {
		t.Fatalf("unexpected defaults %+v", defaults)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Delete(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitrine_backend/internal/events"
	"vitrine_backend/internal/scheduler"
	"vitrine_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	owner string
}

func (testNotificationConfig) GetAppBaseURL() string { return "https://www.example.com/" }
func (c testNotificationConfig) GetOwnerNotificationEmail() string { return c.owner }

type recordingDispatcher struct {
	payloads []scheduler.SendEmailPayload
	fail     error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, p scheduler.SendEmailPayload) error {
	d.payloads = append(d.payloads, p)
	return d.fail
}

type recordingReminders struct {
	runAts map[string]time.Time
}

func (r *recordingReminders) ScheduleRendezvousReminder(_ context.Context, p scheduler.RendezvousReminderPayload, runAt time.Time) error {
	if r.runAts == nil {
		r.runAts = map[string]time.Time{}
	}
	r.runAts[p.RendezvousID] = runAt
	return nil
}

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestModule(owner string) (*Module, *recordingDispatcher, *recordingReminders) {
	d := &recordingDispatcher{}
	r := &recordingReminders{}
	m := New(d, r, testNotificationConfig{owner: owner}, logger.Discard())
	m.now = func() time.Time { return fixedNow }
	return m, d, r
}

func sampleQuoteRequested() events.QuoteRequested {
	return events.QuoteRequested{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    uuid.MustParse("6f1c2a8e-0000-4000-8000-000000000001"),
		OfferTitle: "Site vitrine",
		FirstName:  "Léa",
		LastName:   "Martin",
		Email:      "lea@example.com",
		Lines: []events.QuoteLine{
			{Title: "Hébergement", Quantity: 1, Included: true, PriceLabel: "0 €"},
		},
		OneTimeTotal:      "1 500 €",
		TotalDurationDays: 14,
	}
}

func TestQuoteRequested_NotifiesOwnerAndCustomer(t *testing.T) {
	m, d, r := newTestModule("owner@example.com")

	if err := m.Handle(context.Background(), sampleQuoteRequested()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(d.payloads) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(d.payloads))
	}
	owner, ack := d.payloads[0], d.payloads[1]
	if owner.Kind != scheduler.KindQuoteNotification || owner.To != "owner@example.com" {
		t.Fatalf("unexpected owner email %+v", owner)
	}
	if owner.Quote.AdminURL != "https://www.example.com/admin/quotes/6f1c2a8e-0000-4000-8000-000000000001" {
		t.Fatalf("unexpected admin url %q", owner.Quote.AdminURL)
	}
	if owner.Quote.CustomerName != "Léa Martin" || len(owner.Quote.Lines) != 1 {
		t.Fatalf("unexpected summary %+v", owner.Quote)
	}
	if ack.Kind != scheduler.KindQuoteAcknowledgement || ack.To != "lea@example.com" {
		t.Fatalf("unexpected acknowledgement %+v", ack)
	}
	if ack.Quote.AdminURL != "" {
		t.Fatal("expected no admin link in the visitor email")
	}
	if len(r.runAts) != 0 {
		t.Fatal("expected no reminder without a rendez-vous")
	}
}

func TestQuoteRequested_WithoutOwnerAddress(t *testing.T) {
	m, d, _ := newTestModule("")

	if err := m.Handle(context.Background(), sampleQuoteRequested()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(d.payloads) != 1 || d.payloads[0].Kind != scheduler.KindQuoteAcknowledgement {
		t.Fatalf("expected only the acknowledgement, got %+v", d.payloads)
	}
}

func TestQuoteRequested_WithRendezvousPlansReminder(t *testing.T) {
	m, d, r := newTestModule("owner@example.com")

	id := uuid.New()
	at := fixedNow.Add(72 * time.Hour)
	e := sampleQuoteRequested()
	e.RendezvousID = &id
	e.RendezvousAt = &at

	if err := m.Handle(context.Background(), e); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if d.payloads[1].Quote.RendezvousAt == "" {
		t.Fatal("expected the rendez-vous in the acknowledgement")
	}
	if got := r.runAts[id.String()]; !got.Equal(at.Add(-24 * time.Hour)) {
		t.Fatalf("expected reminder one day ahead, got %v", got)
	}
}

func TestRendezvousBooked(t *testing.T) {
	m, d, r := newTestModule("owner@example.com")

	soon := events.RendezvousBooked{RendezvousID: uuid.New(), FirstName: "Léa", Email: "lea@example.com", ScheduledAt: fixedNow.Add(3 * time.Hour)}
	later := events.RendezvousBooked{RendezvousID: uuid.New(), FirstName: "Paul", Email: "paul@example.com", ScheduledAt: fixedNow.Add(48 * time.Hour)}

	for _, e := range []events.RendezvousBooked{soon, later} {
		if err := m.Handle(context.Background(), e); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}

	if len(d.payloads) != 2 || d.payloads[0].Kind != scheduler.KindRendezvousConfirmation || d.payloads[0].Rendezvous.CustomerName != "Léa" {
		t.Fatalf("unexpected confirmations %+v", d.payloads)
	}
	if _, planned := r.runAts[soon.RendezvousID.String()]; planned {
		t.Fatal("expected no reminder for a slot less than a day away")
	}
	if _, planned := r.runAts[later.RendezvousID.String()]; !planned {
		t.Fatal("expected a reminder for a slot two days away")
	}
}

func TestDispatchFailureDoesNotFailHandler(t *testing.T) {
	m, d, _ := newTestModule("owner@example.com")
	d.fail = errors.New("redis unavailable")

	if err := m.Handle(context.Background(), sampleQuoteRequested()); err != nil {
		t.Fatalf("expected delivery failures to be swallowed, got %v", err)
	}
	if len(d.payloads) != 2 {
		t.Fatalf("expected both emails attempted, got %d", len(d.payloads))
	}
}

func TestRegisterHandlersSubscribesToBus(t *testing.T) {
	m, d, _ := newTestModule("")
	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), events.RendezvousBooked{RendezvousID: uuid.New(), Email: "lea@example.com", ScheduledAt: fixedNow}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(d.payloads) != 1 {
		t.Fatalf("expected the bus to reach the module, got %d emails", len(d.payloads))
	}
}

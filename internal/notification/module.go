// Package notification turns domain events into emails. Domain modules publish
// events and never depend on email delivery.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vitrine_backend/internal/email"
	"vitrine_backend/internal/events"
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/internal/scheduler"
	"vitrine_backend/platform/config"
	"vitrine_backend/platform/logger"
)

// reminderLead is how long before a rendez-vous the reminder is sent.
const reminderLead = 24 * time.Hour

// Module handles all notification-related event subscriptions.
type Module struct {
	dispatch  Dispatcher
	reminders ReminderScheduler
	cfg       config.NotificationConfig
	log       *logger.Logger
	now       func() time.Time
}

// New creates the notification module. reminders may be nil, in which case
// no reminder is planned.
func New(dispatch Dispatcher, reminders ReminderScheduler, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{dispatch: dispatch, reminders: reminders, cfg: cfg, log: log, now: time.Now}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes is a no-op: the module only reacts to events.
func (m *Module) RegisterRoutes(*apphttp.RouterContext) {}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuoteRequested{}.EventName(), m)
	bus.Subscribe(events.RendezvousBooked{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuoteRequested:
		return m.handleQuoteRequested(ctx, e)
	case events.RendezvousBooked:
		return m.handleRendezvousBooked(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// handleQuoteRequested notifies the site owner and acknowledges the request
// to the visitor. Delivery failures are logged and never fail the submission.
func (m *Module) handleQuoteRequested(ctx context.Context, e events.QuoteRequested) error {
	summary := quoteSummary(e, m.adminURL("/quotes/"+e.QuoteID.String()))

	if owner := m.cfg.GetOwnerNotificationEmail(); owner != "" {
		m.send(ctx, scheduler.SendEmailPayload{Kind: scheduler.KindQuoteNotification, To: owner, Quote: &summary})
	}

	ack := summary
	ack.AdminURL = ""
	m.send(ctx, scheduler.SendEmailPayload{Kind: scheduler.KindQuoteAcknowledgement, To: e.Email, Quote: &ack})

	if e.RendezvousID != nil && e.RendezvousAt != nil {
		m.planReminder(ctx, e.RendezvousID.String(), *e.RendezvousAt)
	}
	return nil
}

func (m *Module) handleRendezvousBooked(ctx context.Context, e events.RendezvousBooked) error {
	m.send(ctx, scheduler.SendEmailPayload{
		Kind: scheduler.KindRendezvousConfirmation,
		To:   e.Email,
		Rendezvous: &email.RendezvousSummary{
			CustomerName: fullName(e.FirstName, e.LastName),
			Topic:        e.Topic,
			ScheduledAt:  email.FormatDateTime(e.ScheduledAt),
		},
	})
	m.planReminder(ctx, e.RendezvousID.String(), e.ScheduledAt)
	return nil
}

func (m *Module) send(ctx context.Context, payload scheduler.SendEmailPayload) {
	if err := m.dispatch.Dispatch(ctx, payload); err != nil {
		m.log.WithContext(ctx).MailError(payload.Kind, payload.To, err)
	}
}

// planReminder schedules the reminder one day ahead. Slots closer than that get none.
func (m *Module) planReminder(ctx context.Context, rendezvousID string, at time.Time) {
	if m.reminders == nil {
		return
	}
	runAt := at.Add(-reminderLead)
	if !runAt.After(m.now()) {
		return
	}
	payload := scheduler.RendezvousReminderPayload{RendezvousID: rendezvousID}
	if err := m.reminders.ScheduleRendezvousReminder(ctx, payload, runAt); err != nil {
		m.log.WithContext(ctx).Error("failed to schedule rendezvous reminder", "rendezvous_id", rendezvousID, "error", err)
	}
}

func (m *Module) adminURL(path string) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/admin%s", base, path)
}

func quoteSummary(e events.QuoteRequested, adminURL string) email.QuoteSummary {
	lines := make([]email.Line, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, email.Line{Title: l.Title, Quantity: l.Quantity, Included: l.Included, PriceLabel: l.PriceLabel})
	}

	summary := email.QuoteSummary{
		QuoteID:      e.QuoteID.String(),
		CustomerName: fullName(e.FirstName, e.LastName),
		Email:        e.Email,
		Phone:        e.Phone,
		Company:      e.Company,
		OfferTitle:   e.OfferTitle,
		Message:      e.Message,
		Lines:        lines,
		OneTimeTotal: e.OneTimeTotal,
		MonthlyTotal: e.MonthlyTotal,
		DurationDays: e.TotalDurationDays,
		AdminURL:     adminURL,
	}
	if e.RendezvousAt != nil {
		summary.RendezvousAt = email.FormatDateTime(*e.RendezvousAt)
	}
	return summary
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

var (
	_ apphttp.Module          = (*Module)(nil)
	_ apphttp.EventSubscriber = (*Module)(nil)
)

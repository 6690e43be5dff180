package notification

import (
	"context"
	"time"

	"vitrine_backend/internal/email"
	"vitrine_backend/internal/scheduler"
)

// Dispatcher hands an email over for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload scheduler.SendEmailPayload) error
}

// ReminderScheduler plans a reminder email ahead of a rendez-vous.
type ReminderScheduler interface {
	ScheduleRendezvousReminder(ctx context.Context, payload scheduler.RendezvousReminderPayload, runAt time.Time) error
}

// QueueDispatcher enqueues emails on the asynq queue so the worker retries failed deliveries.
type QueueDispatcher struct {
	client *scheduler.Client
}

func NewQueueDispatcher(client *scheduler.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, payload scheduler.SendEmailPayload) error {
	return d.client.EnqueueEmail(ctx, payload)
}

// InlineDispatcher sends immediately. Used when Redis is not configured.
type InlineDispatcher struct {
	sender email.Sender
}

func NewInlineDispatcher(sender email.Sender) *InlineDispatcher {
	return &InlineDispatcher{sender: sender}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, payload scheduler.SendEmailPayload) error {
	return scheduler.Deliver(ctx, d.sender, payload)
}

var (
	_ Dispatcher        = (*QueueDispatcher)(nil)
	_ Dispatcher        = (*InlineDispatcher)(nil)
	_ ReminderScheduler = (*scheduler.Client)(nil)
)

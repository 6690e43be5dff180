package scheduler

import (
	"context"
	"fmt"

	"vitrine_backend/internal/email"

	"github.com/hibiken/asynq"
)

// Deliver sends the email described by payload through sender. The worker
// uses it for queued tasks and the notification module for inline delivery.
func Deliver(ctx context.Context, sender email.Sender, payload SendEmailPayload) error {
	switch payload.Kind {
	case KindQuoteNotification, KindQuoteAcknowledgement:
		if payload.Quote == nil {
			return fmt.Errorf("%s payload without quote: %w", payload.Kind, asynq.SkipRetry)
		}
		if payload.Kind == KindQuoteNotification {
			return sender.SendQuoteNotification(ctx, payload.To, *payload.Quote)
		}
		return sender.SendQuoteAcknowledgement(ctx, payload.To, *payload.Quote)
	case KindRendezvousConfirmation:
		if payload.Rendezvous == nil {
			return fmt.Errorf("%s payload without rendezvous: %w", payload.Kind, asynq.SkipRetry)
		}
		return sender.SendRendezvousConfirmation(ctx, payload.To, *payload.Rendezvous)
	default:
		return fmt.Errorf("unknown email kind %q: %w", payload.Kind, asynq.SkipRetry)
	}
}

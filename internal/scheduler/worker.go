package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vitrine_backend/internal/email"
	rvrepo "vitrine_backend/internal/rendezvous/repository"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/config"
	"vitrine_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rendezvousReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (rvrepo.Rendezvous, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   rendezvousReader
	sender email.Sender
	log    *logger.Logger
	now    func() time.Time
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("scheduler task failed", "type", task.Type(), "error", err)
		}),
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   rvrepo.New(pool),
		sender: sender,
		log:    log,
		now:    time.Now,
	}

	mux.HandleFunc(TaskSendEmail, w.handleSendEmail)
	mux.HandleFunc(TaskRendezvousReminder, w.handleRendezvousReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleSendEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSendEmailPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	if err := Deliver(ctx, w.sender, payload); err != nil {
		w.log.MailError(payload.Kind, payload.To, err)
		return err
	}
	w.log.Info("email sent", "kind", payload.Kind)
	return nil
}

// handleRendezvousReminder mails the visitor unless the rendez-vous was
// cancelled, deleted or already took place.
func (w *Worker) handleRendezvousReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRendezvousReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.RendezvousID)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	rv, err := w.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	if rv.Status == rvrepo.StatusCancelled || !rv.ScheduledAt.After(w.now()) {
		return nil
	}

	summary := email.RendezvousSummary{
		CustomerName: strings.TrimSpace(rv.FirstName + " " + rv.LastName),
		Topic:        rv.Topic,
		ScheduledAt:  email.FormatDateTime(rv.ScheduledAt),
	}
	if err := w.sender.SendRendezvousReminder(ctx, rv.Email, summary); err != nil {
		w.log.MailError("rendezvous_reminder", rv.Email, err)
		return err
	}
	return nil
}

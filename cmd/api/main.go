package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitrine_backend/internal/adapters"
	"vitrine_backend/internal/adapters/storage"
	"vitrine_backend/internal/auth"
	"vitrine_backend/internal/content"
	contentservice "vitrine_backend/internal/content/service"
	"vitrine_backend/internal/email"
	"vitrine_backend/internal/events"
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/internal/http/router"
	"vitrine_backend/internal/notification"
	"vitrine_backend/internal/offers"
	"vitrine_backend/internal/quotes"
	"vitrine_backend/internal/rendezvous"
	"vitrine_backend/internal/scheduler"
	"vitrine_backend/platform/cache"
	"vitrine_backend/platform/config"
	"vitrine_backend/platform/db"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const (
	storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
	storageBucketEnsureErrMsg    = "failed to ensure storage bucket exists"
	shutdownTimeout              = 10 * time.Second
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	catalogCache, closeCache, err := cache.NewRedisCache(ctx, cfg)
	if err != nil {
		log.Warn("catalog cache unavailable, serving from database", "error", err)
		catalogCache, closeCache = cache.Noop{}, func() error { return nil }
	}
	defer func() { _ = closeCache() }()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	storageSvc := initStorage(ctx, cfg, log)

	sender := email.NewSender(cfg)
	if !cfg.GetEmailEnabled() {
		log.Warn("SMTP not configured; notification emails disabled")
	}
	dispatcher, reminders, closeScheduler := initDispatch(cfg, sender, log)
	defer closeScheduler()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	offersModule := offers.NewModule(pool, val, catalogCache, log)
	rendezvousModule := rendezvous.NewModule(pool, val, eventBus, log)

	// Quotes price against the live catalog through an adapter so the quotes
	// context never imports the offers repository.
	catalogReader := adapters.NewQuotesCatalogReader(offersModule.Service())
	quotesModule := quotes.NewModule(pool, catalogReader, val, eventBus, log)

	contentModule := content.NewModule(pool, val, storageSvc, contentservice.Buckets{
		PartnerLogos: cfg.GetMinioBucketPartnerLogos(),
		CaseImages:   cfg.GetMinioBucketCaseImages(),
	}, log)

	authModule, err := auth.NewModule(pool, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}
	if err := authModule.Bootstrap(ctx, cfg); err != nil {
		log.Error("failed to bootstrap admin account", "error", err)
		panic("failed to bootstrap admin account: " + err.Error())
	}

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(dispatcher, reminders, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			offersModule,
			quotesModule,
			rendezvousModule,
			contentModule,
			notificationModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}

	// Inline mail runs on the bus goroutines; let them finish before the pool closes.
	eventBus.Wait()
	log.Info("server stopped")
}

func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.StorageService {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; partner logo and case image uploads disabled")
		return storage.Disabled{}
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, storageSvc, "partner-logos", cfg.GetMinioBucketPartnerLogos())
	ensureBucket(ctx, log, storageSvc, "case-images", cfg.GetMinioBucketCaseImages())
	log.Info(
		"storage service initialized",
		"partnerLogosBucket", cfg.GetMinioBucketPartnerLogos(),
		"caseImagesBucket", cfg.GetMinioBucketCaseImages(),
	)
	return storageSvc
}

// initDispatch queues mail through asynq when Redis is configured and falls
// back to sending inline from the event handler otherwise.
func initDispatch(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (notification.Dispatcher, notification.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; emails sent inline and rendez-vous reminders disabled")
		return notification.NewInlineDispatcher(sender), nil, func() {}
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client, sending emails inline", "error", err)
		return notification.NewInlineDispatcher(sender), nil, func() {}
	}

	return notification.NewQueueDispatcher(client), client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

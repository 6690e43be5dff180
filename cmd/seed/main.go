package main

import (
	"context"
	"flag"
	"fmt"

	"vitrine_backend/internal/offers"
	"vitrine_backend/internal/offers/service"
	"vitrine_backend/platform/cache"
	"vitrine_backend/platform/config"
	"vitrine_backend/platform/db"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

// seed upserts the offer catalog by slug. Running it twice leaves the catalog unchanged.
func main() {
	file := flag.String("file", "", "catalog YAML file (defaults to the embedded catalog)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting catalog seed")

	catalog, err := loadCatalog(*file)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		panic(err.Error())
	}

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// Writing through the service keeps validation and drops cached catalog pages.
	catalogCache, closeCache, err := cache.NewRedisCache(ctx, cfg)
	if err != nil {
		log.Warn("catalog cache unavailable, cached pages expire on their own", "error", err)
		catalogCache, closeCache = cache.Noop{}, func() error { return nil }
	}
	defer func() { _ = closeCache() }()

	svc := offers.NewModule(pool, validator.New(), catalogCache, log).Service()

	optionIDs, err := seedOptions(ctx, svc, catalog.Options)
	if err != nil {
		log.Error("failed to seed options", "error", err)
		panic(err.Error())
	}
	if err := seedOffers(ctx, svc, catalog.Offers, optionIDs); err != nil {
		log.Error("failed to seed offers", "error", err)
		panic(err.Error())
	}

	log.Info("catalog seed complete", "options", len(catalog.Options), "offers", len(catalog.Offers))
}

func seedOptions(ctx context.Context, svc *service.Service, options []seedOption) (map[string]uuid.UUID, error) {
	existing, err := svc.ListOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	ids := make(map[string]uuid.UUID, len(existing.Items)+len(options))
	for _, o := range existing.Items {
		ids[o.Slug] = o.ID
	}

	for i, o := range options {
		req := o.request(i)
		if id, ok := ids[o.Slug]; ok {
			if _, err := svc.UpdateOption(ctx, id, req); err != nil {
				return nil, fmt.Errorf("option %s: %w", o.Slug, err)
			}
			continue
		}
		created, err := svc.CreateOption(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", o.Slug, err)
		}
		ids[o.Slug] = created.ID
	}
	return ids, nil
}

func seedOffers(ctx context.Context, svc *service.Service, offerSeeds []seedOffer, optionIDs map[string]uuid.UUID) error {
	existing, err := svc.ListOffers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list offers: %w", err)
	}
	ids := make(map[string]uuid.UUID, len(existing.Items))
	for _, o := range existing.Items {
		ids[o.Slug] = o.ID
	}

	for i, o := range offerSeeds {
		req, err := o.request(i, optionIDs)
		if err != nil {
			return err
		}
		if id, ok := ids[o.Slug]; ok {
			if _, err := svc.UpdateOffer(ctx, id, req); err != nil {
				return fmt.Errorf("offer %s: %w", o.Slug, err)
			}
			continue
		}
		if _, err := svc.CreateOffer(ctx, req); err != nil {
			return fmt.Errorf("offer %s: %w", o.Slug, err)
		}
	}
	return nil
}

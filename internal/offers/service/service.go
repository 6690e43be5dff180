// Package service holds the offer catalog business logic: the offer aggregate
// writer, the option catalog and the read side used by the quote synthesis.
package service

import (
	"context"

	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/platform/cache"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"
)

const (
	cachePrefix     = "catalog:"
	cacheKeyOffers  = cachePrefix + "offers"
	cacheKeyOptions = cachePrefix + "options"
	cacheKeyOffer   = cachePrefix + "offer:"
)

// Service provides business logic for service offers and offer options.
type Service struct {
	repo  repository.Repository
	val   *validator.Validator
	cache cache.Cache
	log   *logger.Logger
}

// New creates the offer catalog service. A nil cache disables caching.
func New(repo repository.Repository, val *validator.Validator, c cache.Cache, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{repo: repo, val: val, cache: c, log: log}
}

// invalidateCatalog drops every cached public catalog response. A cache
// failure is logged; the write has already been committed.
func (s *Service) invalidateCatalog(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("catalog cache invalidation failed", "error", err)
	}
}

// cached serves key from the cache or loads, stores and returns it.
func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var out T
	hit, err := s.cache.Get(ctx, key, &out)
	if err != nil {
		s.log.Warn("catalog cache read failed", "key", key, "error", err)
	}
	if hit {
		return out, nil
	}

	out, err = load()
	if err != nil {
		return out, err
	}
	if err := s.cache.Set(ctx, key, out); err != nil {
		s.log.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return out, nil
}

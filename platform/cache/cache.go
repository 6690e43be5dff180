// Package cache provides the JSON read-through cache used for public catalog responses.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vitrine_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON documents under string keys.
type Cache interface {
	// Get decodes the value stored under key into dst. The bool is false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCache is a Cache backed by go-redis.
type RedisCache struct {
	client    redis.UniversalClient
	ttl       time.Duration
	namespace string
}

// NewRedisCache connects using REDIS_URL. It returns a Noop cache when Redis is not configured.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (Cache, func() error, error) {
	if cfg.GetRedisURL() == "" {
		return Noop{}, func() error { return nil }, nil
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, cfg.GetCatalogCacheTTL()), client.Close, nil
}

// New wraps an existing client.
func New(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, namespace: "vitrine:"}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.namespace+key, raw, c.ttl).Err()
}

func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.namespace+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) DeletePrefix(context.Context, string) error     { return nil }

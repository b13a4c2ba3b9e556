package cache

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/getsentry/sentry-go"
	goCache "github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL applies when Set is called with a zero ttl
	DefaultTTL = 30 * time.Minute

	cleanupInterval = time.Hour
)

// InMemoryCache is a process local Cache backed by go-cache
type InMemoryCache struct {
	store   *goCache.Cache
	enabled bool
}

var _ Cache = (*InMemoryCache)(nil)

func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	return &InMemoryCache{
		store:   goCache.New(DefaultTTL, cleanupInterval),
		enabled: cfg.Cache.Enabled,
	}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}

	span := startSpan(ctx, "get", key)
	value, found := c.store.Get(key)
	if span != nil {
		span.SetData("hit", found)
		span.Finish()
	}
	return value, found
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl <= 0 {
		ttl = goCache.DefaultExpiration
	}

	span := startSpan(ctx, "set", key)
	c.store.Set(key, value, ttl)
	if span != nil {
		span.Finish()
	}
}

// startSpan returns nil unless the request carries a Sentry hub
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}
	span := sentry.StartSpan(ctx, "cache.inmemory."+operation)
	span.Op = "cache." + operation
	span.Description = key
	return span
}

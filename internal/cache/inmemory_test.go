package cache

import (
	"context"
	"testing"
	"time"

	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "tenant:v1:tenant_1", TenantKey("tenant_1"))
	assert.Equal(t, "tenant_subdomain:v1:acme", TenantSubdomainKey("ACME"))
	assert.Equal(t, "branch:v1:tenant_1:br_1", BranchKey("tenant_1", "br_1"))
	assert.NotEqual(t, BranchKey("tenant_1", "br_1"), BranchKey("tenant_2", "br_1"))
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.GetDefaultConfig())

	key := BranchKey("tenant_1", "br_1")
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, "value", time.Minute)
	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	c.Set(ctx, TenantKey("tenant_1"), "tenant", 0)
	got, ok = c.Get(ctx, TenantKey("tenant_1"))
	assert.True(t, ok)
	assert.Equal(t, "tenant", got)
}

func TestInMemoryCacheWithSentryHub(t *testing.T) {
	hub := sentry.NewHub(nil, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)
	c := NewInMemoryCache(config.GetDefaultConfig())

	c.Set(ctx, TenantKey("tenant_1"), "tenant", time.Minute)
	got, ok := c.Get(ctx, TenantKey("tenant_1"))
	assert.True(t, ok)
	assert.Equal(t, "tenant", got)
}

func TestInMemoryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	c := NewInMemoryCache(cfg)

	c.Set(ctx, "k", "v", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

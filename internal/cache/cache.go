package cache

import (
	"context"
	"strings"
	"time"
)

// Cache holds read-mostly lookups on the request path: tenants resolved by
// the middleware and branches referenced by branch-bearing document numbers.
// Sequence counters never go through it.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores value under key. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

const keyVersion = "v1"

// TenantKey addresses a tenant looked up by id
func TenantKey(tenantID string) string {
	return joinKey("tenant", tenantID)
}

// TenantSubdomainKey addresses a tenant looked up by its subdomain label
func TenantSubdomainKey(subdomain string) string {
	return joinKey("tenant_subdomain", strings.ToLower(subdomain))
}

// BranchKey addresses a branch within a tenant
func BranchKey(tenantID, branchID string) string {
	return joinKey("branch", tenantID, branchID)
}

func joinKey(kind string, parts ...string) string {
	return kind + ":" + keyVersion + ":" + strings.Join(parts, ":")
}

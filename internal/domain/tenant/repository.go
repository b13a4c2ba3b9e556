package tenant

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	// List returns active tenants
	List(ctx context.Context) ([]*Tenant, error)
}

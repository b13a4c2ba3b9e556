package testutil

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

var _ tenant.Repository = (*InMemoryTenantStore)(nil)

type InMemoryTenantStore struct {
	*InMemoryStore[*tenant.Tenant]
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		InMemoryStore: NewInMemoryStore[*tenant.Tenant](),
	}
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	if t == nil {
		return ierr.NewError("tenant cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if t.Subdomain != nil {
		if _, taken := s.Find(ctx, func(_ context.Context, other *tenant.Tenant) bool {
			return lo.FromPtr(other.Subdomain) == *t.Subdomain
		}); taken {
			return ierr.NewError("tenant subdomain already exists").
				WithHint("A tenant with this subdomain already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	return s.InMemoryStore.Create(ctx, t.ID, t)
}

func (s *InMemoryTenantStore) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, tenant.NewTenantNotFoundError(id)
	}
	return t, nil
}

func (s *InMemoryTenantStore) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	t, ok := s.Find(ctx, func(_ context.Context, t *tenant.Tenant) bool {
		return lo.FromPtr(t.Subdomain) == subdomain
	})
	if !ok {
		return nil, tenant.NewTenantNotFoundError(subdomain)
	}
	return t, nil
}

func (s *InMemoryTenantStore) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.InMemoryStore.List(ctx, func(_ context.Context, t *tenant.Tenant) bool {
		return t.Status == types.StatusActive
	}, func(a, b *tenant.Tenant) bool {
		return a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
	}), nil
}


package service

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/cache"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/sourcegraph/conc/pool"
)

type TenantService interface {
	// CreateTenant inserts the tenant and provisions its counters in one transaction
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*dto.TenantResponse, error)
	GetTenantByID(ctx context.Context, id string) (*tenant.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)
	ProvisionTenant(ctx context.Context, tenantID string) ([]*sequence.Counter, error)
	// ProvisionAllTenants provisions every active tenant with at most concurrency workers
	ProvisionAllTenants(ctx context.Context, concurrency int) (*ProvisionReport, error)
}

// ProvisionReport summarises a bulk provisioning run
type ProvisionReport struct {
	Tenants int
	Failed  []string
}

type tenantService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewTenantService(params ServiceParams, allocator SequenceAllocator) TenantService {
	return &tenantService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	newTenant := req.ToTenant()
	var counters []*sequence.Counter

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.TenantRepo.Create(ctx, newTenant); err != nil {
			return err
		}

		var err error
		counters, err = s.allocator.ProvisionTenantSequences(ctx, newTenant.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created tenant",
		"tenant_id", newTenant.ID,
		"name", newTenant.Name,
		"sequences", len(counters),
	)

	return dto.NewTenantResponse(newTenant, counters), nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	key := cache.TenantKey(id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if t, ok := cached.(*tenant.Tenant); ok {
			return t, nil
		}
	}

	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, t, s.tenantCacheTTL())
	return t, nil
}

func (s *tenantService) GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	key := cache.TenantSubdomainKey(subdomain)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if t, ok := cached.(*tenant.Tenant); ok {
			return t, nil
		}
	}

	t, err := s.TenantRepo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, t, s.tenantCacheTTL())
	return t, nil
}

func (s *tenantService) tenantCacheTTL() time.Duration {
	if s.Config.Tenancy.CacheTTL > 0 {
		return s.Config.Tenancy.CacheTTL
	}
	return cache.DefaultTTL
}

func (s *tenantService) ProvisionTenant(ctx context.Context, tenantID string) ([]*sequence.Counter, error) {
	t, err := s.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, tenant.NewTenantInactiveError(tenantID)
	}

	return s.allocator.ProvisionTenantSequences(ctx, t.ID)
}

func (s *tenantService) ProvisionAllTenants(ctx context.Context, concurrency int) (*ProvisionReport, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	tenants, err := s.TenantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProvisionReport{Tenants: len(tenants)}
	failed := make(chan string, len(tenants))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(concurrency)
	for _, t := range tenants {
		t := t
		p.Go(func(ctx context.Context) error {
			if _, err := s.allocator.ProvisionTenantSequences(ctx, t.ID); err != nil {
				s.Logger.Errorw("failed to provision tenant sequences",
					"tenant_id", t.ID,
					"error", err,
				)
				failed <- t.ID
				return err
			}
			return nil
		})
	}

	err = p.Wait()
	close(failed)
	for id := range failed {
		report.Failed = append(report.Failed, id)
	}

	if err != nil {
		return report, ierr.WithError(err).
			WithHintf("%d of %d tenants could not be provisioned", len(report.Failed), report.Tenants).
			Mark(ierr.ErrSystem)
	}

	s.Logger.Infow("provisioned all tenants", "tenants", report.Tenants)
	return report, nil
}

// tenantContext scopes ctx to tenantID for tenant aware repositories
func tenantContext(ctx context.Context, tenantID string) context.Context {
	if types.GetTenantID(ctx) == tenantID {
		return ctx
	}
	return types.SetTenantID(ctx, tenantID)
}

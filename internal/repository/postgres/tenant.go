package postgres

import (
	"context"

	domainTenant "github.com/flexcargo/flexcargo/internal/domain/tenant"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

const tenantColumns = `id, name, subdomain, status, created_at, updated_at`

type tenantRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(client postgres.IClient, logger *logger.Logger) domainTenant.Repository {
	return &tenantRepository{
		client: client,
		logger: logger,
	}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *domainTenant.Tenant) error {
	r.logger.Debugw("creating tenant", "tenant_id", tenant.ID, "name", tenant.Name)

	span := StartRepositorySpan(ctx, "tenant", "create", map[string]interface{}{
		"tenant_id": tenant.ID,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO tenants (`+tenantColumns+`)
	VALUES (?, ?, ?, ?, ?, ?)`),
		tenant.ID,
		tenant.Name,
		tenant.Subdomain,
		tenant.Status,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A tenant with this id or subdomain already exists").
				WithReportableDetails(map[string]interface{}{
					"tenant_id": tenant.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create tenant").
			WithReportableDetails(map[string]interface{}{
				"tenant_id": tenant.ID,
				"name":      tenant.Name,
			}).
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domainTenant.Tenant, error) {
	return r.getBy(ctx, "id", id)
}

func (r *tenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domainTenant.Tenant, error) {
	return r.getBy(ctx, "subdomain", subdomain)
}

func (r *tenantRepository) getBy(ctx context.Context, column, value string) (*domainTenant.Tenant, error) {
	span := StartRepositorySpan(ctx, "tenant", "get_by_"+column, map[string]interface{}{
		column: value,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var tenant domainTenant.Tenant
	err := q.GetContext(ctx, &tenant,
		q.Rebind(`SELECT `+tenantColumns+` FROM tenants WHERE `+column+` = ?`), value)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, domainTenant.NewTenantNotFoundError(value)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tenant").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*domainTenant.Tenant, error) {
	span := StartRepositorySpan(ctx, "tenant", "list", nil)
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var tenants []*domainTenant.Tenant
	err := q.SelectContext(ctx, &tenants,
		q.Rebind(`SELECT `+tenantColumns+` FROM tenants WHERE status = ? ORDER BY created_at`),
		types.StatusActive)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list tenants").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return tenants, nil
}

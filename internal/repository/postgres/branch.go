package postgres

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/branch"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

const branchColumns = `id, tenant_id, code, name, city, status, created_at, updated_at, created_by, updated_by`

type branchRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewBranchRepository(client postgres.IClient, logger *logger.Logger) branch.Repository {
	return &branchRepository{
		client: client,
		logger: logger,
	}
}

func (r *branchRepository) Create(ctx context.Context, b *branch.Branch) error {
	r.logger.Debugw("creating branch", "branch_id", b.ID, "code", b.Code, "tenant_id", b.TenantID)

	span := StartRepositorySpan(ctx, "branch", "create", map[string]interface{}{
		"branch_id": b.ID,
		"code":      b.Code,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO branches (`+branchColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		b.ID,
		b.TenantID,
		b.Code,
		b.Name,
		b.City,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
		b.CreatedBy,
		b.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Branch with code %s already exists", b.Code).
				WithReportableDetails(map[string]interface{}{
					"code": b.Code,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create branch").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *branchRepository) Get(ctx context.Context, id string) (*branch.Branch, error) {
	return r.getOne(ctx, "get", `SELECT `+branchColumns+` FROM branches WHERE id = ?`, id)
}

func (r *branchRepository) GetByCode(ctx context.Context, code string) (*branch.Branch, error) {
	return r.getOne(ctx, "get_by_code", `SELECT `+branchColumns+` FROM branches WHERE code = ?`, code)
}

func (r *branchRepository) getOne(ctx context.Context, operation, query, value string) (*branch.Branch, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "branch", operation, map[string]interface{}{
		"tenant_id": tenantID,
		"value":     value,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	scoped, args := postgres.TenantScoped(q, query, tenantID, value)

	var b branch.Branch
	if err := q.GetContext(ctx, &b, scoped, args...); err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Branch %s was not found", value).
				WithReportableDetails(map[string]interface{}{
					"branch": value,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get branch").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &b, nil
}

func (r *branchRepository) List(ctx context.Context) ([]*branch.Branch, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "branch", "list", map[string]interface{}{
		"tenant_id": tenantID,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	scoped, args := postgres.TenantScoped(q, `SELECT `+branchColumns+` FROM branches WHERE status = ?`, tenantID, types.StatusActive)

	var branches []*branch.Branch
	if err := q.SelectContext(ctx, &branches, scoped, args...); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list branches").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return branches, nil
}

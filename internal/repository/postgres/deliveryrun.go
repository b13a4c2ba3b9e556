package postgres

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/deliveryrun"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

const deliveryRunColumns = `id, tenant_id, run_number, branch_id, vehicle_number, delivery_agent,
	run_status, run_date, status, created_at, updated_at, created_by, updated_by`

type deliveryRunRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewDeliveryRunRepository(client postgres.IClient, logger *logger.Logger) deliveryrun.Repository {
	return &deliveryRunRepository{
		client: client,
		logger: logger,
	}
}

func (r *deliveryRunRepository) Create(ctx context.Context, run *deliveryrun.DeliveryRun) error {
	r.logger.Debugw("creating delivery run",
		"delivery_run_id", run.ID,
		"run_number", run.RunNumber,
		"consignments", len(run.ConsignmentIDs),
	)

	span := StartRepositorySpan(ctx, "delivery_run", "create", map[string]interface{}{
		"delivery_run_id": run.ID,
		"run_number":      run.RunNumber,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO delivery_runs (`+deliveryRunColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID,
		run.TenantID,
		run.RunNumber,
		run.BranchID,
		run.VehicleNumber,
		run.DeliveryAgent,
		run.RunStatus,
		run.RunDate,
		run.Status,
		run.CreatedAt,
		run.UpdatedAt,
		run.CreatedBy,
		run.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Delivery run number %s is already in use", run.RunNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create delivery run").
			Mark(ierr.ErrDatabase)
	}

	linkQuery := q.Rebind(`INSERT INTO delivery_run_consignments (id, tenant_id, delivery_run_id, consignment_id, created_at)
	VALUES (?, ?, ?, ?, ?)`)
	for _, consignmentID := range run.ConsignmentIDs {
		_, err := q.ExecContext(ctx, linkQuery,
			types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DELIVERY_CONSIGNMENT),
			run.TenantID,
			run.ID,
			consignmentID,
			run.CreatedAt,
		)
		if err != nil {
			SetSpanError(span, err)
			return ierr.WithError(err).
				WithHint("Failed to add consignment to delivery run").
				WithReportableDetails(map[string]interface{}{
					"consignment_id": consignmentID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	SetSpanSuccess(span)
	return nil
}

func (r *deliveryRunRepository) Get(ctx context.Context, id string) (*deliveryrun.DeliveryRun, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "delivery_run", "get", map[string]interface{}{
		"tenant_id":       tenantID,
		"delivery_run_id": id,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var run deliveryrun.DeliveryRun
	err := q.GetContext(ctx, &run,
		q.Rebind(`SELECT `+deliveryRunColumns+` FROM delivery_runs WHERE tenant_id = ? AND id = ?`), tenantID, id)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Delivery run %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get delivery run").
			Mark(ierr.ErrDatabase)
	}

	err = q.SelectContext(ctx, &run.ConsignmentIDs,
		q.Rebind(`SELECT consignment_id FROM delivery_run_consignments WHERE tenant_id = ? AND delivery_run_id = ? ORDER BY id`),
		tenantID, id)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get delivery run consignments").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &run, nil
}

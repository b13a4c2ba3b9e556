package postgres

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/ogpl"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

const ogplColumns = `id, tenant_id, ogpl_number, from_branch_id, to_branch_id, vehicle_number,
	driver_name, driver_phone, ogpl_status, dispatched_at, status, created_at, updated_at,
	created_by, updated_by`

type ogplRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewOGPLRepository(client postgres.IClient, logger *logger.Logger) ogpl.Repository {
	return &ogplRepository{
		client: client,
		logger: logger,
	}
}

func (r *ogplRepository) Create(ctx context.Context, o *ogpl.OGPL) error {
	r.logger.Debugw("creating ogpl",
		"ogpl_id", o.ID,
		"ogpl_number", o.OGPLNumber,
		"consignments", len(o.ConsignmentIDs),
	)

	span := StartRepositorySpan(ctx, "ogpl", "create", map[string]interface{}{
		"ogpl_id":     o.ID,
		"ogpl_number": o.OGPLNumber,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO ogpls (`+ogplColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		o.ID,
		o.TenantID,
		o.OGPLNumber,
		o.FromBranchID,
		o.ToBranchID,
		o.VehicleNumber,
		o.DriverName,
		o.DriverPhone,
		o.OGPLStatus,
		o.DispatchedAt,
		o.Status,
		o.CreatedAt,
		o.UpdatedAt,
		o.CreatedBy,
		o.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("OGPL number %s is already in use", o.OGPLNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create OGPL").
			Mark(ierr.ErrDatabase)
	}

	linkQuery := q.Rebind(`INSERT INTO ogpl_consignments (id, tenant_id, ogpl_id, consignment_id, created_at)
	VALUES (?, ?, ?, ?, ?)`)
	for _, consignmentID := range o.ConsignmentIDs {
		_, err := q.ExecContext(ctx, linkQuery,
			types.GenerateUUIDWithPrefix(types.UUID_PREFIX_OGPL_CONSIGNMENT),
			o.TenantID,
			o.ID,
			consignmentID,
			o.CreatedAt,
		)
		if err != nil {
			SetSpanError(span, err)
			return ierr.WithError(err).
				WithHint("Failed to add consignment to OGPL").
				WithReportableDetails(map[string]interface{}{
					"consignment_id": consignmentID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	SetSpanSuccess(span)
	return nil
}

func (r *ogplRepository) Get(ctx context.Context, id string) (*ogpl.OGPL, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "ogpl", "get", map[string]interface{}{
		"tenant_id": tenantID,
		"ogpl_id":   id,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var o ogpl.OGPL
	err := q.GetContext(ctx, &o,
		q.Rebind(`SELECT `+ogplColumns+` FROM ogpls WHERE tenant_id = ? AND id = ?`), tenantID, id)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("OGPL %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get OGPL").
			Mark(ierr.ErrDatabase)
	}

	err = q.SelectContext(ctx, &o.ConsignmentIDs,
		q.Rebind(`SELECT consignment_id FROM ogpl_consignments WHERE tenant_id = ? AND ogpl_id = ? ORDER BY id`),
		tenantID, id)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get OGPL consignments").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &o, nil
}

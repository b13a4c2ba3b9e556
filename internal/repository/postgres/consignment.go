package postgres

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

const consignmentColumns = `id, tenant_id, cn_number, origin_branch_id, destination_branch_id,
	consignor_name, consignee_name, consignee_phone, packages, weight_kg, freight_amount,
	payment_mode, consignment_status, invoice_id, booked_at,
	status, created_at, updated_at, created_by, updated_by`

const trackingColumns = `id, tenant_id, consignment_id, consignment_status, branch_id,
	reference, remarks, created_at, created_by`

type consignmentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewConsignmentRepository(client postgres.IClient, logger *logger.Logger) consignment.Repository {
	return &consignmentRepository{
		client: client,
		logger: logger,
	}
}

func (r *consignmentRepository) Create(ctx context.Context, c *consignment.Consignment) error {
	r.logger.Debugw("creating consignment",
		"consignment_id", c.ID,
		"cn_number", c.CNNumber,
		"tenant_id", c.TenantID,
	)

	span := StartRepositorySpan(ctx, "consignment", "create", map[string]interface{}{
		"consignment_id": c.ID,
		"cn_number":      c.CNNumber,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO consignments (`+consignmentColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID,
		c.TenantID,
		c.CNNumber,
		c.OriginBranchID,
		c.DestinationBranchID,
		c.ConsignorName,
		c.ConsigneeName,
		c.ConsigneePhone,
		c.Packages,
		c.WeightKg,
		c.FreightAmount,
		c.PaymentMode,
		c.ConsignmentStatus,
		c.InvoiceID,
		c.BookedAt,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
		c.CreatedBy,
		c.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Consignment number %s is already in use", c.CNNumber).
				WithReportableDetails(map[string]interface{}{
					"cn_number": c.CNNumber,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create consignment").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *consignmentRepository) Get(ctx context.Context, id string) (*consignment.Consignment, error) {
	return r.getOne(ctx, "get", "id", id)
}

func (r *consignmentRepository) GetByCNNumber(ctx context.Context, cnNumber string) (*consignment.Consignment, error) {
	return r.getOne(ctx, "get_by_cn_number", "cn_number", cnNumber)
}

func (r *consignmentRepository) getOne(ctx context.Context, operation, column, value string) (*consignment.Consignment, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "consignment", operation, map[string]interface{}{
		"tenant_id": tenantID,
		column:      value,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var c consignment.Consignment
	err := q.GetContext(ctx, &c,
		q.Rebind(`SELECT `+consignmentColumns+` FROM consignments WHERE tenant_id = ? AND `+column+` = ?`),
		tenantID, value)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Consignment %s was not found", value).
				WithReportableDetails(map[string]interface{}{
					column: value,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get consignment").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &c, nil
}

func (r *consignmentRepository) ListByIDs(ctx context.Context, ids []string) ([]*consignment.Consignment, error) {
	if len(ids) == 0 {
		return []*consignment.Consignment{}, nil
	}

	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "consignment", "list_by_ids", map[string]interface{}{
		"tenant_id": tenantID,
		"count":     len(ids),
	})
	defer FinishSpan(span)

	query, args, err := sqlx.In(`SELECT `+consignmentColumns+` FROM consignments WHERE tenant_id = ? AND id IN (?) ORDER BY cn_number`, tenantID, ids)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list consignments").
			Mark(ierr.ErrSystem)
	}

	q := r.client.Querier(ctx)
	var consignments []*consignment.Consignment
	if err := q.SelectContext(ctx, &consignments, q.Rebind(query), args...); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list consignments").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return consignments, nil
}

func (r *consignmentRepository) TransitionStatus(ctx context.Context, ids []string, from []types.ConsignmentStatus, to types.ConsignmentStatus) error {
	return r.updateMany(ctx, "transition_status", `consignment_status = ?`, to,
		` AND consignment_status IN (?)`, []interface{}{from}, ids)
}

func (r *consignmentRepository) SetInvoice(ctx context.Context, ids []string, invoiceID string) error {
	return r.updateMany(ctx, "set_invoice", `invoice_id = ?`, invoiceID,
		` AND invoice_id IS NULL AND consignment_status <> ?`,
		[]interface{}{types.ConsignmentStatusCancelled}, ids)
}

// updateMany applies assignment to ids that also satisfy guard. Every id must
// match, otherwise another request changed or removed one of them.
func (r *consignmentRepository) updateMany(ctx context.Context, operation, assignment string, value interface{}, guard string, guardArgs []interface{}, ids []string) error {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil
	}

	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "consignment", operation, map[string]interface{}{
		"tenant_id": tenantID,
		"count":     len(ids),
	})
	defer FinishSpan(span)

	args := append([]interface{}{value, time.Now().UTC(), types.GetUserID(ctx), tenantID, ids}, guardArgs...)
	query, args, err := sqlx.In(`UPDATE consignments SET `+assignment+`, updated_at = ?, updated_by = ?
	WHERE tenant_id = ? AND id IN (?)`+guard, args...)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to update consignments").
			Mark(ierr.ErrSystem)
	}

	q := r.client.Querier(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to update consignments").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to update consignments").
			Mark(ierr.ErrDatabase)
	}
	if affected != int64(len(ids)) {
		SetSpanError(span, ierr.ErrInvalidOperation)
		return consignment.NewStaleUpdateError(len(ids), int(affected))
	}

	SetSpanSuccess(span)
	return nil
}

func (r *consignmentRepository) AddTracking(ctx context.Context, events ...*consignment.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}

	span := StartRepositorySpan(ctx, "consignment", "add_tracking", map[string]interface{}{
		"count": len(events),
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	query := q.Rebind(`INSERT INTO consignment_tracking (` + trackingColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for _, e := range events {
		_, err := q.ExecContext(ctx, query,
			e.ID,
			e.TenantID,
			e.ConsignmentID,
			e.ConsignmentStatus,
			e.BranchID,
			e.Reference,
			e.Remarks,
			e.CreatedAt,
			e.CreatedBy,
		)
		if err != nil {
			SetSpanError(span, err)
			return ierr.WithError(err).
				WithHint("Failed to record consignment tracking").
				WithReportableDetails(map[string]interface{}{
					"consignment_id": e.ConsignmentID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	SetSpanSuccess(span)
	return nil
}

func (r *consignmentRepository) ListTracking(ctx context.Context, consignmentID string) ([]*consignment.TrackingEvent, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "consignment", "list_tracking", map[string]interface{}{
		"tenant_id":      tenantID,
		"consignment_id": consignmentID,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var events []*consignment.TrackingEvent
	err := q.SelectContext(ctx, &events,
		q.Rebind(`SELECT `+trackingColumns+` FROM consignment_tracking
		WHERE tenant_id = ? AND consignment_id = ? ORDER BY created_at, id`),
		tenantID, consignmentID)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list consignment tracking").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return events, nil
}

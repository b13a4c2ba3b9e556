package postgres

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/receipt"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

const receiptColumns = `id, tenant_id, receipt_number, invoice_id, amount, receipt_mode, reference,
	received_at, status, created_at, updated_at, created_by, updated_by`

type receiptRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewReceiptRepository(client postgres.IClient, logger *logger.Logger) receipt.Repository {
	return &receiptRepository{
		client: client,
		logger: logger,
	}
}

func (r *receiptRepository) Create(ctx context.Context, rcp *receipt.Receipt) error {
	r.logger.Debugw("creating receipt",
		"receipt_id", rcp.ID,
		"receipt_number", rcp.ReceiptNumber,
		"invoice_id", rcp.InvoiceID,
	)

	span := StartRepositorySpan(ctx, "receipt", "create", map[string]interface{}{
		"receipt_id":     rcp.ID,
		"receipt_number": rcp.ReceiptNumber,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO receipts (`+receiptColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rcp.ID,
		rcp.TenantID,
		rcp.ReceiptNumber,
		rcp.InvoiceID,
		rcp.Amount,
		rcp.ReceiptMode,
		rcp.Reference,
		rcp.ReceivedAt,
		rcp.Status,
		rcp.CreatedAt,
		rcp.UpdatedAt,
		rcp.CreatedBy,
		rcp.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Receipt number %s is already in use", rcp.ReceiptNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create receipt").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *receiptRepository) Get(ctx context.Context, id string) (*receipt.Receipt, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "receipt", "get", map[string]interface{}{
		"tenant_id":  tenantID,
		"receipt_id": id,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var rcp receipt.Receipt
	err := q.GetContext(ctx, &rcp,
		q.Rebind(`SELECT `+receiptColumns+` FROM receipts WHERE tenant_id = ? AND id = ?`), tenantID, id)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Receipt %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get receipt").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &rcp, nil
}

func (r *receiptRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*receipt.Receipt, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "receipt", "list_by_invoice", map[string]interface{}{
		"tenant_id":  tenantID,
		"invoice_id": invoiceID,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var receipts []*receipt.Receipt
	err := q.SelectContext(ctx, &receipts,
		q.Rebind(`SELECT `+receiptColumns+` FROM receipts WHERE tenant_id = ? AND invoice_id = ? ORDER BY received_at, id`),
		tenantID, invoiceID)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list receipts").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return receipts, nil
}

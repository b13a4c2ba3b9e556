package postgres

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `id, tenant_id, invoice_number, branch_id, customer_name, total_amount,
	amount_paid, invoice_status, issued_at, status, created_at, updated_at, created_by, updated_by`

const invoiceConsignmentColumns = `id, tenant_id, invoice_id, consignment_id, amount, created_at`

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		client: client,
		logger: logger,
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"consignments", len(inv.Consignments),
	)

	span := StartRepositorySpan(ctx, "invoice", "create", map[string]interface{}{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	_, err := q.ExecContext(ctx, q.Rebind(`
	INSERT INTO invoices (`+invoiceColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		inv.ID,
		inv.TenantID,
		inv.InvoiceNumber,
		inv.BranchID,
		inv.CustomerName,
		inv.TotalAmount,
		inv.AmountPaid,
		inv.InvoiceStatus,
		inv.IssuedAt,
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
		inv.CreatedBy,
		inv.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Invoice number %s is already in use", inv.InvoiceNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}

	linkQuery := q.Rebind(`INSERT INTO invoice_consignments (` + invoiceConsignmentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?)`)
	for _, link := range inv.Consignments {
		_, err := q.ExecContext(ctx, linkQuery,
			link.ID,
			link.TenantID,
			link.InvoiceID,
			link.ConsignmentID,
			link.Amount,
			link.CreatedAt,
		)
		if err != nil {
			SetSpanError(span, err)
			if isUniqueViolation(err) {
				return ierr.WithError(err).
					WithHint("Consignment is already invoiced").
					WithReportableDetails(map[string]interface{}{
						"consignment_id": link.ConsignmentID,
					}).
					Mark(ierr.ErrAlreadyExists)
			}
			return ierr.WithError(err).
				WithHint("Failed to link consignment to invoice").
				Mark(ierr.ErrDatabase)
		}
	}

	SetSpanSuccess(span)
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.getOne(ctx, "get", "id", id)
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	return r.getOne(ctx, "get_by_number", "invoice_number", invoiceNumber)
}

func (r *invoiceRepository) getOne(ctx context.Context, operation, column, value string) (*invoice.Invoice, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "invoice", operation, map[string]interface{}{
		"tenant_id": tenantID,
		column:      value,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var inv invoice.Invoice
	err := q.GetContext(ctx, &inv,
		q.Rebind(`SELECT `+invoiceColumns+` FROM invoices WHERE tenant_id = ? AND `+column+` = ?`),
		tenantID, value)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Invoice %s was not found", value).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	var links []*invoice.InvoiceConsignment
	err = q.SelectContext(ctx, &links,
		q.Rebind(`SELECT `+invoiceConsignmentColumns+` FROM invoice_consignments
		WHERE tenant_id = ? AND invoice_id = ? ORDER BY created_at, id`),
		tenantID, inv.ID)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice consignments").
			Mark(ierr.ErrDatabase)
	}
	inv.Consignments = links

	SetSpanSuccess(span)
	return &inv, nil
}

func (r *invoiceRepository) ApplyPayment(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, types.InvoiceStatus, error) {
	tenantID := types.GetTenantID(ctx)
	span := StartRepositorySpan(ctx, "invoice", "apply_payment", map[string]interface{}{
		"tenant_id":  tenantID,
		"invoice_id": id,
		"amount":     amount.String(),
	})
	defer FinishSpan(span)

	// one statement checks the amount due and adds to it
	q := r.client.Querier(ctx)
	var result struct {
		AmountPaid    decimal.Decimal     `db:"amount_paid"`
		InvoiceStatus types.InvoiceStatus `db:"invoice_status"`
	}
	err := q.QueryRowxContext(ctx, q.Rebind(`
	UPDATE invoices SET
		amount_paid = amount_paid + CAST(? AS NUMERIC),
		invoice_status = CASE WHEN amount_paid + CAST(? AS NUMERIC) >= total_amount THEN ? ELSE ? END,
		updated_at = ?,
		updated_by = ?
	WHERE tenant_id = ? AND id = ? AND total_amount - amount_paid >= CAST(? AS NUMERIC)
	RETURNING amount_paid, invoice_status`),
		amount,
		amount,
		types.InvoiceStatusPaid,
		types.InvoiceStatusPartiallyPaid,
		time.Now().UTC(),
		types.GetUserID(ctx),
		tenantID,
		id,
		amount,
	).StructScan(&result)
	if err != nil {
		SetSpanError(span, err)
		if !isNoRows(err) {
			return decimal.Zero, "", ierr.WithError(err).
				WithHint("Failed to apply invoice payment").
				Mark(ierr.ErrDatabase)
		}

		// no row matched: either the invoice is missing or the payment is too large
		inv, getErr := r.Get(ctx, id)
		if getErr != nil {
			return decimal.Zero, "", getErr
		}
		return decimal.Zero, "", invoice.NewOverpaymentError(inv, amount)
	}

	SetSpanSuccess(span)
	return result.AmountPaid, result.InvoiceStatus, nil
}

package invoice

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice bills a customer for a set of consignments
type Invoice struct {
	ID            string              `db:"id" json:"id"`
	InvoiceNumber string              `db:"invoice_number" json:"invoice_number"`
	BranchID      string              `db:"branch_id" json:"branch_id"`
	CustomerName  string              `db:"customer_name" json:"customer_name"`
	TotalAmount   decimal.Decimal     `db:"total_amount" json:"total_amount"`
	AmountPaid    decimal.Decimal     `db:"amount_paid" json:"amount_paid"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	IssuedAt      time.Time           `db:"issued_at" json:"issued_at"`
	types.BaseModel

	Consignments []*InvoiceConsignment `db:"-" json:"consignments,omitempty"`
}

// AmountDue is what remains to be collected
func (i *Invoice) AmountDue() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// StatusFor derives the payment status after amountPaid has been collected
func (i *Invoice) StatusFor(amountPaid decimal.Decimal) types.InvoiceStatus {
	switch {
	case amountPaid.GreaterThanOrEqual(i.TotalAmount):
		return types.InvoiceStatusPaid
	case amountPaid.IsPositive():
		return types.InvoiceStatusPartiallyPaid
	default:
		return types.InvoiceStatusOpen
	}
}

// InvoiceConsignment links a billed consignment to its invoice
type InvoiceConsignment struct {
	ID            string          `db:"id" json:"id"`
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	InvoiceID     string          `db:"invoice_id" json:"invoice_id"`
	ConsignmentID string          `db:"consignment_id" json:"consignment_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

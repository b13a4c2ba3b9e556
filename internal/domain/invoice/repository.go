package invoice

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create inserts the invoice together with its consignment links
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	// ApplyPayment adds amount to what has been collected and returns the new
	// total and status. The check against the amount due and the write are one
	// statement; a payment larger than what is due fails with ErrInvalidOperation.
	ApplyPayment(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, types.InvoiceStatus, error)
}

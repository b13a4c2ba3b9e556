package invoice

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/shopspring/decimal"
)

// NewOverpaymentError reports a payment larger than what is still due
func NewOverpaymentError(inv *Invoice, amount decimal.Decimal) error {
	return ierr.NewError("receipt exceeds amount due").
		WithHintf("Receipt amount cannot exceed the amount due of %s", inv.AmountDue().StringFixed(2)).
		WithReportableDetails(map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"amount":         amount.String(),
			"amount_due":     inv.AmountDue().String(),
		}).
		Mark(ierr.ErrInvalidOperation)
}

package receipt

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/shopspring/decimal"
)

// Receipt records money collected against an invoice
type Receipt struct {
	ID            string            `db:"id" json:"id"`
	ReceiptNumber string            `db:"receipt_number" json:"receipt_number"`
	InvoiceID     string            `db:"invoice_id" json:"invoice_id"`
	Amount        decimal.Decimal   `db:"amount" json:"amount"`
	ReceiptMode   types.ReceiptMode `db:"receipt_mode" json:"receipt_mode"`
	Reference     string            `db:"reference" json:"reference"`
	ReceivedAt    time.Time         `db:"received_at" json:"received_at"`
	types.BaseModel
}

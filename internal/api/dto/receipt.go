package dto

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/receipt"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateReceiptRequest struct {
	InvoiceID   string            `json:"invoice_id" validate:"required"`
	Amount      decimal.Decimal   `json:"amount"`
	ReceiptMode types.ReceiptMode `json:"receipt_mode" validate:"required"`
	Reference   string            `json:"reference" validate:"omitempty,max=100"`
}

func (r *CreateReceiptRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.ReceiptMode.Validate(); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("receipt amount must be positive").
			WithHint("Receipt amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateReceiptRequest) ToReceipt(ctx context.Context) *receipt.Receipt {
	return &receipt.Receipt{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECEIPT),
		InvoiceID:   r.InvoiceID,
		Amount:      r.Amount,
		ReceiptMode: r.ReceiptMode,
		Reference:   r.Reference,
		ReceivedAt:  time.Now().UTC(),
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

type ReceiptResponse struct {
	*receipt.Receipt
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

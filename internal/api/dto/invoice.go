package dto

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type GenerateInvoiceRequest struct {
	BranchID       string   `json:"branch_id" validate:"required"`
	CustomerName   string   `json:"customer_name" validate:"required,max=255"`
	ConsignmentIDs []string `json:"consignment_ids" validate:"required,min=1,dive,required"`
}

func (r *GenerateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	r.ConsignmentIDs = lo.Uniq(r.ConsignmentIDs)
	return nil
}

// ToInvoice builds the open invoice without its number and links
func (r *GenerateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		BranchID:      r.BranchID,
		CustomerName:  r.CustomerName,
		TotalAmount:   decimal.Zero,
		AmountPaid:    decimal.Zero,
		InvoiceStatus: types.InvoiceStatusOpen,
		IssuedAt:      time.Now().UTC(),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

type InvoiceResponse struct {
	*invoice.Invoice
	AmountDue decimal.Decimal `json:"amount_due"`
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv, AmountDue: inv.AmountDue()}
}

package dto

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateConsignmentRequest struct {
	OriginBranchID      string            `json:"origin_branch_id" validate:"required"`
	DestinationBranchID string            `json:"destination_branch_id" validate:"required"`
	ConsignorName       string            `json:"consignor_name" validate:"required,max=255"`
	ConsigneeName       string            `json:"consignee_name" validate:"required,max=255"`
	ConsigneePhone      string            `json:"consignee_phone" validate:"omitempty,max=20"`
	Packages            int               `json:"packages" validate:"required,min=1"`
	WeightKg            decimal.Decimal   `json:"weight_kg"`
	FreightAmount       decimal.Decimal   `json:"freight_amount"`
	PaymentMode         types.PaymentMode `json:"payment_mode" validate:"required"`
}

func (r *CreateConsignmentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.PaymentMode.Validate(); err != nil {
		return err
	}
	if r.WeightKg.IsNegative() || r.FreightAmount.IsNegative() {
		return ierr.NewError("negative weight or freight").
			WithHint("Weight and freight amount cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToConsignment builds the consignment without its CN number
func (r *CreateConsignmentRequest) ToConsignment(ctx context.Context) *consignment.Consignment {
	return &consignment.Consignment{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONSIGNMENT),
		OriginBranchID:      r.OriginBranchID,
		DestinationBranchID: r.DestinationBranchID,
		ConsignorName:       r.ConsignorName,
		ConsigneeName:       r.ConsigneeName,
		ConsigneePhone:      r.ConsigneePhone,
		Packages:            r.Packages,
		WeightKg:            r.WeightKg,
		FreightAmount:       r.FreightAmount,
		PaymentMode:         r.PaymentMode,
		ConsignmentStatus:   types.ConsignmentStatusBooked,
		BookedAt:            time.Now().UTC(),
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
}

type ConsignmentResponse struct {
	*consignment.Consignment
	Tracking []*consignment.TrackingEvent `json:"tracking,omitempty"`
}

package dto

import (
	"context"
	"strings"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/deliveryrun"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/samber/lo"
)

type CreateDeliveryRunRequest struct {
	BranchID       string   `json:"branch_id" validate:"required"`
	VehicleNumber  string   `json:"vehicle_number" validate:"required,max=20"`
	DeliveryAgent  string   `json:"delivery_agent" validate:"omitempty,max=255"`
	ConsignmentIDs []string `json:"consignment_ids" validate:"required,min=1,dive,required"`
}

func (r *CreateDeliveryRunRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	r.ConsignmentIDs = lo.Uniq(r.ConsignmentIDs)
	return nil
}

func (r *CreateDeliveryRunRequest) ToDeliveryRun(ctx context.Context) *deliveryrun.DeliveryRun {
	return &deliveryrun.DeliveryRun{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DELIVERY_RUN),
		BranchID:       r.BranchID,
		VehicleNumber:  strings.ToUpper(r.VehicleNumber),
		DeliveryAgent:  r.DeliveryAgent,
		RunStatus:      types.DeliveryRunStatusOpen,
		RunDate:        time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(ctx),
		ConsignmentIDs: r.ConsignmentIDs,
	}
}

type DeliveryRunResponse struct {
	*deliveryrun.DeliveryRun
}

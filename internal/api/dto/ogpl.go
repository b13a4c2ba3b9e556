package dto

import (
	"context"
	"strings"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/ogpl"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/samber/lo"
)

type CreateOGPLRequest struct {
	FromBranchID   string   `json:"from_branch_id" validate:"required"`
	ToBranchID     string   `json:"to_branch_id" validate:"required"`
	VehicleNumber  string   `json:"vehicle_number" validate:"required,max=20"`
	DriverName     string   `json:"driver_name" validate:"omitempty,max=255"`
	DriverPhone    string   `json:"driver_phone" validate:"omitempty,max=20"`
	ConsignmentIDs []string `json:"consignment_ids" validate:"required,min=1,dive,required"`
}

func (r *CreateOGPLRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.FromBranchID == r.ToBranchID {
		return ierr.NewError("ogpl origin equals destination").
			WithHint("An OGPL must move goods between two different branches").
			Mark(ierr.ErrValidation)
	}
	r.ConsignmentIDs = lo.Uniq(r.ConsignmentIDs)
	return nil
}

func (r *CreateOGPLRequest) ToOGPL(ctx context.Context) *ogpl.OGPL {
	return &ogpl.OGPL{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_OGPL),
		FromBranchID:   r.FromBranchID,
		ToBranchID:     r.ToBranchID,
		VehicleNumber:  strings.ToUpper(r.VehicleNumber),
		DriverName:     r.DriverName,
		DriverPhone:    r.DriverPhone,
		OGPLStatus:     types.OGPLStatusDispatched,
		DispatchedAt:   time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(ctx),
		ConsignmentIDs: r.ConsignmentIDs,
	}
}

type OGPLResponse struct {
	*ogpl.OGPL
}

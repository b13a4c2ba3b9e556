package dto

import (
	"context"
	"strings"

	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
)

type CreateBranchRequest struct {
	Code string `json:"code" validate:"required,alphanum,min=2,max=10"`
	Name string `json:"name" validate:"required,max=255"`
	City string `json:"city" validate:"omitempty,max=100"`
}

func (r *CreateBranchRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateBranchRequest) ToBranch(ctx context.Context) *branch.Branch {
	return &branch.Branch{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BRANCH),
		Code:      strings.ToUpper(r.Code),
		Name:      r.Name,
		City:      r.City,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type BranchResponse struct {
	*branch.Branch
}

package validator

import (
	"testing"

	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	BranchID string `json:"branch_id" validate:"required"`
	Packages int    `json:"packages" validate:"required,min=1"`
}

func TestValidateRequest(t *testing.T) {
	require.NoError(t, ValidateRequest(&bookingRequest{BranchID: "br_1", Packages: 2}))

	err := ValidateRequest(&bookingRequest{})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.Equal(t, "Request validation failed", ierr.Hint(err))
	assert.Equal(t, map[string]any{"branch_id": "required", "packages": "required"}, ierr.ReportableDetails(err))
}

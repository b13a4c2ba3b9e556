package consignment

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
)

// NewStaleUpdateError reports a guarded bulk update that matched fewer
// consignments than requested
func NewStaleUpdateError(expected, updated int) error {
	return ierr.NewError("consignments changed concurrently").
		WithHint("Some consignments were not found or were changed by another request").
		WithReportableDetails(map[string]any{
			"expected": expected,
			"updated":  updated,
		}).
		Mark(ierr.ErrInvalidOperation)
}

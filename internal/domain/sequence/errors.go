package sequence

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
)

// NewNotProvisionedError is returned when no counter row exists for the tenant and type
func NewNotProvisionedError(tenantID string, sequenceType types.SequenceType) error {
	return ierr.NewError("sequence counter not provisioned").
		WithHint("Booking failed, please retry or contact support").
		WithReportableDetails(map[string]any{
			"tenant_id":     tenantID,
			"sequence_type": sequenceType,
		}).
		Mark(ierr.ErrTenantNotProvisioned)
}

// NewStoreUnavailableError wraps a persistence failure of the sequence store
func NewStoreUnavailableError(err error, tenantID string, sequenceType types.SequenceType) error {
	return ierr.WithError(err).
		WithHint("Document numbering is temporarily unavailable, please retry").
		WithReportableDetails(map[string]any{
			"tenant_id":     tenantID,
			"sequence_type": sequenceType,
		}).
		Mark(ierr.ErrStoreUnavailable)
}

// NewFormatMissingError is returned for a sequence type without a format rule
func NewFormatMissingError(sequenceType types.SequenceType) error {
	return ierr.NewError("sequence format configuration missing").
		WithHint("Document numbering is not configured for this document type").
		WithReportableDetails(map[string]any{
			"sequence_type": sequenceType,
		}).
		Mark(ierr.ErrFormatConfigurationMissing)
}

package types

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/samber/lo"
)

// SequenceType names a category of document numbering. Each tenant owns exactly
// one counter per sequence type. The set is open; the constants below are the
// types provisioned for every tenant.
type SequenceType string

const (
	SequenceTypeConsignment SequenceType = "consignment"
	SequenceTypeOGPL        SequenceType = "ogpl"
	SequenceTypeInvoice     SequenceType = "invoice"
	SequenceTypeReceipt     SequenceType = "receipt"
	SequenceTypeDeliveryRun SequenceType = "delivery_run"
)

// KnownSequenceTypes is the provisioning order for a new tenant
var KnownSequenceTypes = []SequenceType{
	SequenceTypeConsignment,
	SequenceTypeOGPL,
	SequenceTypeInvoice,
	SequenceTypeReceipt,
	SequenceTypeDeliveryRun,
}

func (t SequenceType) String() string {
	return string(t)
}

func (t SequenceType) Validate() error {
	if t == "" {
		return ierr.NewError("sequence type is required").
			WithHint("Please provide a sequence type").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ResetPeriod governs when a counter restarts from zero
type ResetPeriod string

const (
	ResetPeriodNone            ResetPeriod = "none"
	ResetPeriodDaily           ResetPeriod = "daily"
	ResetPeriodYearly          ResetPeriod = "yearly"
	// ResetPeriodFinancialYearly resets at the start of the financial year (April by default)
	ResetPeriodFinancialYearly ResetPeriod = "financial_yearly"
)

func (p ResetPeriod) String() string {
	return string(p)
}

func (p ResetPeriod) Validate() error {
	allowed := []ResetPeriod{
		ResetPeriodNone,
		ResetPeriodDaily,
		ResetPeriodYearly,
		ResetPeriodFinancialYearly,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid reset period").
			WithHint("Please provide a valid reset period").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AllocationMode decides whether a counter increment belongs to the caller's
// business transaction or commits on its own
type AllocationMode string

const (
	// AllocationModeGapTolerant commits the increment immediately on its own
	// connection. A failed booking leaves a gap in the numbering.
	AllocationModeGapTolerant AllocationMode = "gap_tolerant"
	// AllocationModeStrict runs the increment inside the caller's transaction so
	// a rollback also rolls the counter back.
	AllocationModeStrict AllocationMode = "strict"
)

func (m AllocationMode) Validate() error {
	allowed := []AllocationMode{
		AllocationModeGapTolerant,
		AllocationModeStrict,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid allocation mode").
			WithHint("Please provide a valid sequence allocation mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

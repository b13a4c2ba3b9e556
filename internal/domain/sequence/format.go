package sequence

import (
	"fmt"
	"strconv"
	"strings"

	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
)

// FormatRule describes how a counter value is rendered into a document number:
//
//	prefix [sep branch] [sep period] [number sep] zero padded value suffix
type FormatRule struct {
	Prefix      string
	Suffix      string
	ResetPeriod types.ResetPeriod
	// Separator goes before the branch and period segments
	Separator string
	// NumberSeparator goes between the last segment and the number
	NumberSeparator string
	IncludeBranch   bool
	IncludePeriod   bool
	// ShortPeriod renders 25 instead of 2025
	ShortPeriod bool
	PadWidth    int
}

// DefaultRules are provisioned for every tenant unless overridden through configuration
func DefaultRules() map[types.SequenceType]FormatRule {
	return map[types.SequenceType]FormatRule{
		// CN250001
		types.SequenceTypeConsignment: {
			Prefix:        "CN",
			ResetPeriod:   types.ResetPeriodYearly,
			IncludePeriod: true,
			ShortPeriod:   true,
			PadWidth:      4,
		},
		// OGPL-BOM-20250001
		types.SequenceTypeOGPL: {
			Prefix:        "OGPL",
			ResetPeriod:   types.ResetPeriodYearly,
			Separator:     "-",
			IncludeBranch: true,
			IncludePeriod: true,
			PadWidth:      4,
		},
		// INV/BOM/2025/0001
		types.SequenceTypeInvoice: {
			Prefix:          "INV",
			ResetPeriod:     types.ResetPeriodYearly,
			Separator:       "/",
			NumberSeparator: "/",
			IncludeBranch:   true,
			IncludePeriod:   true,
			PadWidth:        4,
		},
		// RCP-2025-000001
		types.SequenceTypeReceipt: {
			Prefix:          "RCP",
			ResetPeriod:     types.ResetPeriodYearly,
			Separator:       "-",
			NumberSeparator: "-",
			IncludePeriod:   true,
			PadWidth:        6,
		},
		// DEL-BOM-20250601-001
		types.SequenceTypeDeliveryRun: {
			Prefix:          "DEL",
			ResetPeriod:     types.ResetPeriodDaily,
			Separator:       "-",
			NumberSeparator: "-",
			IncludeBranch:   true,
			IncludePeriod:   true,
			PadWidth:        3,
		},
	}
}

func (r FormatRule) Validate() error {
	if err := r.ResetPeriod.Validate(); err != nil {
		return err
	}
	if r.PadWidth < 1 {
		return ierr.NewError("pad width must be positive").
			WithHint("Sequence format pad width must be at least 1").
			Mark(ierr.ErrValidation)
	}
	// a resetting counter repeats its values, only the period segment keeps codes apart
	if r.ResetPeriod != types.ResetPeriodNone && !r.IncludePeriod {
		return ierr.NewError("resetting sequence without period segment").
			WithHintf("A sequence that resets %s must include the period in its format", r.ResetPeriod).
			WithReportableDetails(map[string]any{"reset_period": r.ResetPeriod}).
			Mark(ierr.ErrFormatConfigurationMissing)
	}
	return nil
}

// Head renders everything in front of the zero padded number
func (r FormatRule) Head(prefix, branchCode string, period types.ResetPeriod, periodKey string) string {
	var b strings.Builder
	b.WriteString(prefix)

	if r.IncludeBranch {
		b.WriteString(r.Separator)
		b.WriteString(strings.ToUpper(branchCode))
	}

	if r.IncludePeriod {
		if marker := PeriodMarker(period, periodKey, r.ShortPeriod); marker != "" {
			b.WriteString(r.Separator)
			b.WriteString(marker)
		}
	}

	b.WriteString(r.NumberSeparator)
	return b.String()
}

// Format renders an allocation. The prefix, suffix and period come from the
// allocation so a counter row can carry tenant specific values.
func (r FormatRule) Format(alloc *Allocation, branchCode string) (string, error) {
	if alloc == nil {
		return "", ierr.NewError("allocation is required").
			Mark(ierr.ErrSystem)
	}
	if r.IncludeBranch && branchCode == "" {
		return "", ierr.NewError("branch code is required").
			WithHint("A branch code is required to generate this document number").
			Mark(ierr.ErrValidation)
	}

	head := r.Head(alloc.Prefix, branchCode, alloc.ResetPeriod, alloc.PeriodKey)
	return fmt.Sprintf("%s%0*d%s", head, r.PadWidth, alloc.Value, alloc.Suffix), nil
}

// ParseNumber extracts the counter value from a code rendered with head and
// suffix. It reports false for codes of another shape.
func ParseNumber(code, head, suffix string) (int64, bool) {
	if !strings.HasPrefix(code, head) || !strings.HasSuffix(code, suffix) || len(code) <= len(head)+len(suffix) {
		return 0, false
	}

	digits := code[len(head) : len(code)-len(suffix)]
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

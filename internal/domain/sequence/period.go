package sequence

import (
	"fmt"
	"strings"
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
)

const DefaultFinancialYearStartMonth = time.April

// PeriodKeys holds the key of every reset period for one instant. The store
// picks the one matching the counter's reset period inside the increment
// statement, so the caller does not need to read the counter first.
//
// Keys are fixed width and sort lexically in time order.
type PeriodKeys struct {
	Daily           string
	Yearly          string
	FinancialYearly string
}

// NewPeriodKeys computes the period keys of now in loc. fyStartMonth is the
// first month of the financial year, 0 means April.
func NewPeriodKeys(now time.Time, loc *time.Location, fyStartMonth time.Month) PeriodKeys {
	if loc == nil {
		loc = time.UTC
	}
	if fyStartMonth < time.January || fyStartMonth > time.December {
		fyStartMonth = DefaultFinancialYearStartMonth
	}

	t := now.In(loc)
	fyStart := t.Year()
	if t.Month() < fyStartMonth {
		fyStart--
	}

	return PeriodKeys{
		Daily:           t.Format("2006-01-02"),
		Yearly:          fmt.Sprintf("%04d", t.Year()),
		FinancialYearly: fmt.Sprintf("%04d-%02d", fyStart, (fyStart+1)%100),
	}
}

// For returns the key applicable to a reset period
func (k PeriodKeys) For(period types.ResetPeriod) string {
	switch period {
	case types.ResetPeriodDaily:
		return k.Daily
	case types.ResetPeriodYearly:
		return k.Yearly
	case types.ResetPeriodFinancialYearly:
		return k.FinancialYearly
	default:
		return ""
	}
}

// PeriodMarker renders a stored period key for display inside a code.
// Full markers: 2025, 2025-26, 20250601. Short markers: 25, 2526, 250601.
func PeriodMarker(period types.ResetPeriod, periodKey string, short bool) string {
	if periodKey == "" {
		return ""
	}

	switch period {
	case types.ResetPeriodYearly:
		if short && len(periodKey) == 4 {
			return periodKey[2:]
		}
		return periodKey
	case types.ResetPeriodFinancialYearly:
		if short && len(periodKey) == 7 {
			return periodKey[2:4] + periodKey[5:]
		}
		return periodKey
	case types.ResetPeriodDaily:
		compact := strings.ReplaceAll(periodKey, "-", "")
		if short && len(compact) == 8 {
			return compact[2:]
		}
		return compact
	default:
		return ""
	}
}

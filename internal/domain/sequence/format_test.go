package sequence

import (
	"testing"

	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocationFor(rule FormatRule, value int64, periodKey string) *Allocation {
	return &Allocation{
		Value:       value,
		Prefix:      rule.Prefix,
		Suffix:      rule.Suffix,
		ResetPeriod: rule.ResetPeriod,
		PeriodKey:   periodKey,
	}
}

func TestDefaultRulesFormat(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name         string
		sequenceType types.SequenceType
		value        int64
		periodKey    string
		branch       string
		want         string
	}{
		{"consignment", types.SequenceTypeConsignment, 1, "2025", "", "CN250001"},
		{"consignment after rollover", types.SequenceTypeConsignment, 1, "2026", "", "CN260001"},
		{"ogpl", types.SequenceTypeOGPL, 1, "2025", "BOM", "OGPL-BOM-20250001"},
		{"invoice", types.SequenceTypeInvoice, 1, "2025", "BOM", "INV/BOM/2025/0001"},
		{"invoice lower case branch", types.SequenceTypeInvoice, 12, "2025", "del", "INV/DEL/2025/0012"},
		{"receipt", types.SequenceTypeReceipt, 1, "2025", "", "RCP-2025-000001"},
		{"delivery run", types.SequenceTypeDeliveryRun, 1, "2025-06-01", "BOM", "DEL-BOM-20250601-001"},
		{"value wider than padding", types.SequenceTypeDeliveryRun, 1234, "2025-06-01", "BOM", "DEL-BOM-20250601-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := rules[tt.sequenceType]
			require.True(t, ok)
			require.NoError(t, rule.Validate())

			got, err := rule.Format(allocationFor(rule, tt.value, tt.periodKey), tt.branch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultRulesCoverKnownTypes(t *testing.T) {
	rules := DefaultRules()
	for _, st := range types.KnownSequenceTypes {
		_, ok := rules[st]
		assert.True(t, ok, "missing rule for %s", st)
	}
}

func TestFormatFinancialYearInvoice(t *testing.T) {
	rule := DefaultRules()[types.SequenceTypeInvoice]
	rule.ResetPeriod = types.ResetPeriodFinancialYearly

	got, err := rule.Format(allocationFor(rule, 7, "2025-26"), "BOM")
	require.NoError(t, err)
	assert.Equal(t, "INV/BOM/2025-26/0007", got)
}

func TestFormatUsesStoredPrefixAndSuffix(t *testing.T) {
	rule := DefaultRules()[types.SequenceTypeConsignment]
	alloc := &Allocation{
		Value:       42,
		Prefix:      "AC",
		Suffix:      "/X",
		ResetPeriod: types.ResetPeriodYearly,
		PeriodKey:   "2025",
	}

	got, err := rule.Format(alloc, "")
	require.NoError(t, err)
	assert.Equal(t, "AC250042/X", got)
}

func TestFormatNoResetPeriod(t *testing.T) {
	rule := FormatRule{
		Prefix:        "GR",
		ResetPeriod:   types.ResetPeriodNone,
		IncludePeriod: true,
		PadWidth:      5,
	}

	got, err := rule.Format(allocationFor(rule, 3, ""), "")
	require.NoError(t, err)
	assert.Equal(t, "GR00003", got)
}

func TestFormatRequiresBranch(t *testing.T) {
	rule := DefaultRules()[types.SequenceTypeOGPL]

	_, err := rule.Format(allocationFor(rule, 1, "2025"), "")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestFormatRuleValidate(t *testing.T) {
	assert.Error(t, FormatRule{ResetPeriod: "weekly", PadWidth: 4}.Validate())
	assert.Error(t, FormatRule{ResetPeriod: types.ResetPeriodYearly, PadWidth: 0}.Validate())
	assert.NoError(t, FormatRule{ResetPeriod: types.ResetPeriodNone, PadWidth: 1}.Validate())
	assert.NoError(t, FormatRule{ResetPeriod: types.ResetPeriodDaily, IncludePeriod: true, PadWidth: 3}.Validate())

	for _, period := range []types.ResetPeriod{
		types.ResetPeriodYearly,
		types.ResetPeriodFinancialYearly,
		types.ResetPeriodDaily,
	} {
		err := FormatRule{ResetPeriod: period, PadWidth: 4}.Validate()
		require.Error(t, err, period)
		assert.True(t, ierr.IsFormatConfigurationMissing(err), period)
	}
}

func TestParseNumber(t *testing.T) {
	rule := DefaultRules()[types.SequenceTypeInvoice]
	head := rule.Head("INV", "bom", types.ResetPeriodYearly, "2025")
	assert.Equal(t, "INV/BOM/2025/", head)

	n, ok := ParseNumber("INV/BOM/2025/0042", head, "")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = ParseNumber("INV/BOM/2025/", head, "")
	assert.False(t, ok)
	_, ok = ParseNumber("INV/BOM/2025/00A2", head, "")
	assert.False(t, ok)
	_, ok = ParseNumber("INV/DEL/2025/0001", head, "")
	assert.False(t, ok)

	n, ok = ParseNumber("CN250007/X", "CN25", "/X")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
}

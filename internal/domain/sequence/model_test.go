package sequence

import (
	"testing"
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCounterRuleDrift(t *testing.T) {
	rule := DefaultRules()[types.SequenceTypeInvoice]
	counter := NewCounter("tenant_acme", types.SequenceTypeInvoice, rule, time.Now())

	assert.Empty(t, counter.RuleDrift(rule))

	// layout-only changes apply to existing counters and are not drift
	padded := rule
	padded.PadWidth = 6
	padded.Separator = "-"
	assert.Empty(t, counter.RuleDrift(padded))

	changed := rule
	changed.Prefix = "BILL"
	changed.Suffix = "X"
	changed.ResetPeriod = types.ResetPeriodFinancialYearly
	assert.Equal(t, []string{"prefix", "suffix", "reset_period"}, counter.RuleDrift(changed))
}

package sequence

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
)

// Counter is the durable numbering state of one sequence type of one tenant
type Counter struct {
	ID           string             `db:"id" json:"id"`
	TenantID     string             `db:"tenant_id" json:"tenant_id"`
	SequenceType types.SequenceType `db:"sequence_type" json:"sequence_type"`
	// CurrentValue is the last value handed out, 0 until the first allocation
	CurrentValue int64             `db:"current_value" json:"current_value"`
	Prefix       string            `db:"prefix" json:"prefix"`
	Suffix       string            `db:"suffix" json:"suffix"`
	ResetPeriod  types.ResetPeriod `db:"reset_period" json:"reset_period"`
	// PeriodKey is the period CurrentValue belongs to, empty for counters that never reset
	PeriodKey   string     `db:"period_key" json:"period_key"`
	LastResetAt *time.Time `db:"last_reset_at" json:"last_reset_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewCounter returns an unallocated counter seeded from a format rule
func NewCounter(tenantID string, sequenceType types.SequenceType, rule FormatRule, now time.Time) *Counter {
	return &Counter{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SEQUENCE),
		TenantID:     tenantID,
		SequenceType: sequenceType,
		CurrentValue: 0,
		Prefix:       rule.Prefix,
		Suffix:       rule.Suffix,
		ResetPeriod:  rule.ResetPeriod,
		PeriodKey:    "",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RuleDrift names the stored fields that differ from rule. Allocation formats
// with the stored prefix, suffix and reset period, so a changed rule only
// reaches counters provisioned after the change.
func (c *Counter) RuleDrift(rule FormatRule) []string {
	var fields []string
	if c.Prefix != rule.Prefix {
		fields = append(fields, "prefix")
	}
	if c.Suffix != rule.Suffix {
		fields = append(fields, "suffix")
	}
	if c.ResetPeriod != rule.ResetPeriod {
		fields = append(fields, "reset_period")
	}
	return fields
}

// Allocation is what a single atomic increment returns
type Allocation struct {
	Value       int64             `db:"current_value"`
	Prefix      string            `db:"prefix"`
	Suffix      string            `db:"suffix"`
	ResetPeriod types.ResetPeriod `db:"reset_period"`
	// PeriodKey is the period the value was issued in, as stored after the increment
	PeriodKey string `db:"period_key"`
}

// Code is a formatted document number handed to a business operation
type Code struct {
	TenantID     string             `json:"tenant_id"`
	SequenceType types.SequenceType `json:"sequence_type"`
	// Value is the formatted identifier, e.g. CN250001
	Value string `json:"value"`
	// Number is the raw counter value behind Value
	Number    int64  `json:"number"`
	PeriodKey string `json:"period_key"`
}

func (c *Code) String() string {
	return c.Value
}

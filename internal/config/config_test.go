package config

import (
	"testing"
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigReadsFileAndEnvironment(t *testing.T) {
	t.Setenv("FLEXCARGO_SEQUENCE_ALLOCATION_MODE", "strict")
	t.Setenv("FLEXCARGO_SERVER_ADDRESS", ":9090")
	t.Setenv("FLEXCARGO_SEQUENCE_TIMEZONE", "UTC")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.AllocationModeStrict, cfg.Sequence.AllocationMode)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "flexcargo.local", cfg.Tenancy.BaseDomain)
	assert.Equal(t, 5*time.Minute, cfg.Tenancy.CacheTTL)
	assert.Equal(t, types.ResetPeriodYearly, cfg.Sequence.Rules["invoice"].ResetPeriod)
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, GetDefaultConfig().Validate())
	})

	t.Run("unknown allocation mode", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Sequence.AllocationMode = "optimistic"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Sequence.Timezone = "Mars/Olympus_Mons"
		assert.Error(t, cfg.Validate())
	})

	t.Run("financial year month out of range", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Sequence.FinancialYearStartMonth = 13
		assert.Error(t, cfg.Validate())
	})
}

func TestTenancySources(t *testing.T) {
	assert.Equal(t, types.DefaultTenantSources, TenancyConfig{}.GetSources())

	custom := TenancyConfig{Sources: []types.TenantSource{types.TenantSourceHeader}}
	assert.Equal(t, []types.TenantSource{types.TenantSourceHeader}, custom.GetSources())
}

func TestSequenceLocation(t *testing.T) {
	loc, err := SequenceConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

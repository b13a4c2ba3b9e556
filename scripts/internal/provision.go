package internal

import (
	"context"
	"fmt"

	"github.com/flexcargo/flexcargo/internal/service"
)

// ProvisionTenant creates the missing document counters of one tenant
func ProvisionTenant(ctx context.Context, tenantID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	tenants := service.NewTenantService(a.params, a.allocator)
	counters, err := tenants.ProvisionTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	fmt.Printf("Tenant %s has %d counters:\n", tenantID, len(counters))
	for _, c := range counters {
		fmt.Printf("  %-14s prefix=%-6s reset=%-16s value=%d period=%s\n",
			c.SequenceType, c.Prefix, c.ResetPeriod, c.CurrentValue, c.PeriodKey)
	}
	return nil
}

// ProvisionAllTenants provisions every active tenant, concurrency tenants at a time
func ProvisionAllTenants(ctx context.Context, concurrency int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	tenants := service.NewTenantService(a.params, a.allocator)
	report, err := tenants.ProvisionAllTenants(ctx, concurrency)
	if report != nil {
		fmt.Printf("Provisioned %d tenants, %d failed\n", report.Tenants-len(report.Failed), len(report.Failed))
		for _, id := range report.Failed {
			fmt.Printf("  failed: %s\n", id)
		}
	}
	return err
}

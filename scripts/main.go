package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flexcargo/flexcargo/scripts/internal"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "scripts",
		Short:         "Operator commands for flexcargo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		provisionTenantCmd(),
		provisionAllTenantsCmd(),
		backfillSequencesCmd(),
		issueTokenCmd(),
		&cobra.Command{
			Use:   "generate-secret",
			Short: "Print a random secret for auth.secret",
			RunE: func(*cobra.Command, []string) error {
				return internal.GenerateSecret()
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func provisionTenantCmd() *cobra.Command {
	var tenantID string
	cmd := &cobra.Command{
		Use:   "provision-tenant",
		Short: "Create the missing document counters of a tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return internal.ProvisionTenant(cmd.Context(), tenantID)
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID")
	_ = cmd.MarkFlagRequired("tenant-id")
	return cmd
}

func provisionAllTenantsCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "provision-all-tenants",
		Short: "Provision every active tenant, existing counters are left untouched and rule drift is logged",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return internal.ProvisionAllTenants(cmd.Context(), concurrency)
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Tenants provisioned in parallel")
	return cmd
}

func backfillSequencesCmd() *cobra.Command {
	var tenantID, sequenceType string
	cmd := &cobra.Command{
		Use:   "backfill-sequences",
		Short: "Raise counters to the highest document number already issued this period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return internal.BackfillSequences(cmd.Context(), tenantID, sequenceType)
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID")
	cmd.Flags().StringVar(&sequenceType, "type", "", "Sequence type, all types when empty")
	_ = cmd.MarkFlagRequired("tenant-id")
	return cmd
}

func issueTokenCmd() *cobra.Command {
	var tenantID, userID string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a bearer token for a tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return internal.IssueToken(tenantID, userID, ttl)
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID")
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("tenant-id")
	return cmd
}

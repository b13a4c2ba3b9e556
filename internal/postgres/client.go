package postgres

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/logger"
	sentryService "github.com/flexcargo/flexcargo/internal/sentry"
	"go.uber.org/fx"
)

// IClient defines the interface for postgres client operations
type IClient interface {
	// WithTx wraps the given function in a transaction
	WithTx(ctx context.Context, fn func(context.Context) error) error

	// Querier returns the current transaction if in a transaction, or the pool
	Querier(ctx context.Context) Querier
}

var _ IClient = (*DB)(nil)

// Module provides an fx.Option to integrate the postgres client with the application
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewDB,
			NewClient,
		),
	)
}

// NewClient returns the client repositories and services talk to, instrumented
// with Sentry spans when Sentry is enabled
func NewClient(db *DB, sentry *sentryService.Service, logger *logger.Logger) IClient {
	return NewSentryClient(db, sentry, logger)
}

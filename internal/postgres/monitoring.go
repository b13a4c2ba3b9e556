package postgres

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/logger"
	sentryService "github.com/flexcargo/flexcargo/internal/sentry"
)

// SentryClient wraps the standard postgres client with Sentry monitoring
type SentryClient struct {
	client IClient
	sentry *sentryService.Service
	logger *logger.Logger
}

// NewSentryClient creates a new Sentry-instrumented Postgres client
func NewSentryClient(client IClient, sentry *sentryService.Service, logger *logger.Logger) IClient {
	return &SentryClient{
		client: client,
		sentry: sentry,
		logger: logger,
	}
}

// WithTx wraps the given function in a transaction with Sentry span tracking
func (c *SentryClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	span, spanCtx := c.sentry.StartDBSpan(ctx, "postgres.transaction", map[string]interface{}{
		"operation": "transaction",
	})
	if span != nil {
		defer span.Finish()
	}

	return c.client.WithTx(spanCtx, fn)
}

// Querier is not instrumented here, repositories open their own spans
func (c *SentryClient) Querier(ctx context.Context) Querier {
	return c.client.Querier(ctx)
}

package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactional closures without a database. It is
// paired with the in-memory stores, which never call Querier.
type MockPostgresClient struct {
	logger *logger.Logger

	committed  atomic.Int64
	rolledBack atomic.Int64
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes fn and counts the outcome as a commit or a rollback
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		c.rolledBack.Add(1)
		return err
	}
	c.committed.Add(1)
	return nil
}

// Querier is not backed by a database
func (c *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	panic("testutil: MockPostgresClient has no database, use the in-memory stores")
}

func (c *MockPostgresClient) Committed() int64 {
	return c.committed.Load()
}

func (c *MockPostgresClient) RolledBack() int64 {
	return c.rolledBack.Load()
}

package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrementPattern = `(?s)^\s*UPDATE\s+sequence_counters\s+SET\s+current_value\s*=\s*CASE.*` +
	`WHERE\s+tenant_id\s*=\s*\$15\s+AND\s+sequence_type\s*=\s*\$16\s+` +
	`RETURNING\s+current_value,\s*prefix,\s*suffix,\s*reset_period,\s*period_key\s*$`

func newMockSequenceRepository(t *testing.T) (sequence.Repository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db := postgres.NewDBFromSqlx(sqlx.NewDb(conn, "postgres"), logger.NewNopLogger())
	return NewSequenceRepository(db, logger.NewNopLogger()), mock
}

func testKeys() sequence.PeriodKeys {
	return sequence.PeriodKeys{Daily: "2025-06-01", Yearly: "2025", FinancialYearly: "2025-26"}
}

func incrementArgs(keys sequence.PeriodKeys, now time.Time, tenantID string, st types.SequenceType) []interface{} {
	return []interface{}{
		keys.Daily, keys.Yearly, keys.FinancialYearly,
		keys.Daily, keys.Yearly, keys.FinancialYearly,
		now,
		keys.Daily, keys.Yearly, keys.FinancialYearly,
		keys.Daily, keys.Yearly, keys.FinancialYearly,
		now, tenantID, string(st),
	}
}

func toDriverArgs(args []interface{}) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func TestIncrementAndFetchIsOneStatement(t *testing.T) {
	repo, mock := newMockSequenceRepository(t)
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	keys := testKeys()

	mock.ExpectQuery(incrementPattern).
		WithArgs(toDriverArgs(incrementArgs(keys, now, "tenant_acme", types.SequenceTypeConsignment))...).
		WillReturnRows(sqlmock.NewRows([]string{"current_value", "prefix", "suffix", "reset_period", "period_key"}).
			AddRow(int64(7), "CN", "", "yearly", "2025"))

	alloc, err := repo.IncrementAndFetch(context.Background(), "tenant_acme", types.SequenceTypeConsignment, keys, now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), alloc.Value)
	assert.Equal(t, "CN", alloc.Prefix)
	assert.Equal(t, types.ResetPeriodYearly, alloc.ResetPeriod)
	assert.Equal(t, "2025", alloc.PeriodKey)

	// any SELECT or second statement would have failed the call above
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementAndFetchMissingRow(t *testing.T) {
	repo, mock := newMockSequenceRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(incrementPattern).
		WillReturnRows(sqlmock.NewRows([]string{"current_value", "prefix", "suffix", "reset_period", "period_key"}))

	_, err := repo.IncrementAndFetch(context.Background(), "tenant_new", types.SequenceTypeInvoice, testKeys(), now)
	require.Error(t, err)
	assert.True(t, ierr.IsTenantNotProvisioned(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementAndFetchDriverFailure(t *testing.T) {
	repo, mock := newMockSequenceRepository(t)

	mock.ExpectQuery(incrementPattern).
		WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	_, err := repo.IncrementAndFetch(context.Background(), "tenant_acme", types.SequenceTypeInvoice, testKeys(), time.Now())
	require.Error(t, err)
	assert.True(t, ierr.IsStoreUnavailable(err))
	assert.False(t, ierr.IsTenantNotProvisioned(err))
}

func TestEnsureInitializedReportsCreation(t *testing.T) {
	repo, mock := newMockSequenceRepository(t)
	now := time.Now().UTC()
	counter := sequence.NewCounter("tenant_acme", types.SequenceTypeConsignment, sequence.DefaultRules()[types.SequenceTypeConsignment], now)

	insert := `(?s)INSERT\s+INTO\s+sequence_counters.*ON\s+CONFLICT\s+\(tenant_id,\s*sequence_type\)\s+DO\s+NOTHING`
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.EnsureInitialized(context.Background(), counter)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureInitialized(context.Background(), counter)
	require.NoError(t, err)
	assert.False(t, created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFloorIsTenantScoped(t *testing.T) {
	repo, mock := newMockSequenceRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)UPDATE\s+sequence_counters.*WHERE\s+tenant_id\s*=\s*\$9\s+AND\s+sequence_type\s*=\s*\$10\s+RETURNING`).
		WithArgs("2025", int64(41), "2025", int64(41), int64(41), "2025", "2025", sqlmock.AnyArg(), "tenant_acme", "consignment").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "sequence_type", "current_value", "prefix", "suffix",
			"reset_period", "period_key", "last_reset_at", "created_at", "updated_at",
		}).AddRow("seq_1", "tenant_acme", "consignment", int64(41), "CN", "", "yearly", "2025", nil, now, now))

	counter, err := repo.SetFloor(context.Background(), "tenant_acme", types.SequenceTypeConsignment, "2025", 41)
	require.NoError(t, err)
	assert.Equal(t, int64(41), counter.CurrentValue)
	assert.Nil(t, counter.LastResetAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

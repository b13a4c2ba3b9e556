package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/jmoiron/sqlx"
)

// TracedQuerier logs every statement with its duration, the transaction it
// ran in and the tenant of the request. Bind arguments are not logged.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{Querier: q, logger: logger, txID: txID}
}

func (tq *TracedQuerier) done(ctx context.Context, query string, start time.Time, err error) {
	fields := []interface{}{
		"query", query,
		"duration_ms", time.Since(start).Milliseconds(),
		"tenant_id", types.GetTenantID(ctx),
	}
	if tq.txID != "" {
		fields = append(fields, "tx_id", tq.txID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		tq.logger.Warnw("query failed", append(fields, "error", err)...)
		return
	}
	tq.logger.Debugw("query", fields...)
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := tq.Querier.ExecContext(ctx, query, args...)
	tq.done(ctx, query, start, err)
	return res, err
}

func (tq *TracedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := tq.Querier.QueryContext(ctx, query, args...)
	tq.done(ctx, query, start, err)
	return rows, err
}

func (tq *TracedQuerier) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	start := time.Now()
	rows, err := tq.Querier.QueryxContext(ctx, query, args...)
	tq.done(ctx, query, start, err)
	return rows, err
}

// QueryRowxContext only times the statement, scan errors surface on the row
func (tq *TracedQuerier) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	start := time.Now()
	row := tq.Querier.QueryRowxContext(ctx, query, args...)
	tq.done(ctx, query, start, row.Err())
	return row
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tq.done(ctx, query, start, err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	tq.done(ctx, query, start, err)
	return err
}

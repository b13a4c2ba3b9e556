package postgres

import (
	"context"
	"database/sql"
	"fmt"

	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// Tx is the transaction carried in a context. Nested WithTx calls reuse it
// and open a savepoint per level.
type Tx struct {
	*sqlx.Tx
	ID    string
	depth int
}

// GetTx returns the transaction carried by ctx, if any
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	return tx, ok && tx != nil
}

// WithoutTx returns a context in which statements run on the pool in
// autocommit mode even when the parent context carries a transaction. The
// returned context keeps deadlines, cancellation and every other value.
func WithoutTx(ctx context.Context) context.Context {
	if _, ok := GetTx(ctx); !ok {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, (*Tx)(nil))
}

// WithTx runs fn in a transaction. A transaction already in ctx is joined
// through a savepoint, so an inner failure only undoes the inner work.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, tx, err := db.begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction", "tx_id", tx.ID, "depth", tx.depth, "panic", r)
			_ = db.rollback(txCtx, tx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		db.logger.Debugw("rolling back transaction", "tx_id", tx.ID, "depth", tx.depth, "error", err)
		if rbErr := db.rollback(txCtx, tx); rbErr != nil {
			db.logger.Errorw("rollback failed", "tx_id", tx.ID, "error", rbErr, "cause", err)
		}
		return err
	}

	return db.commit(txCtx, tx)
}

func (db *DB) begin(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.depth++
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint(tx.depth)); err != nil {
			tx.depth--
			return ctx, nil, txError(err, "savepoint", tx)
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithHint("Database is temporarily unavailable").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{Tx: sqlxTx, ID: types.GenerateUUID()}
	db.logger.Debugw("transaction started", "tx_id", tx.ID)
	return context.WithValue(ctx, txKey{}, tx), tx, nil
}

func (db *DB) commit(ctx context.Context, tx *Tx) error {
	if tx.depth > 0 {
		defer func() { tx.depth-- }()
		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint(tx.depth)); err != nil {
			return txError(err, "release savepoint", tx)
		}
		return nil
	}

	if err := tx.Commit(); err != nil {
		return txError(err, "commit", tx)
	}
	db.logger.Debugw("transaction committed", "tx_id", tx.ID)
	return nil
}

func (db *DB) rollback(ctx context.Context, tx *Tx) error {
	if tx.depth > 0 {
		defer func() { tx.depth-- }()
		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint(tx.depth)); err != nil {
			return txError(err, "rollback to savepoint", tx)
		}
		return nil
	}

	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return txError(err, "rollback", tx)
	}
	return nil
}

func savepoint(depth int) string {
	return fmt.Sprintf("sp_%d", depth)
}

func txError(err error, step string, tx *Tx) error {
	return ierr.WithError(err).
		WithMessage(step+" failed").
		WithHint("Database is temporarily unavailable").
		WithReportableDetails(map[string]any{"tx_id": tx.ID, "depth": tx.depth}).
		Mark(ierr.ErrDatabase)
}

package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewSQLiteDB opens a migrated SQLite database in a temporary directory. The
// pool is capped at maxOpenConns connections.
func NewSQLiteDB(t *testing.T, maxOpenConns int) *postgres.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flexcargo.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)

	conn, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	conn.SetMaxOpenConns(maxOpenConns)

	db := postgres.NewDBFromSqlx(conn, logger.NewNopLogger())
	t.Cleanup(db.Close)

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	return db
}

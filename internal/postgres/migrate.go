package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`

// Migration is one embedded schema file
type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded migrations in apply order
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, Migration{
			Version: name[len("migrations/"):],
			SQL:     string(content),
		})
	}
	return migrations, nil
}

// Migrate applies every embedded migration that has not been recorded in
// schema_migrations. Each file runs in its own transaction.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	migrations, err := Migrations()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var applied []string
	for _, m := range migrations {
		var count int
		if err := db.GetContext(ctx, &count,
			db.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`), m.Version); err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		err := db.WithTx(ctx, func(ctx context.Context) error {
			q := db.Querier(ctx)
			if _, err := q.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx,
				q.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`),
				m.Version, time.Now().UTC())
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}

		db.logger.Infow("applied migration", "version", m.Version)
		applied = append(applied, m.Version)
	}

	return applied, nil
}

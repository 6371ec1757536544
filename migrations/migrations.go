// Package migrations applies the SQL files of this directory in name order.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"

	"at_deals/pkg/contextx"
)

//go:embed *.sql
var files embed.FS

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const createRegistry = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Up applies every migration not yet recorded in schema_migrations. Each
// file runs in its own transaction.
func Up(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createRegistry); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := apply(ctx, db, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}

	return nil
}

func apply(ctx context.Context, db *sqlx.DB, name string) error {
	var applied bool
	if err := db.GetContext(ctx, &applied,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if applied {
		logger(ctx).Debug("migration already applied", slog.String("migration", name))
		return nil
	}

	query, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("files.ReadFile: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(query)); err != nil {
		return fmt.Errorf("tx.ExecContext: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	logger(ctx).Info("migration applied", slog.String("migration", name))

	return nil
}

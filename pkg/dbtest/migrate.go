// Package dbtest prepares a throwaway Postgres schema for repository tests.
package dbtest

import (
	"fmt"
	"io"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
)

const EnvDSN = "PG_TEST_DSN"

// Connect skips the test unless PG_TEST_DSN is set, then drops the given
// tables and replays the migration files.
func Connect(t *testing.T, dropTables []string, fileNames ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skip(EnvDSN + " is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.Connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range dropTables {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
			t.Fatalf("drop %s: %v", table, err)
		}
	}

	if err := MigrateFromFile(db, fileNames...); err != nil {
		t.Fatalf("MigrateFromFile: %v", err)
	}

	return db
}

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fh, err := os.Open(fileName)
		if err != nil {
			return fmt.Errorf("os.Open: %w", err)
		}

		fileBytes, err := io.ReadAll(fh)
		if err != nil {
			return fmt.Errorf("io.ReadAll: %w", err)
		}

		if err = fh.Close(); err != nil {
			return fmt.Errorf("fh.Close: %w", err)
		}

		if _, err = db.Exec(string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}

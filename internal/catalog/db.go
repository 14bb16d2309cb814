// Package catalog persists aggregation run metadata in SQLite so past runs
// can be listed and inspected after the fact.
package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the catalog database connection.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the catalog database at path, applies
// the essential PRAGMAs, and runs any pending migrations.
func Open(path string) (*DB, error) {
	db, err := OpenWithoutMigrations(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// OpenWithoutMigrations opens the catalog database without touching the
// schema. The migrate subcommand uses this so migrations stay under explicit
// operator control.
func OpenWithoutMigrations(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Apply essential PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return &DB{sqlDB}, nil
}

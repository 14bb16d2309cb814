package catalog

import (
	"path/filepath"
	"testing"
)

// setupTestDB opens a migrated catalog database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to open catalog database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

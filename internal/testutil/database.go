package testutil

import (
	"database/sql"
	"testing"

	"demoforge/internal/db"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SetupTestDB creates a new in-memory database for testing
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	rawDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create raw database: %v", err)
	}

	if _, err := rawDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	// Schema mirrors the migrations; created directly to keep tests
	// independent of the migration source path.
	schema := `
		CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'created',
			is_current INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE component_instances (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'stopped',
			port INTEGER NOT NULL DEFAULT 0,
			pid INTEGER NOT NULL DEFAULT 0,
			path TEXT NOT NULL DEFAULT '',
			version TEXT NOT NULL DEFAULT '',
			metadata TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_component_instances_project_id
			ON component_instances(project_id);
		CREATE INDEX idx_projects_is_current
			ON projects(is_current);
	`

	if _, err := rawDB.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	database := &db.DB{
		DB: sqlx.NewDb(rawDB, "sqlite3"),
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

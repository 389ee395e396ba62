package db

import "database/sql"

// SchemaSQL is the complete schema for fresh registry databases.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the registry schema. Tests load it
// through GetSchemaSQL() instead of declaring their own tables.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Blocks appended to shared files, one per dataset and file
CREATE TABLE IF NOT EXISTS splice_regions (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	path TEXT NOT NULL,
	byte_offset INTEGER NOT NULL,
	length INTEGER NOT NULL,
	checksum TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (dataset, path)
);

CREATE INDEX IF NOT EXISTS idx_splice_regions_dataset ON splice_regions(dataset);

-- Create and undo runs
CREATE TABLE IF NOT EXISTS scaffold_history (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'undo')),
	source TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scaffold_history_dataset ON scaffold_history(dataset);
`

// InitSchema creates the registry schema on a fresh database, or runs pending
// migrations on an existing one.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(db)
	}

	// Fresh install - create modern schema directly
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}

	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}

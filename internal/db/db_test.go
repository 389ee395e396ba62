package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_FreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scaffold.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	for _, table := range []string{"splice_regions", "scaffold_history", "schema_version"} {
		var count int
		err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query sqlite_master: %v", err)
		}
		if count != 1 {
			t.Errorf("table %s missing", table)
		}
	}

	version, err := CurrentVersion(database)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaffold.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.Exec("INSERT INTO scaffold_history (id, run_id, dataset, action) VALUES ('h1', 'r1', 'rent_roll', 'create')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	var count int
	if err := second.QueryRow("SELECT COUNT(*) FROM scaffold_history").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("history rows = %d, want 1", count)
	}
}

func TestRunMigrations_FromVersionOne(t *testing.T) {
	database, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	// Simulate a registry created before the history table existed
	if _, err := database.Exec("DROP TABLE scaffold_history; DELETE FROM schema_version WHERE version > 1"); err != nil {
		t.Fatalf("failed to downgrade: %v", err)
	}

	if err := InitSchema(database); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	version, err := CurrentVersion(database)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	if _, err := database.Exec("INSERT INTO scaffold_history (id, run_id, dataset, action) VALUES ('h1', 'r1', 'x1', 'undo')"); err != nil {
		t.Errorf("history table not recreated: %v", err)
	}
}

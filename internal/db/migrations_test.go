package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// createV1Store writes a store as the first schema version left it:
// action_log rows without label or design.
func createV1Store(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, dataDir), 0755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	conn, err := openConn(Path(dir))
	if err != nil {
		t.Fatalf("openConn failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO schema_info (key, value) VALUES ('version', '1')`); err != nil {
		t.Fatalf("set version: %v", err)
	}
	_, err = conn.Exec(`INSERT INTO action_log (id, batch_id, action_type, entity_type, entity_id, new_data, timestamp, undone)
		VALUES ('al-legacy', 'batch-legacy', 'create', 'design', 'ds-legacy', '{}', ?, 1)`, time.Now())
	if err != nil {
		t.Fatalf("insert legacy action: %v", err)
	}
}

func TestMigrationAddsActionLogColumns(t *testing.T) {
	dir := t.TempDir()
	createV1Store(t, dir)

	database, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	for _, col := range []string{"label", "design_id"} {
		ok, err := database.columnExists("action_log", col)
		if err != nil {
			t.Fatalf("columnExists failed: %v", err)
		}
		if !ok {
			t.Errorf("action_log.%s missing after migration", col)
		}
	}

	version, _ := database.GetSchemaVersion()
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}

	batch, err := database.GetBatch("batch-legacy")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if batch == nil || batch.Label != "" || len(batch.Actions) != 1 {
		t.Errorf("legacy batch = %+v", batch)
	}
}

func TestMigrationSkipsExistingColumn(t *testing.T) {
	database := newTestDB(t)

	if _, err := database.conn.Exec(`UPDATE schema_info SET value = '1' WHERE key = 'version'`); err != nil {
		t.Fatalf("reset version: %v", err)
	}

	n, err := database.RunMigrations()
	if err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	if n != 1 {
		t.Errorf("migrations run = %d, want 1", n)
	}
	version, _ := database.GetSchemaVersion()
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestRunMigrationsNoop(t *testing.T) {
	database := newTestDB(t)

	n, err := database.RunMigrations()
	if err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	if n != 0 {
		t.Errorf("migrations run = %d, want 0", n)
	}
}

package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()

	database, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer database.Close()

	dbPath := filepath.Join(dir, ".paramsync", "params.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}
	if !Exists(dir) {
		t.Error("Exists returned false after Initialize")
	}

	version, err := database.GetSchemaVersion()
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}

	hasLabel, err := database.columnExists("action_log", "label")
	if err != nil {
		t.Fatalf("columnExists failed: %v", err)
	}
	if !hasLabel {
		t.Error("migration did not add action_log.label")
	}
}

func TestInitializeIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := Initialize(dir)
	if err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if _, err := first.CreateDesign("bracket"); err != nil {
		t.Fatalf("CreateDesign failed: %v", err)
	}
	first.Close()

	second, err := Initialize(dir)
	if err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetDesignByName("bracket"); err != nil {
		t.Errorf("design lost after re-initialize: %v", err)
	}
}

func TestOpenRequiresInit(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening uninitialized directory")
	}
}

func TestOpenExisting(t *testing.T) {
	dir := t.TempDir()
	database, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	database.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	if reopened.BaseDir() != dir {
		t.Errorf("BaseDir = %q, want %q", reopened.BaseDir(), dir)
	}
}

func TestCreateDesign(t *testing.T) {
	database := newTestDB(t)

	d, err := database.CreateDesign("  bracket  ")
	if err != nil {
		t.Fatalf("CreateDesign failed: %v", err)
	}
	if d.Name != "bracket" {
		t.Errorf("name = %q, want trimmed \"bracket\"", d.Name)
	}
	if d.ID == "" {
		t.Error("design ID not set")
	}

	byID, err := database.ResolveDesign(d.ID)
	if err != nil || byID.Name != "bracket" {
		t.Errorf("ResolveDesign by ID = %+v, %v", byID, err)
	}
	byName, err := database.ResolveDesign("bracket")
	if err != nil || byName.ID != d.ID {
		t.Errorf("ResolveDesign by name = %+v, %v", byName, err)
	}

	if _, err := database.CreateDesign("bracket"); !errors.Is(err, ErrDesignExists) {
		t.Errorf("duplicate CreateDesign error = %v, want ErrDesignExists", err)
	}
	if _, err := database.CreateDesign("   "); err == nil {
		t.Error("expected error for blank design name")
	}
}

func TestGetDesignNotFound(t *testing.T) {
	database := newTestDB(t)

	if _, err := database.GetDesignByName("nope"); !errors.Is(err, ErrDesignNotFound) {
		t.Errorf("GetDesignByName error = %v, want ErrDesignNotFound", err)
	}
	if _, err := database.GetDesign("ds-000000"); !errors.Is(err, ErrDesignNotFound) {
		t.Errorf("GetDesign error = %v, want ErrDesignNotFound", err)
	}
}

func TestListDesigns(t *testing.T) {
	database := newTestDB(t)

	for _, name := range []string{"zeta", "alpha"} {
		if _, err := database.CreateDesign(name); err != nil {
			t.Fatalf("CreateDesign %s failed: %v", name, err)
		}
	}
	alpha, _ := database.GetDesignByName("alpha")
	doc := database.Document(alpha)
	doc.Add(paramOf("A", "1"))
	doc.Add(paramOf("B", "2"))

	designs, err := database.ListDesigns()
	if err != nil {
		t.Fatalf("ListDesigns failed: %v", err)
	}
	if len(designs) != 2 {
		t.Fatalf("got %d designs, want 2", len(designs))
	}
	if designs[0].Name != "alpha" || designs[0].ParameterCount != 2 {
		t.Errorf("designs[0] = %+v, want alpha with 2 parameters", designs[0])
	}
	if designs[1].Name != "zeta" || designs[1].ParameterCount != 0 {
		t.Errorf("designs[1] = %+v, want zeta with 0 parameters", designs[1])
	}
}

func TestWriteLockTimeout(t *testing.T) {
	database := newTestDB(t)

	holder := newWriteLocker(database.BaseDir())
	if err := holder.acquire(defaultTimeout); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer holder.release()

	_, err := database.CreateDesign("blocked")
	var lockErr *LockTimeoutError
	if !errors.As(err, &lockErr) {
		t.Fatalf("error = %v, want *LockTimeoutError", err)
	}
	if lockErr.Holder == "unknown" {
		t.Error("holder info should be recorded")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcus/paramsync/internal/models"
)

func TestLoadMissingConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ActiveDesign != "" {
		t.Errorf("ActiveDesign = %q, want empty", cfg.ActiveDesign)
	}
}

func TestActiveDesign(t *testing.T) {
	dir := t.TempDir()

	if err := SetActiveDesign(dir, "bracket"); err != nil {
		t.Fatalf("SetActiveDesign failed: %v", err)
	}
	got, err := GetActiveDesign(dir)
	if err != nil {
		t.Fatalf("GetActiveDesign failed: %v", err)
	}
	if got != "bracket" {
		t.Errorf("active = %q, want bracket", got)
	}

	if err := ClearActiveDesign(dir); err != nil {
		t.Fatalf("ClearActiveDesign failed: %v", err)
	}
	if got, _ := GetActiveDesign(dir); got != "" {
		t.Errorf("active after clear = %q", got)
	}
}

func TestUpdatesPreserveOtherFields(t *testing.T) {
	dir := t.TempDir()

	SetActiveDesign(dir, "bracket")
	SetLastExport(dir, "/tmp/out.json")
	SetLastImport(dir, "/tmp/in.json")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ActiveDesign != "bracket" || cfg.LastExport != "/tmp/out.json" || cfg.LastImport != "/tmp/in.json" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := SetActiveDesign(dir, "x"); err != nil {
		t.Fatalf("SetActiveDesign failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, ".paramsync"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "config.json" && e.Name() != "config.json.lock" {
			t.Errorf("leftover file %s", e.Name())
		}
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &models.Config{ActiveDesign: "a", LastExport: "out.json"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(dir, &models.Config{ActiveDesign: "b"}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ActiveDesign != "b" || cfg.LastExport != "" {
		t.Errorf("config = %+v, want only ActiveDesign b", cfg)
	}
}

func TestLoadCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, ".paramsync"), 0755)
	os.WriteFile(filepath.Join(dir, configFile), []byte("{not json"), 0644)

	if _, err := Load(dir); err == nil {
		t.Error("expected error for corrupt config")
	}
}

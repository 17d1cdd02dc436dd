// Package config reads and writes the project-local .paramsync/config.json,
// which records the active design and the last import/export paths.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/marcus/paramsync/internal/models"
)

const configFile = ".paramsync/config.json"
const lockFile = ".paramsync/config.json.lock"

// Load reads the config from disk. A missing file yields an empty config.
func Load(baseDir string) (*models.Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk atomically
func Save(baseDir string, cfg *models.Config) error {
	configPath := filepath.Join(baseDir, configFile)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(configPath, data)
}

// update applies fn to the stored config under the config lock.
func update(baseDir string, fn func(cfg *models.Config)) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		fn(cfg)
		return Save(baseDir, cfg)
	})
}

// withConfigLock serializes read-modify-write cycles on config.json
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFileExclusive(f); err != nil {
		return err
	}
	defer unlockFile(f)

	return fn()
}

// SetActiveDesign sets the design the synchronizer works on
func SetActiveDesign(baseDir string, design string) error {
	return update(baseDir, func(cfg *models.Config) { cfg.ActiveDesign = design })
}

// ClearActiveDesign closes the active design
func ClearActiveDesign(baseDir string) error {
	return SetActiveDesign(baseDir, "")
}

// GetActiveDesign returns the active design reference, "" when none
func GetActiveDesign(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return cfg.ActiveDesign, nil
}

// SetLastExport remembers the most recent export destination
func SetLastExport(baseDir string, path string) error {
	return update(baseDir, func(cfg *models.Config) { cfg.LastExport = path })
}

// SetLastImport remembers the most recent import source
func SetLastImport(baseDir string, path string) error {
	return update(baseDir, func(cfg *models.Config) { cfg.LastImport = path })
}

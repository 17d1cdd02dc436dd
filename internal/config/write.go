//go:build !windows

package config

import "github.com/google/renameio/v2"

// writeFileAtomic replaces path with data via a synced temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644)
}

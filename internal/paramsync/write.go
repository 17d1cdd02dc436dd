//go:build !windows

package paramsync

import (
	"log/slog"

	"github.com/google/renameio/v2"
)

// writeAtomic replaces path with data: temp file, fsync, rename. Readers
// see either the old file or the complete new one.
func writeAtomic(path string, data []byte) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return err
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			slog.Debug("paramsync: cleanup pending file", "path", path, "err", err)
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return err
	}
	return pendingFile.CloseAtomicallyReplace()
}

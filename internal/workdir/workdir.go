// Package workdir resolves the directory holding the .paramsync store,
// supporting redirection via .paramsync-root files.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	rootFile = ".paramsync-root"
	storeDir = ".paramsync"
)

// ResolveBaseDir finds the project root for dir. It walks upward from dir
// and stops at the first directory that holds either a .paramsync store or a
// .paramsync-root file. A .paramsync-root file contains the path of the
// directory to use instead; relative paths resolve against the file's
// directory. When nothing is found, dir is returned unchanged so that
// 'paramsync init' creates the store where it was run.
func ResolveBaseDir(dir string) string {
	start, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}

	for cur := start; ; {
		if target, ok := readRootFile(cur); ok {
			return target
		}
		if info, err := os.Stat(filepath.Join(cur, storeDir)); err == nil && info.IsDir() {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

func readRootFile(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}
	resolved := strings.TrimSpace(string(content))
	if resolved == "" {
		return "", false
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	return filepath.Clean(resolved), true
}

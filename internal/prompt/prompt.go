// Package prompt asks the user for file paths when a command was run
// without one. It stands in for the open/save dialogs of a desktop host.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user dismisses the prompt.
// Callers treat it as a quiet no-op rather than a failure.
var ErrCancelled = errors.New("selection cancelled")

// ErrNotInteractive is returned when a path is needed but there is no
// terminal to ask on.
var ErrNotInteractive = errors.New("no file given and not running in a terminal")

// Mode selects between choosing an existing file and a destination.
type Mode int

const (
	Open Mode = iota
	Save
)

// Request describes one path prompt.
type Request struct {
	Mode      Mode
	Title     string
	Suggested string
}

// Selector returns a path for a request. Commands hold one so tests can
// substitute a canned answer.
type Selector func(Request) (string, error)

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// SelectPath prompts on the terminal for a JSON file path.
func SelectPath(req Request) (string, error) {
	if !Interactive() {
		return "", ErrNotInteractive
	}

	path := req.Suggested
	validate := ValidateOpenPath
	if req.Mode == Save {
		validate = ValidateSavePath
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(req.Title).
				Description("Path to a .json parameter file").
				Placeholder("params.json").
				Value(&path).
				Validate(validate),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", err
	}

	path = strings.TrimSpace(path)
	if req.Mode == Save {
		path = WithJSONExt(path)
	}
	return path, nil
}

// ValidateOpenPath accepts paths naming an existing regular file.
func ValidateOpenPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("path is required")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot open %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

// ValidateSavePath accepts paths whose parent directory exists.
func ValidateSavePath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("path is required")
	}
	dir := filepath.Dir(s)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory %s does not exist", dir)
	}
	if info, err := os.Stat(s); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

// WithJSONExt appends .json when path has no extension.
func WithJSONExt(path string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + ".json"
}

package paramsync

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoActiveDocument is returned when no design is open.
	ErrNoActiveDocument = errors.New("no active design")
	// ErrParameterExists is returned by Add when the name is already taken.
	ErrParameterExists = errors.New("parameter already exists")
	// ErrParameterNotFound is returned by Update for an unknown name.
	ErrParameterNotFound = errors.New("parameter not found")
	// ErrInvalidName is returned by Add for an empty or whitespace-padded name.
	ErrInvalidName = errors.New("invalid parameter name")
	// ErrInvalidFile is the cause of a FileReadError carrying schema issues.
	ErrInvalidFile = errors.New("does not match the parameter file format")
)

// ValidationIssue is a single schema violation in a parameter file.
type ValidationIssue struct {
	Path    string `json:"path"` // JSON pointer, e.g. "/parameters/0/name"
	Message string `json:"message"`
	Keyword string `json:"keyword"`
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// FileReadError reports a parameter file that is missing, unreadable,
// malformed, or does not match the parameter file schema.
type FileReadError struct {
	Path   string
	Issues []ValidationIssue
	Err    error
}

func (e *FileReadError) Error() string {
	var sb strings.Builder
	sb.WriteString("read parameter file")
	if e.Path != "" {
		fmt.Fprintf(&sb, " %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	for _, issue := range e.Issues {
		fmt.Fprintf(&sb, "\n  %s", issue)
	}
	return sb.String()
}

func (e *FileReadError) Unwrap() error { return e.Err }

// FileWriteError reports a destination that could not be written.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("write parameter file %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }

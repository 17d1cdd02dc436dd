package cmd

import (
	"errors"
	"fmt"

	"github.com/marcus/paramsync/internal/config"
	"github.com/marcus/paramsync/internal/db"
	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/paramsync"
	"github.com/marcus/paramsync/internal/prompt"
)

// selectPath asks for a file path when none was given on the command line.
var selectPath prompt.Selector = prompt.SelectPath

const noActiveDesignHint = "no active design (run 'paramsync design use <name>' first)"

func openDB() (*db.DB, error) {
	database, err := db.Open(getBaseDir())
	if err != nil {
		return nil, err
	}
	return database, nil
}

// activeDesign returns the design named in config, or an error wrapping
// paramsync.ErrNoActiveDocument when none is set or it no longer exists.
func activeDesign(database *db.DB) (*models.Design, error) {
	ref, err := config.GetActiveDesign(database.BaseDir())
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if ref == "" {
		return nil, paramsync.ErrNoActiveDocument
	}
	design, err := database.ResolveDesign(ref)
	if errors.Is(err, db.ErrDesignNotFound) {
		return nil, fmt.Errorf("%w: design %q no longer exists", paramsync.ErrNoActiveDocument, ref)
	}
	return design, err
}

func newSynchronizer(database *db.DB) *paramsync.Synchronizer {
	return paramsync.New(database.Provider(func() (string, error) {
		return config.GetActiveDesign(database.BaseDir())
	}))
}

// fileArg returns the path given on the command line, or asks for one.
func fileArg(args []string, req prompt.Request) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return selectPath(req)
}

// errorCode maps an error to the code used in JSON output.
func errorCode(err error) string {
	var readErr *paramsync.FileReadError
	var writeErr *paramsync.FileWriteError
	switch {
	case errors.Is(err, paramsync.ErrNoActiveDocument):
		return output.ErrCodeNoActiveDesign
	case errors.As(err, &readErr):
		if len(readErr.Issues) > 0 {
			return output.ErrCodeValidationFailed
		}
		return output.ErrCodeFileRead
	case errors.As(err, &writeErr):
		return output.ErrCodeFileWrite
	case errors.Is(err, db.ErrDesignNotFound), errors.Is(err, paramsync.ErrParameterNotFound):
		return output.ErrCodeNotFound
	case errors.Is(err, db.ErrDesignExists), errors.Is(err, paramsync.ErrParameterExists):
		return output.ErrCodeConflict
	case errors.Is(err, paramsync.ErrInvalidName):
		return output.ErrCodeInvalidInput
	default:
		return output.ErrCodeDatabaseError
	}
}

// errorMessage renders err for the user. FileReadError already lists
// schema issues one per line.
func errorMessage(err error) string {
	if err == paramsync.ErrNoActiveDocument {
		return noActiveDesignHint
	}
	return err.Error()
}

// reportError prints err either styled or as a JSON error object.
func reportError(err error, jsonOut bool) {
	if jsonOut {
		var details map[string]interface{}
		var readErr *paramsync.FileReadError
		if errors.As(err, &readErr) {
			details = map[string]interface{}{"path": readErr.Path}
			if len(readErr.Issues) > 0 {
				details["issues"] = readErr.Issues
			}
		}
		var writeErr *paramsync.FileWriteError
		if errors.As(err, &writeErr) {
			details = map[string]interface{}{"path": writeErr.Path}
		}
		if details == nil {
			output.JSONError(errorCode(err), errorMessage(err))
			return
		}
		output.JSONErrorWithDetails(errorCode(err), errorMessage(err), details)
		return
	}
	output.Error("%s", errorMessage(err))
}

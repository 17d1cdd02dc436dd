package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/marcus/paramsync/internal/config"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/paramsync"
	"github.com/marcus/paramsync/internal/prompt"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the active design's parameters to a JSON file",
	Long: `Writes every parameter of the active design, in design order, as
{name, expression, comment} records. An existing file is replaced.

Without a file argument you are prompted for one; --stdout prints the
document instead.`,
	GroupID: "sync",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stdout, _ := cmd.Flags().GetBool("stdout")
		jsonOut, _ := cmd.Flags().GetBool("json")
		return runExport(args, stdout, jsonOut)
	},
}

// exportResult is the JSON shape of a completed export
type exportResult struct {
	Design   string `json:"design"`
	Path     string `json:"path"`
	Exported int    `json:"exported"`
}

func runExport(args []string, stdout, jsonOut bool) error {
	database, err := openDB()
	if err != nil {
		reportError(err, jsonOut)
		return err
	}
	defer database.Close()

	design, err := activeDesign(database)
	if err != nil {
		reportError(err, jsonOut)
		return err
	}

	if stdout {
		f, err := paramsync.Snapshot(database.Document(design))
		if err != nil {
			reportError(err, jsonOut)
			return err
		}
		return paramsync.Encode(os.Stdout, f)
	}

	suggested := design.Name + ".json"
	if cfg, err := config.Load(getBaseDir()); err == nil && cfg.LastExport != "" {
		suggested = cfg.LastExport
	}
	path, err := fileArg(args, prompt.Request{Mode: prompt.Save, Title: "Save parameters JSON", Suggested: suggested})
	if errors.Is(err, prompt.ErrCancelled) {
		slog.Debug("export: selection cancelled")
		return nil
	}
	if err != nil {
		reportError(err, jsonOut)
		return err
	}

	n, err := newSynchronizer(database).Export(path)
	if err != nil {
		reportError(err, jsonOut)
		return err
	}

	if abs, err := filepath.Abs(path); err == nil {
		if err := config.SetLastExport(getBaseDir(), abs); err != nil {
			slog.Warn("export: remember path", "err", err)
		}
	}

	if jsonOut {
		return output.JSON(exportResult{Design: design.Name, Path: path, Exported: n})
	}
	output.Success("Exported %d parameters to: %s", n, path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Bool("stdout", false, "print the parameter file instead of writing it")
	exportCmd.Flags().Bool("json", false, "JSON output")
}

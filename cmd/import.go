package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/marcus/paramsync/internal/config"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/paramsync"
	"github.com/marcus/paramsync/internal/prompt"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Apply a parameter JSON file to the active design",
	Long: `Reads a parameter file and upserts every record into the active design.
Existing parameters get a new expression (and comment, when the record has
one); unknown names are created. The whole import is one undo step.

Records carry either an expression or a value with an optional unit:

  {"defaultUnit": "mm", "parameters": [
    {"name": "Height", "value": 100},
    {"name": "Angle", "expression": "45 deg", "comment": "tilt"}
  ]}

Without a file argument you are prompted for one.`,
	GroupID: "sync",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		jsonOut, _ := cmd.Flags().GetBool("json")
		return runImport(args, dryRun, jsonOut)
	},
}

// importResult is the JSON shape of a completed import
type importResult struct {
	Design  string `json:"design"`
	Path    string `json:"path"`
	Applied int    `json:"applied"`
}

// planResult is the JSON shape of a dry run
type planResult struct {
	Design  string                       `json:"design"`
	Path    string                       `json:"path"`
	Changes []paramsync.Change           `json:"changes"`
	Summary map[paramsync.ChangeKind]int `json:"summary"`
}

func runImport(args []string, dryRun, jsonOut bool) error {
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

	cfg, _ := config.Load(getBaseDir())
	suggested := ""
	if cfg != nil {
		suggested = cfg.LastImport
	}
	path, err := fileArg(args, prompt.Request{Mode: prompt.Open, Title: "Select parameters JSON", Suggested: suggested})
	if errors.Is(err, prompt.ErrCancelled) {
		slog.Debug("import: selection cancelled")
		return nil
	}
	if err != nil {
		reportError(err, jsonOut)
		return err
	}

	sync := newSynchronizer(database)

	if dryRun {
		changes, err := sync.Plan(path)
		if err != nil {
			reportError(err, jsonOut)
			return err
		}
		if jsonOut {
			return output.JSON(planResult{Design: design.Name, Path: path, Changes: changes, Summary: paramsync.Summarize(changes)})
		}
		printPlan(changes)
		return nil
	}

	n, err := sync.Import(path)
	if err != nil {
		reportError(err, jsonOut)
		return err
	}

	if abs, err := filepath.Abs(path); err == nil {
		if err := config.SetLastImport(getBaseDir(), abs); err != nil {
			slog.Warn("import: remember path", "err", err)
		}
	}

	if jsonOut {
		return output.JSON(importResult{Design: design.Name, Path: path, Applied: n})
	}
	output.Success("Applied %d parameters from: %s", n, path)
	return nil
}

func printPlan(changes []paramsync.Change) {
	if len(changes) == 0 {
		fmt.Println("No parameters in file")
		return
	}
	for _, c := range changes {
		switch c.Kind {
		case paramsync.ChangeCreate:
			fmt.Printf("  %s %s = %s\n", output.FormatAction("create"), c.Name, c.NewExpression)
		case paramsync.ChangeUpdate:
			line := fmt.Sprintf("  %s %s: %s -> %s", output.FormatAction("update"), c.Name, c.OldExpression, c.NewExpression)
			if c.OldComment != c.NewComment {
				line += fmt.Sprintf(" (comment %q -> %q)", c.OldComment, c.NewComment)
			}
			fmt.Println(line)
		default:
			fmt.Printf("  unchanged %s = %s\n", c.Name, c.NewExpression)
		}
	}
	s := paramsync.Summarize(changes)
	fmt.Printf("\nWould create %d, update %d, leave %d unchanged\n",
		s[paramsync.ChangeCreate], s[paramsync.ChangeUpdate], s[paramsync.ChangeUnchanged])
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("dry-run", false, "show what would change without applying")
	importCmd.Flags().Bool("json", false, "JSON output")
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marcus/paramsync/internal/config"
	"github.com/marcus/paramsync/internal/db"
	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/paramsync"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last change to the active design",
	Long: `Reverts the most recent change group of the active design.

An import is one group: undoing it restores every expression and comment it
replaced and removes every parameter it created. A single 'param set' or
'param rm' is its own group.

Use 'paramsync undo --list' to see recent groups.`,
	GroupID: "history",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		return runUndo(list)
	},
}

// historyScope returns the design whose history undo and log work on.
// Without an active design they cover every design.
func historyScope(database *db.DB) (*models.Design, error) {
	design, err := activeDesign(database)
	if errors.Is(err, paramsync.ErrNoActiveDocument) {
		return nil, nil
	}
	return design, err
}

func runUndo(list bool) error {
	database, err := openDB()
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer database.Close()

	design, err := historyScope(database)
	if err != nil {
		output.Error("%v", err)
		return err
	}
	designID := ""
	if design != nil {
		designID = design.ID
	}

	if list {
		batches, err := database.GetRecentBatches(designID, 10)
		if err != nil {
			output.Error("failed to get history: %v", err)
			return err
		}
		if len(batches) == 0 {
			output.Info("No changes to undo")
			return nil
		}
		fmt.Print(output.SectionHeader("recent changes"))
		for i := range batches {
			fmt.Println(output.IndentString(output.FormatBatch(&batches[i]), 2))
		}
		return nil
	}

	batch, err := database.GetLastBatch(designID)
	if err != nil {
		output.Error("failed to get last change: %v", err)
		return err
	}
	if batch == nil {
		output.Info("No changes to undo")
		return nil
	}

	if err := database.UndoBatch(batch.ID); err != nil {
		output.Error("failed to undo: %v", err)
		return err
	}

	if design != nil && removesDesign(batch, design.ID) {
		if err := config.ClearActiveDesign(getBaseDir()); err != nil {
			output.Warning("failed to clear active design: %v", err)
		}
	}

	fmt.Printf("UNDONE: %s (%d %s)\n", batch.Label, len(batch.Actions), pluralize(len(batch.Actions), "change", "changes"))
	return nil
}

// removesDesign reports whether undoing b deletes the design designID.
func removesDesign(b *models.Batch, designID string) bool {
	for _, a := range b.Actions {
		if a.EntityType == models.EntityDesign && a.ActionType == models.ActionCreate && a.EntityID == designID {
			return true
		}
	}
	return false
}

// actionSubject returns the name recorded in an action's snapshot.
func actionSubject(a *models.ActionLog) string {
	data := a.NewData
	if data == "" {
		data = a.PreviousData
	}
	var snap struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(data), &snap); err != nil || snap.Name == "" {
		return a.EntityID
	}
	return snap.Name
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(undoCmd)

	undoCmd.Flags().Bool("list", false, "list recent undoable changes")
}

package cmd

import (
	"fmt"

	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/output"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"history"},
	Short:   "Show the change history of the active design",
	Long: `Lists recent change groups, newest first, with the parameters each one
touched. Without an active design the history of every design is shown.`,
	GroupID: "history",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOut, _ := cmd.Flags().GetBool("json")
		return runLog(limit, jsonOut)
	},
}

func runLog(limit int, jsonOut bool) error {
	database, err := openDB()
	if err != nil {
		reportError(err, jsonOut)
		return err
	}
	defer database.Close()

	design, err := historyScope(database)
	if err != nil {
		reportError(err, jsonOut)
		return err
	}
	designID := ""
	if design != nil {
		designID = design.ID
	}

	batches, err := database.GetRecentBatches(designID, limit)
	if err != nil {
		reportError(err, jsonOut)
		return err
	}

	if jsonOut {
		if batches == nil {
			batches = []models.Batch{}
		}
		return output.JSON(batches)
	}

	if len(batches) == 0 {
		output.Info("No history")
		return nil
	}
	for i := range batches {
		b := &batches[i]
		fmt.Println(output.FormatBatch(b))
		for j := range b.Actions {
			a := &b.Actions[j]
			line := fmt.Sprintf("%s %s %s", output.FormatAction(a.ActionType), a.EntityType, actionSubject(a))
			fmt.Println(output.IndentString(line, 4))
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntP("limit", "n", 20, "number of change groups to show")
	logCmd.Flags().Bool("json", false, "JSON output")
}

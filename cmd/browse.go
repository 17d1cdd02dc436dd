package cmd

import (
	"fmt"
	"time"

	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/tui/browser"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Short:   "Browse the active design's parameters interactively",
	Long:    `Opens a read-only table of the active design's parameters that refreshes as the store changes.`,
	GroupID: "design",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		design, err := activeDesign(database)
		if err != nil {
			reportError(err, false)
			return err
		}

		load := func() ([]models.Parameter, error) {
			return database.ListParameters(design.ID)
		}
		if err := browser.Run(design.Name, load, interval); err != nil {
			return fmt.Errorf("error running browser: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Duration("interval", 2*time.Second, "refresh interval")
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/marcus/paramsync/internal/config"
	"github.com/marcus/paramsync/internal/db"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/paramsync"
	"github.com/spf13/cobra"
)

var designCmd = &cobra.Command{
	Use:     "design",
	Aliases: []string{"designs"},
	Short:   "Manage designs and the active design",
	Long: `A design is a named set of user parameters. Import, export and
parameter commands operate on the active design.`,
	GroupID: "design",
}

var designCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a design",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		use, _ := cmd.Flags().GetBool("use")
		return runDesignCreate(args[0], use)
	},
}

var designListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List designs, marking the active one",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return runDesignList(jsonOut)
	},
}

var designUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a design the active design",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesignUse(args[0])
	},
}

var designCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Clear the active design",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearActiveDesign(getBaseDir()); err != nil {
			output.Error("failed to update config: %v", err)
			return err
		}
		fmt.Println("No active design")
		return nil
	},
}

var designCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active design",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesignCurrent()
	},
}

func runDesignCreate(name string, use bool) error {
	database, err := openDB()
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer database.Close()

	design, err := database.CreateDesign(name)
	if err != nil {
		output.Error("failed to create design: %v", err)
		return err
	}
	output.Success("CREATED %s (%s)", design.Name, design.ID)

	if use {
		if err := config.SetActiveDesign(getBaseDir(), design.Name); err != nil {
			output.Error("failed to set active design: %v", err)
			return err
		}
		fmt.Printf("Active design: %s\n", design.Name)
	}
	return nil
}

func runDesignList(jsonOut bool) error {
	database, err := openDB()
	if err != nil {
		reportError(err, jsonOut)
		return err
	}
	defer database.Close()

	designs, err := database.ListDesigns()
	if err != nil {
		reportError(err, jsonOut)
		return err
	}
	active, _ := config.GetActiveDesign(getBaseDir())

	if jsonOut {
		type row struct {
			db.DesignSummary
			Active bool `json:"active"`
		}
		rows := make([]row, len(designs))
		for i, d := range designs {
			rows[i] = row{DesignSummary: d, Active: isActive(d.Name, d.ID, active)}
		}
		return output.JSON(rows)
	}

	if len(designs) == 0 {
		fmt.Println("No designs. Create one with 'paramsync design create <name>'")
		return nil
	}
	for _, d := range designs {
		fmt.Println(output.FormatDesign(d.Name, d.ParameterCount, isActive(d.Name, d.ID, active)))
	}
	return nil
}

func isActive(name, id, active string) bool {
	return active != "" && (active == name || active == id)
}

func runDesignUse(ref string) error {
	database, err := openDB()
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer database.Close()

	design, err := database.ResolveDesign(ref)
	if err != nil {
		output.Error("%v", err)
		return err
	}
	if err := config.SetActiveDesign(getBaseDir(), design.Name); err != nil {
		output.Error("failed to set active design: %v", err)
		return err
	}
	fmt.Printf("Active design: %s\n", design.Name)
	return nil
}

func runDesignCurrent() error {
	database, err := openDB()
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer database.Close()

	design, err := activeDesign(database)
	if errors.Is(err, paramsync.ErrNoActiveDocument) {
		fmt.Println("No active design")
		return nil
	}
	if err != nil {
		output.Error("%v", err)
		return err
	}

	count, err := database.CountParameters(design.ID)
	if err != nil {
		output.Error("%v", err)
		return err
	}
	fmt.Println(output.FormatDesign(design.Name, count, true))
	return nil
}

func init() {
	rootCmd.AddCommand(designCmd)
	designCmd.AddCommand(designCreateCmd, designListCmd, designUseCmd, designCloseCmd, designCurrentCmd)

	designCreateCmd.Flags().Bool("use", false, "make the new design active")
	designListCmd.Flags().Bool("json", false, "JSON output")
}

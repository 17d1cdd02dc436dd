package cmd

import (
	"fmt"

	"github.com/marcus/paramsync/internal/db"
	"github.com/marcus/paramsync/internal/output"
	"github.com/marcus/paramsync/internal/paramsync"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var paramCmd = &cobra.Command{
	Use:     "param",
	Aliases: []string{"params", "p"},
	Short:   "Inspect and edit parameters of the active design",
	GroupID: "design",
}

var paramSetCmd = &cobra.Command{
	Use:   "set <name> <expression>",
	Short: "Create or update one parameter",
	Long: `Creates the parameter when the name is new, otherwise replaces its
expression. The comment is only replaced when --comment is given; --unit
applies to new parameters only.`,
	Example: `  paramsync param set Height "100 mm"
  paramsync param set Width "Height / 2" --comment "half height"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, _ := cmd.Flags().GetString("unit")
		return runParamSet(args[0], args[1], unit, optionalString(cmd.Flags(), "comment"))
	},
}

var paramListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List parameters in design order",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")
		return runParamList(jsonOut, markdown)
	},
}

var paramShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return runParamShow(args[0], jsonOut)
	},
}

var paramRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete one parameter",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParamRm(args[0])
	},
}

// optionalString returns the flag's value, or nil when it was not given.
func optionalString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// withActiveDocument opens the store and hands fn the active design.
func withActiveDocument(jsonOut bool, fn func(database *db.DB, doc *db.Document) error) error {
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
	return fn(database, database.Document(design))
}

func runParamSet(name, expression, unit string, comment *string) error {
	return withActiveDocument(false, func(_ *db.DB, doc *db.Document) error {
		_, found, err := doc.Lookup(name)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if found {
			if err := doc.Update(name, expression, comment); err != nil {
				output.Error("failed to update %s: %v", name, err)
				return err
			}
			output.Success("UPDATED %s = %s", name, expression)
			return nil
		}

		p := paramsync.Parameter{Name: name, Expression: expression, Unit: unit}
		if comment != nil {
			p.Comment = *comment
		}
		if err := doc.Add(p); err != nil {
			output.Error("failed to add %s: %v", name, err)
			return err
		}
		output.Success("CREATED %s = %s", name, expression)
		return nil
	})
}

func runParamList(jsonOut, markdown bool) error {
	return withActiveDocument(jsonOut, func(database *db.DB, doc *db.Document) error {
		design := doc.Design()
		params, err := database.ListParameters(design.ID)
		if err != nil {
			reportError(err, jsonOut)
			return err
		}

		switch {
		case jsonOut:
			return output.JSON(params)
		case markdown:
			rendered, err := output.RenderMarkdown(output.ParametersMarkdown(design.Name, params))
			if err != nil {
				output.Error("render markdown: %v", err)
				return err
			}
			fmt.Println(rendered)
			return nil
		}

		if len(params) == 0 {
			fmt.Printf("No parameters in %s\n", design.Name)
			return nil
		}
		for i := range params {
			fmt.Println(output.FormatParameter(&params[i]))
		}
		return nil
	})
}

func runParamShow(name string, jsonOut bool) error {
	return withActiveDocument(jsonOut, func(database *db.DB, doc *db.Document) error {
		p, err := database.GetParameter(doc.Design().ID, name)
		if err != nil {
			reportError(err, jsonOut)
			return err
		}
		if p == nil {
			err := fmt.Errorf("%s: %w", name, paramsync.ErrParameterNotFound)
			reportError(err, jsonOut)
			return err
		}
		if jsonOut {
			return output.JSON(p)
		}
		fmt.Println(output.FormatParameterLong(p))
		return nil
	})
}

func runParamRm(name string) error {
	return withActiveDocument(false, func(database *db.DB, doc *db.Document) error {
		if err := database.DeleteParameter(doc.Design().ID, name); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("DELETED %s", name)
		return nil
	})
}

func init() {
	rootCmd.AddCommand(paramCmd)
	paramCmd.AddCommand(paramSetCmd, paramListCmd, paramShowCmd, paramRmCmd)

	paramSetCmd.Flags().String("unit", "", "unit recorded for a new parameter")
	paramSetCmd.Flags().String("comment", "", "parameter comment")
	paramListCmd.Flags().Bool("json", false, "JSON output")
	paramListCmd.Flags().Bool("markdown", false, "render as a markdown table")
	paramShowCmd.Flags().Bool("json", false, "JSON output")
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/paramsync/internal/config"
	"github.com/marcus/paramsync/internal/db"
	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a new paramsync project",
	Long:    `Creates the local .paramsync directory with the design store and config.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		design, _ := cmd.Flags().GetString("design")
		return runInit(getBaseDir(), design)
	},
}

func runInit(baseDir, designName string) error {
	if db.Exists(baseDir) {
		output.Warning(".paramsync/ already exists")
		return nil
	}

	database, err := db.Initialize(baseDir)
	if err != nil {
		output.Error("failed to initialize database: %v", err)
		return err
	}
	defer database.Close()

	if err := config.Save(baseDir, &models.Config{}); err != nil {
		output.Error("failed to write config: %v", err)
		return err
	}

	fmt.Println("INITIALIZED .paramsync/")

	if _, err := os.Stat(filepath.Join(baseDir, ".git")); err == nil {
		addToGitignore(filepath.Join(baseDir, ".gitignore"))
	}

	if designName == "" {
		return nil
	}
	design, err := database.CreateDesign(designName)
	if err != nil {
		output.Error("failed to create design: %v", err)
		return err
	}
	if err := config.SetActiveDesign(baseDir, design.Name); err != nil {
		output.Error("failed to set active design: %v", err)
		return err
	}
	fmt.Printf("Active design: %s\n", design.Name)
	return nil
}

func addToGitignore(path string) {
	// Read existing content
	content, _ := os.ReadFile(path)
	contentStr := string(content)

	// Check if already present
	if strings.Contains(contentStr, ".paramsync/") {
		return
	}

	// Append to file
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	// Add newline if file doesn't end with one
	if len(contentStr) > 0 && !strings.HasSuffix(contentStr, "\n") {
		f.WriteString("\n")
	}

	f.WriteString(".paramsync/\n")
	fmt.Println("Added .paramsync/ to .gitignore")
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("design", "", "also create a design and make it active")
}

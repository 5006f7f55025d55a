package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leapsheet.yaml configuration",
		Long: `Create a leapsheet.yaml configuration file and a .gitignore.

The default configuration reads the API token from SMARTSHEET_ACCESS_TOKEN
and writes to a local SQLite database. Use --example for a configuration
with dev, analytics (DuckDB) and prod (PostgreSQL) environments.`,
		Example: `  # Initialize in current directory
  leapsheet init

  # Initialize with environments
  leapsheet init --example

  # Initialize in a new directory
  leapsheet init sheets-sync

  # Force overwrite existing config
  leapsheet init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create a configuration with several environments")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "leapsheet.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("leapsheet.yaml already exists. Use --force to overwrite")
	}

	written, skipped, err := writeScaffold(template, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	for _, f := range written {
		r.StatusLine(f, output.StatusSuccess, "")
	}
	for _, f := range skipped {
		r.StatusLine(f, output.StatusWarning, "exists, kept")
	}

	r.Println("")
	r.Success("leapsheet initialized")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. export SMARTSHEET_ACCESS_TOKEN=<your API token>")
	r.Println("  2. Run 'leapsheet doctor' to check the setup")
	r.Println("  3. Run 'leapsheet sheets' to list your sheets")
	r.Println("  4. Run 'leapsheet push <sheet> --table <name>' to load a sheet")

	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/bridge"
	"github.com/leapstack-labs/leapsheet/pkg/core"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the target database",
		Long: `Run a SQL query against the configured target and print the result.

The query is taken from the arguments, from --input or from piped stdin.
When invoked without any of these on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  leapsheet query "SELECT status, count(*) FROM project_plan GROUP BY status"

  # Show the column types of a table
  leapsheet query schema project_plan

  # Read SQL from a file, output as CSV
  leapsheet query --input report.sql -o csv

  # Interactive mode
  leapsheet query`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.AddCommand(newQuerySchemaCommand())

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	var sqlQuery string
	interactive := false

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		interactive = true
	}

	if !interactive && strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no query given")
	}

	eng, err := cmdCtx.Engine(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if interactive {
		return runQueryREPL(cmd, cmdCtx, eng)
	}
	return executeAndRender(cmd.Context(), cmdCtx, eng, sqlQuery)
}

func executeAndRender(ctx context.Context, cmdCtx *CommandContext, eng adapter.Adapter, sqlQuery string) error {
	t, err := bridge.ReadTable(ctx, eng, strings.TrimSuffix(strings.TrimSpace(sqlQuery), ";"))
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Table(t)
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns and types of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			eng, err := cmdCtx.Engine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			return showSchema(cmd.Context(), cmdCtx, eng, args[0])
		},
	}
}

func showSchema(ctx context.Context, cmdCtx *CommandContext, eng adapter.Adapter, table string) error {
	cols, err := bridge.ColumnTypes(ctx, eng, table)
	if err != nil {
		return err
	}
	t := core.NewTable("column", "type", "nullable")
	for _, c := range cols {
		_ = t.Append([]core.Value{core.String(c.Name), core.String(c.Type), core.Bool(c.Nullable)})
	}
	return cmdCtx.Renderer.Table(t)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

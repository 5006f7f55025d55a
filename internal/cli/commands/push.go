package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/pkg/bridge"
	"github.com/leapstack-labs/leapsheet/pkg/flatten"
)

// PushOptions holds options for the push command.
type PushOptions struct {
	Table          string
	IfExists       string
	RetrieveTypes  bool
	Types          []string
	ChunkSize      int
	Atomic         bool
	ConvertHeaders bool
}

// NewPushCommand creates the push command.
func NewPushCommand() *cobra.Command {
	opts := &PushOptions{}

	cmd := &cobra.Command{
		Use:   "push <sheet>",
		Short: "Copy a sheet into a database table",
		Long: `Fetch a sheet, flatten it and insert its rows into a table of the
configured target.

A missing table is created. An existing table is left alone unless
--if-exists is replace (drop and recreate) or append. With
--retrieve-types, appended values are recast to the existing column types.
Each chunk commits on its own unless --atomic is set.`,
		Example: `  # Load into a new table
  leapsheet push "Project Plan" --table project_plan

  # Append, matching the existing column types
  leapsheet push 1002 --table project_plan --if-exists append --retrieve-types

  # Replace with explicit types, 500 rows per INSERT
  leapsheet push Tasks --table tasks --if-exists replace --type estimate=NUMERIC --chunk-size 500

  # Against the prod environment
  leapsheet push Tasks --table tasks --target prod`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "Destination table (required)")
	cmd.Flags().StringVar(&opts.IfExists, "if-exists", string(bridge.IfExistsFail), "What to do when the table exists: fail, replace or append")
	cmd.Flags().BoolVar(&opts.RetrieveTypes, "retrieve-types", false, "Recast values to the existing table's column types when appending")
	cmd.Flags().StringArrayVar(&opts.Types, "type", nil, "Column type override as column=SQLTYPE (repeatable)")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", 0, "Rows per INSERT (0 for all rows, limited by the database)")
	cmd.Flags().BoolVar(&opts.Atomic, "atomic", false, "Write every chunk in one transaction")
	cmd.Flags().BoolVar(&opts.ConvertHeaders, "convert-headers", true, "Lowercase headers and replace spaces with underscores")
	_ = cmd.MarkFlagRequired("table")

	_ = cmd.RegisterFlagCompletionFunc("if-exists", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"fail", "replace", "append"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPush(cmd *cobra.Command, ref string, opts *PushOptions) error {
	ifExists, err := bridge.ParseIfExists(opts.IfExists)
	if err != nil {
		return err
	}
	overrides, err := parseTypeOverrides(opts.Types)
	if err != nil {
		return err
	}
	if opts.ChunkSize < 0 {
		return fmt.Errorf("--chunk-size must not be negative")
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, sheetID, err := cmdCtx.ClientAndSheet(ctx, ref)
	if err != nil {
		return err
	}
	t, err := bridge.SheetToTable(ctx, client, sheetID, flatten.Options{ConvertHeaders: opts.ConvertHeaders})
	if err != nil {
		return err
	}

	eng, err := cmdCtx.Engine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	res, err := bridge.WriteTable(ctx, eng, t, opts.Table, bridge.WriteOptions{
		IfExists:      ifExists,
		RetrieveTypes: opts.RetrieveTypes,
		TypeOverride:  overrides,
		ChunkSize:     opts.ChunkSize,
		Atomic:        opts.Atomic,
		Logger:        cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	if res.Created {
		cmdCtx.Renderer.Success("Created table %s", res.Table)
	}
	cmdCtx.Renderer.Success("Wrote %d rows to %s in %d batch(es) [write %s]", res.Rows, res.Table, res.Batches, res.WriteID)
	return nil
}

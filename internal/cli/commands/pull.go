package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/pkg/bridge"
	"github.com/leapstack-labs/leapsheet/pkg/flatten"
)

// PullOptions holds options for the pull command.
type PullOptions struct {
	ConvertHeaders bool
	XLSX           string
	Worksheet      string
}

// NewPullCommand creates the pull command.
func NewPullCommand() *cobra.Command {
	opts := &PullOptions{}

	cmd := &cobra.Command{
		Use:   "pull <sheet>",
		Short: "Print a sheet as a table",
		Long: `Fetch a sheet, flatten it to records and print it.

The sheet may be given by name or numeric ID. An all-digit reference that
matches no sheet ID is tried as a name.

Values are coerced by column type: DATE and DATETIME columns become dates,
integer and decimal text in TEXT_NUMBER columns becomes numbers and empty
CHECKBOX cells become false. With --xlsx the table is written to a workbook
instead.`,
		Example: `  # Print a sheet
  leapsheet pull "Project Plan"

  # Lowercase, underscore-separated headers as CSV
  leapsheet pull 1002 --convert-headers -o csv

  # Save as a workbook
  leapsheet pull Tasks --xlsx tasks.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ConvertHeaders, "convert-headers", false, "Lowercase headers and replace spaces with underscores")
	cmd.Flags().StringVar(&opts.XLSX, "xlsx", "", "Write the table to an .xlsx file")
	cmd.Flags().StringVar(&opts.Worksheet, "worksheet", "", "Worksheet name inside the .xlsx file")

	return cmd
}

func runPull(cmd *cobra.Command, ref string, opts *PullOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	client, sheetID, err := cmdCtx.ClientAndSheet(cmd.Context(), ref)
	if err != nil {
		return err
	}

	t, err := bridge.SheetToTable(cmd.Context(), client, sheetID, flatten.Options{ConvertHeaders: opts.ConvertHeaders})
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("sheet flattened",
		slog.Int64("sheet_id", sheetID),
		slog.Int("columns", len(t.Columns)),
		slog.Int("rows", t.Len()))

	if opts.XLSX == "" {
		return cmdCtx.Renderer.Table(t)
	}

	if err := bridge.WriteXLSX(t, opts.XLSX, opts.Worksheet); err != nil {
		return err
	}
	cmdCtx.Renderer.Success("Wrote %d rows to %s", t.Len(), opts.XLSX)
	return nil
}

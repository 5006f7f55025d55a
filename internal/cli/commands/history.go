package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/pkg/bridge"
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <sheet> [row-number] <column>",
		Short: "Show the history of a cell or a column",
		Long: `Show every value a cell has held, newest first.

The cell is addressed by 1-based row number and column name, which are
resolved to IDs before the history is fetched. Without a row number the
history of the column is collected across every row, one API request per
row, and each entry carries its row number and row ID.`,
		Example: `  leapsheet history Tasks 1 Status
  leapsheet history Tasks Status -o csv`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			wholeColumn := len(args) == 2
			n := 0
			if !wholeColumn {
				var err error
				if n, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid row number %q", args[1])
				}
			}
			column := args[len(args)-1]

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, sheetID, err := cmdCtx.ClientAndSheet(ctx, args[0])
			if err != nil {
				return err
			}

			if wholeColumn {
				t, err := bridge.ColumnHistoryTable(ctx, client, sheetID, column)
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Table(t)
			}

			resolver := smartsheet.NewResolver(client)
			rowID, err := resolver.RowID(ctx, sheetID, n)
			if err != nil {
				return err
			}
			columnID, err := resolver.ColumnID(ctx, sheetID, column)
			if err != nil {
				return err
			}

			entries, err := client.CellHistory(ctx, sheetID, rowID, columnID)
			if err != nil {
				return err
			}

			t := core.NewTable("modified_at", "modified_by", "value", "display_value", "column_type")
			for _, e := range entries {
				by := e.ModifiedBy.Name
				if by == "" {
					by = e.ModifiedBy.Email
				}
				_ = t.Append([]core.Value{
					timeValue(e.ModifiedAt),
					core.String(by),
					e.Value,
					core.String(e.DisplayValue),
					core.String(string(e.ColumnType)),
				})
			}
			return cmdCtx.Renderer.Table(t)
		},
	}
}

package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// idValue renders an API ID. IDs exceed float64 precision, so they are
// carried as text.
func idValue(id int64) core.Value {
	return core.String(strconv.FormatInt(id, 10))
}

func timeValue(t time.Time) core.Value {
	if t.IsZero() {
		return core.Null()
	}
	return core.Date(t)
}

// NewSheetsCommand creates the sheets command.
func NewSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List accessible sheets",
		Long:  `List every sheet the configured token can access, with its ID.`,
		Example: `  # List sheets
  leapsheet sheets

  # As JSON
  leapsheet sheets -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			client, err := cmdCtx.Client()
			if err != nil {
				return err
			}

			sheets, err := client.ListSheets(cmd.Context())
			if err != nil {
				return err
			}

			t := core.NewTable("id", "name", "access_level", "modified_at")
			for _, s := range sheets {
				_ = t.Append([]core.Value{idValue(s.ID), core.String(s.Name), core.String(s.AccessLevel), timeValue(s.ModifiedAt)})
			}
			return cmdCtx.Renderer.Table(t)
		},
	}
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var withTypes bool

	cmd := &cobra.Command{
		Use:   "columns <sheet> [column]",
		Short: "Show column names and IDs",
		Long: `Show the column name to column ID mapping of a sheet.

The sheet may be given by name or numeric ID. An all-digit reference that
matches no sheet ID is tried as a name. When titles repeat, the later
column's ID is shown. Naming a column shows that column's metadata as the
API reports it.`,
		Example: `  leapsheet columns "Project Plan"
  leapsheet columns 1002 --types
  leapsheet columns Tasks Owner`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			client, sheetID, err := cmdCtx.ClientAndSheet(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				columnID, err := smartsheet.NewResolver(client).ColumnID(cmd.Context(), sheetID, args[1])
				if err != nil {
					return err
				}
				c, err := client.GetColumn(cmd.Context(), sheetID, columnID)
				if err != nil {
					return err
				}
				t := core.NewTable("name", "id", "index", "type", "primary")
				_ = t.Append([]core.Value{
					core.String(c.Title), idValue(c.ID), core.Number(float64(c.Index)),
					core.String(string(c.Type)), core.Bool(c.Primary),
				})
				return cmdCtx.Renderer.Table(t)
			}

			if withTypes {
				sheet, err := client.GetSheet(cmd.Context(), sheetID)
				if err != nil {
					return err
				}
				t := core.NewTable("name", "id", "type", "primary")
				for _, c := range sheet.Columns {
					_ = t.Append([]core.Value{core.String(c.Title), idValue(c.ID), core.String(string(c.Type)), core.Bool(c.Primary)})
				}
				return cmdCtx.Renderer.Table(t)
			}

			dict, err := smartsheet.NewResolver(client).ColumnDict(cmd.Context(), sheetID)
			if err != nil {
				return err
			}
			t := core.NewTable("name", "id")
			for _, name := range dict.Names() {
				id, _ := dict.ID(name)
				_ = t.Append([]core.Value{core.String(name), idValue(id)})
			}
			return cmdCtx.Renderer.Table(t)
		},
	}

	cmd.Flags().BoolVar(&withTypes, "types", false, "Show every column with its type")
	return cmd
}

// NewRowIDCommand creates the row-id command.
func NewRowIDCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "row-id <sheet> [row-number]",
		Short: "Translate a row number to a row ID",
		Long: `Print the ID of the row at a 1-based position, in the order the API
returns rows. With --all every row ID is listed.`,
		Example: `  leapsheet row-id Tasks 3
  leapsheet row-id Tasks --all`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 2) {
				return fmt.Errorf("give either a row number or --all")
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			client, sheetID, err := cmdCtx.ClientAndSheet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			resolver := smartsheet.NewResolver(client)

			t := core.NewTable("row_number", "id")
			if all {
				ids, err := resolver.RowIDs(cmd.Context(), sheetID)
				if err != nil {
					return err
				}
				for i, id := range ids {
					_ = t.Append([]core.Value{core.Number(float64(i + 1)), idValue(id)})
				}
				return cmdCtx.Renderer.Table(t)
			}

			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid row number %q", args[1])
			}
			id, err := resolver.RowID(cmd.Context(), sheetID, n)
			if err != nil {
				return err
			}
			_ = t.Append([]core.Value{core.Number(float64(n)), idValue(id)})
			return cmdCtx.Renderer.Table(t)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every row ID")
	return cmd
}

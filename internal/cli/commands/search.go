package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var (
		exact  bool
		all    bool
		scopes []string
	)

	cmd := &cobra.Command{
		Use:   "search [sheet] <text>",
		Short: "Search a sheet or every sheet",
		Long: `Search one sheet for text and list the matching objects.

With --all every sheet the token can access is searched and no sheet is
given. --scope narrows an account-wide search to object kinds such as
cellData, sheetNames or comments.`,
		Example: `  leapsheet search Tasks Amy
  leapsheet search 1001 "design review" --exact
  leapsheet search --all Amy --scope cellData`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.MinimumNArgs(1)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(scopes) > 0 && !all {
				return fmt.Errorf("--scope requires --all")
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var res *smartsheet.SearchResult
			if all {
				client, err := cmdCtx.Client()
				if err != nil {
					return err
				}
				res, err = client.SearchAll(ctx, searchText(args, exact), scopes...)
				if err != nil {
					return err
				}
			} else {
				client, sheetID, err := cmdCtx.ClientAndSheet(ctx, args[0])
				if err != nil {
					return err
				}
				res, err = client.SearchSheet(ctx, sheetID, searchText(args[1:], exact))
				if err != nil {
					return err
				}
			}

			names := []string{"object_type", "object_id", "text", "context"}
			if all {
				names = append(names, "sheet")
			}
			t := core.NewTable(names...)
			for _, hit := range res.Results {
				row := []core.Value{
					core.String(hit.ObjectType),
					idValue(hit.ObjectID),
					core.String(hit.Text),
					core.String(strings.Join(hit.ContextData, "; ")),
				}
				if all {
					row = append(row, core.String(hit.ParentObjectName))
				}
				_ = t.Append(row)
			}
			return cmdCtx.Renderer.Table(t)
		},
	}

	cmd.Flags().BoolVar(&exact, "exact", false, "Match the text as an exact phrase")
	cmd.Flags().BoolVar(&all, "all", false, "Search every accessible sheet")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Limit an account-wide search to these object kinds")
	return cmd
}

func searchText(args []string, exact bool) string {
	text := strings.Join(args, " ")
	if exact {
		text = `"` + strings.Trim(text, `"`) + `"`
	}
	return text
}

package bridge

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// HistorySource reads sheets and cell histories. *smartsheet.Client
// implements it.
type HistorySource interface {
	smartsheet.SheetFetcher
	CellHistory(ctx context.Context, sheetID, rowID, columnID int64) ([]smartsheet.CellHistoryEntry, error)
}

// ColumnHistoryTable collects the history of one column across every row
// of a sheet. Rows keep the sheet order and each row's entries stay newest
// first. A row whose history the API reports as not found contributes no
// entries. Row IDs are strings so they survive formats without 64-bit
// integers.
func ColumnHistoryTable(ctx context.Context, src HistorySource, sheetID int64, column string) (*core.Table, error) {
	resolver := smartsheet.NewResolver(src)
	columnID, err := resolver.ColumnID(ctx, sheetID, column)
	if err != nil {
		return nil, err
	}
	rowIDs, err := resolver.RowIDs(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	t := core.NewTable("row_number", "row_id", "modified_at", "modified_by", "modified_by_email",
		"value", "display_value", "column_type")
	for i, rowID := range rowIDs {
		entries, err := src.CellHistory(ctx, sheetID, rowID, columnID)
		if err != nil {
			var nf *smartsheet.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, fmt.Errorf("history of row %d: %w", i+1, err)
		}

		for _, e := range entries {
			modifiedAt := core.Null()
			if !e.ModifiedAt.IsZero() {
				modifiedAt = core.Date(e.ModifiedAt)
			}
			display := core.Null()
			if e.DisplayValue != "" {
				display = core.String(e.DisplayValue)
			}
			t.Rows = append(t.Rows, []core.Value{
				core.Number(float64(i + 1)),
				core.String(strconv.FormatInt(rowID, 10)),
				modifiedAt,
				core.String(e.ModifiedBy.Name),
				core.String(e.ModifiedBy.Email),
				e.Value,
				display,
				core.String(string(e.ColumnType)),
			})
		}
	}

	inferKinds(t)
	return t, nil
}

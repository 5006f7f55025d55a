// Package bridge moves sheet data between the flattened record form, an
// in-memory column-ordered table and a relational database reached
// through a pkg/adapter Adapter.
//
// The adapter is the engine: callers create it with CreateEngine, pass it
// to every function here and close it when done.
package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/flatten"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// TableFromFlat converts records to a table with the same row and column
// order. Each column's kind is the single non-null kind among its values,
// String when kinds are mixed and Null when every value is null. Values
// are copied as they are.
func TableFromFlat(ft *core.FlatTable) *core.Table {
	t := core.NewTable(ft.Columns...)
	t.Rows = make([][]core.Value, len(ft.Records))

	for i, rec := range ft.Records {
		row := make([]core.Value, len(ft.Columns))
		for j, name := range ft.Columns {
			row[j] = rec[name]
		}
		t.Rows[i] = row
	}

	inferKinds(t)
	return t
}

// SheetToTable fetches a sheet, flattens it and converts it to a table.
func SheetToTable(ctx context.Context, f smartsheet.SheetFetcher, sheetID int64, opts flatten.Options) (*core.Table, error) {
	sheet, err := f.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	ft, err := flatten.FlattenWith(sheet, opts)
	if err != nil {
		return nil, err
	}
	return TableFromFlat(ft), nil
}

// CreateEngine opens a connection to the database described by cfg using
// the adapter registered for cfg.Type. The caller must Close it.
func CreateEngine(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (adapter.Adapter, error) {
	a, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return a, nil
}

// ColumnTypes returns the columns of an existing table with their SQL types.
func ColumnTypes(ctx context.Context, a adapter.Adapter, table string) ([]core.Column, error) {
	meta, err := a.GetTableMetadata(ctx, table)
	if err != nil {
		return nil, err
	}
	return meta.Columns, nil
}

// inferKinds sets every column's kind from the values it holds.
func inferKinds(t *core.Table) {
	column := make([]core.Value, len(t.Rows))
	for j := range t.Columns {
		for i, row := range t.Rows {
			column[i] = row[j]
		}
		t.Columns[j].Kind = core.InferKind(column)
	}
}

// cloneTable copies t deeply enough that casting the copy leaves t intact.
func cloneTable(t *core.Table) *core.Table {
	c := &core.Table{
		Columns: append([]core.TableColumn(nil), t.Columns...),
		Rows:    make([][]core.Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]core.Value(nil), row...)
	}
	return c
}

package smartsheet

import (
	"context"
)

// SheetFetcher fetches a full sheet by ID. *Client implements it.
type SheetFetcher interface {
	GetSheet(ctx context.Context, sheetID int64) (*Sheet, error)
}

// ColumnDict maps column display names to column IDs in column order.
// When titles repeat, the later column's ID wins and the name keeps the
// position of its first occurrence.
type ColumnDict struct {
	names []string
	ids   map[string]int64
}

// BuildColumnDict builds the name to ID mapping for columns.
func BuildColumnDict(columns []Column) *ColumnDict {
	d := &ColumnDict{ids: make(map[string]int64, len(columns))}
	for _, col := range columns {
		if _, seen := d.ids[col.Title]; !seen {
			d.names = append(d.names, col.Title)
		}
		d.ids[col.Title] = col.ID
	}
	return d
}

// Names returns the distinct column names in order.
func (d *ColumnDict) Names() []string {
	return append([]string(nil), d.names...)
}

// ID returns the column ID for name.
func (d *ColumnDict) ID(name string) (int64, bool) {
	id, ok := d.ids[name]
	return id, ok
}

// IDs returns the IDs in name order.
func (d *ColumnDict) IDs() []int64 {
	ids := make([]int64, len(d.names))
	for i, n := range d.names {
		ids[i] = d.ids[n]
	}
	return ids
}

// Len returns the number of distinct names.
func (d *ColumnDict) Len() int {
	return len(d.names)
}

// Map returns a copy of the mapping.
func (d *ColumnDict) Map() map[string]int64 {
	m := make(map[string]int64, len(d.ids))
	for k, v := range d.ids {
		m[k] = v
	}
	return m
}

// Resolver turns human-meaningful identifiers into API IDs. Each call
// fetches the sheet afresh.
type Resolver struct {
	fetcher SheetFetcher
}

// NewResolver creates a resolver reading sheets through f.
func NewResolver(f SheetFetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// ColumnDict returns the column name to ID mapping of a sheet.
func (r *Resolver) ColumnDict(ctx context.Context, sheetID int64) (*ColumnDict, error) {
	sheet, err := r.fetcher.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return BuildColumnDict(sheet.Columns), nil
}

// ColumnID returns the ID of the named column.
func (r *Resolver) ColumnID(ctx context.Context, sheetID int64, name string) (int64, error) {
	dict, err := r.ColumnDict(ctx, sheetID)
	if err != nil {
		return 0, err
	}
	id, ok := dict.ID(name)
	if !ok {
		return 0, &KeyNotFoundError{Kind: "column", Key: name}
	}
	return id, nil
}

// RowID returns the ID of the row at 1-based position n in the order the
// API returns rows.
func (r *Resolver) RowID(ctx context.Context, sheetID int64, n int) (int64, error) {
	sheet, err := r.fetcher.GetSheet(ctx, sheetID)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > len(sheet.Rows) {
		return 0, &IndexOutOfRangeError{Index: n, Len: len(sheet.Rows)}
	}
	return sheet.Rows[n-1].ID, nil
}

// RowIDs returns every row ID in order.
func (r *Resolver) RowIDs(ctx context.Context, sheetID int64) ([]int64, error) {
	sheet, err := r.fetcher.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(sheet.Rows))
	for i, row := range sheet.Rows {
		ids[i] = row.ID
	}
	return ids, nil
}

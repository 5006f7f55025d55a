package core

import "fmt"

// Record maps a column name to its value for one row.
type Record map[string]Value

// FlatTable is a sheet flattened to an ordered sequence of records.
// Every record holds a key for every name in Columns.
type FlatTable struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (f *FlatTable) Len() int {
	return len(f.Records)
}

// TableColumn describes one column of a Table.
type TableColumn struct {
	Name string
	Kind Kind
}

// Table is a row-major, column-ordered table of values.
type Table struct {
	Columns []TableColumn
	Rows    [][]Value
}

// NewTable creates an empty table with the given column names, all of KindNull.
func NewTable(names ...string) *Table {
	cols := make([]TableColumn, len(names))
	for i, n := range names {
		cols[i] = TableColumn{Name: n}
	}
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Append adds a row. The row must have one value per column.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Records returns the rows as name-keyed records.
func (t *Table) Records() []Record {
	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		r := make(Record, len(t.Columns))
		for j, c := range t.Columns {
			r[c.Name] = row[j]
		}
		records[i] = r
	}
	return records
}

// Cast converts every value of the named column to kind k and records k as
// the column kind. Rows converted before a failure keep their new values.
func (t *Table) Cast(name string, k Kind) error {
	ix := t.ColumnIndex(name)
	if ix < 0 {
		return fmt.Errorf("column %q not found", name)
	}

	for i, row := range t.Rows {
		v, err := row[ix].Convert(k)
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}
		row[ix] = v
	}
	t.Columns[ix].Kind = k

	return nil
}

// InferKind returns the single non-null kind among values, KindString if the
// values are of mixed kinds, or KindNull if every value is null.
func InferKind(values []Value) Kind {
	kind := KindNull
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if kind == KindNull {
			kind = v.Kind()
		} else if kind != v.Kind() {
			return KindString
		}
	}
	return kind
}

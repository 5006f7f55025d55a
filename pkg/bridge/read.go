package bridge

import (
	"context"

	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/core"
)

// ReadTable runs query and collects the result into a table. Column kinds
// are inferred from the values read. Any failure is a *QueryError.
func ReadTable(ctx context.Context, a adapter.Adapter, query string) (*core.Table, error) {
	rows, err := a.Query(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	t := core.NewTable(cols...)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Query: query, Err: err}
		}

		row := make([]core.Value, len(cols))
		for i, v := range values {
			row[i] = core.FromDriver(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	inferKinds(t)
	return t, nil
}

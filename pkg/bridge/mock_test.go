package bridge

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
	"github.com/stretchr/testify/require"
)

var mockDialect = dialect.NewDialect("mock").
	DefaultSchema("public").
	PlaceholderStyle(dialect.PlaceholderDollar).
	Build()

// mockAdapter runs statements against sqlmock and answers table lookups
// from its fields.
type mockAdapter struct {
	adapter.BaseSQLAdapter
	dialect *dialect.Dialect
	exists  bool
	meta    *core.TableMetadata
}

func newMockAdapter(t *testing.T, d *dialect.Dialect) (*mockAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if d == nil {
		d = mockDialect
	}
	return &mockAdapter{BaseSQLAdapter: adapter.BaseSQLAdapter{DB: db}, dialect: d}, mock
}

func (m *mockAdapter) Connect(context.Context, adapter.Config) error { return nil }

func (m *mockAdapter) Dialect() *dialect.Dialect { return m.dialect }

func (m *mockAdapter) TableExists(context.Context, string) (bool, error) { return m.exists, nil }

func (m *mockAdapter) GetTableMetadata(_ context.Context, table string) (*core.TableMetadata, error) {
	if m.meta == nil {
		return nil, fmt.Errorf("%s: %w", table, adapter.ErrTableNotFound)
	}
	return m.meta, nil
}

var _ adapter.Adapter = (*mockAdapter)(nil)

// numberTable builds a one-column table "n" holding 1..rows.
func numberTable(rows int) *core.Table {
	t := core.NewTable("n")
	t.Columns[0].Kind = core.KindNumber
	for i := 1; i <= rows; i++ {
		t.Rows = append(t.Rows, []core.Value{core.Number(float64(i))})
	}
	return t
}

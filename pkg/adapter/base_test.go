package adapter

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDialect = dialect.NewDialect("test").
	DefaultSchema("public").
	PlaceholderStyle(dialect.PlaceholderDollar).
	Build()

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		args      []any
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE tasks").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE tasks (id INT)",
		},
		{
			name:    "exec with args",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tasks VALUES ($1, $2)`)).
					WithArgs("Open", "Amy").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			sql:  "INSERT INTO tasks VALUES ($1, $2)",
			args: []any{"Open", "Amy"},
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(ctx, tt.sql, tt.args...)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	t.Run("without connection", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		rows, err := base.Query(context.Background(), "SELECT 1")
		require.ErrorIs(t, err, ErrNotConnected)
		assert.Nil(t, rows)
	})

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT").WillReturnRows(
			sqlmock.NewRows([]string{"status", "owner"}).
				AddRow("Open", "Amy").
				AddRow("Closed", nil),
		)

		base := &BaseSQLAdapter{DB: db}
		rows, err := base.Query(context.Background(), "SELECT status, owner FROM tasks")
		require.NoError(t, err)
		defer func() { _ = rows.Close() }()

		n := 0
		for rows.Next() {
			n++
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, 2, n)
	})

	t.Run("driver error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)

		base := &BaseSQLAdapter{DB: db}
		rows, err := base.Query(context.Background(), "INVALID SQL")
		require.Error(t, err)
		assert.Nil(t, rows)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestBaseSQLAdapter_BeginTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	base := &BaseSQLAdapter{DB: db}
	tx, err := base.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = (&BaseSQLAdapter{}).BeginTx(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBaseSQLAdapter_ParseQualifiedName(t *testing.T) {
	tests := []struct {
		name       string
		cfgSchema  string
		table      string
		wantSchema string
		wantName   string
	}{
		{"dialect default", "", "tasks", "public", "tasks"},
		{"configured schema", "ops", "tasks", "ops", "tasks"},
		{"qualified wins", "ops", "archive.tasks", "archive", "tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{Cfg: Config{Schema: tt.cfgSchema}}
			schema, name := base.ParseQualifiedName(tt.table, testDialect)
			assert.Equal(t, tt.wantSchema, schema)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestBaseSQLAdapter_TableExistsCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("information_schema.tables").
		WithArgs("public", "tasks").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("information_schema.tables").
		WithArgs("public", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	base := &BaseSQLAdapter{DB: db}
	ok, err := base.TableExistsCommon(context.Background(), "tasks", testDialect)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = base.TableExistsCommon(context.Background(), "missing", testDialect)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_GetTableMetadataCommon(t *testing.T) {
	t.Run("columns and row count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("information_schema.columns").
			WithArgs("public", "tasks").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
				AddRow("Status", "text", "YES", 1).
				AddRow("Estimate", "double precision", "NO", 2))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "public"."tasks"`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		base := &BaseSQLAdapter{DB: db}
		meta, err := base.GetTableMetadataCommon(context.Background(), "tasks", testDialect)
		require.NoError(t, err)

		assert.Equal(t, "public", meta.Schema)
		assert.Equal(t, "tasks", meta.Name)
		assert.Equal(t, int64(7), meta.RowCount)
		require.Len(t, meta.Columns, 2)
		assert.True(t, meta.Columns[0].Nullable)
		assert.False(t, meta.Columns[1].Nullable)
		assert.Equal(t, map[string]string{"Status": "text", "Estimate": "double precision"}, meta.ColumnTypes())
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("information_schema.columns").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

		base := &BaseSQLAdapter{DB: db}
		_, err = base.GetTableMetadataCommon(context.Background(), "missing", testDialect)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	base := &BaseSQLAdapter{}
	assert.False(t, base.IsConnected())

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	base.DB = db
	assert.True(t, base.IsConnected())
}

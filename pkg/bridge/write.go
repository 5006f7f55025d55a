package bridge

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// IfExists selects what WriteTable does when the target table exists.
type IfExists string

const (
	// IfExistsFail refuses to write into an existing table.
	IfExistsFail IfExists = "fail"
	// IfExistsReplace drops the table and creates it again.
	IfExistsReplace IfExists = "replace"
	// IfExistsAppend inserts into the existing table.
	IfExistsAppend IfExists = "append"
)

// ParseIfExists validates an IfExists mode. The empty string is fail.
func ParseIfExists(s string) (IfExists, error) {
	switch m := IfExists(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return IfExistsFail, nil
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
		return m, nil
	default:
		return "", fmt.Errorf("invalid if-exists mode %q (valid: fail, replace, append)", s)
	}
}

// WriteOptions controls WriteTable.
type WriteOptions struct {
	// IfExists defaults to IfExistsFail.
	IfExists IfExists

	// RetrieveTypes reads the column types of an existing table and recasts
	// the data to match before appending. Ignored when replacing.
	RetrieveTypes bool

	// TypeOverride maps column names to SQL types. An override is used in
	// CREATE TABLE and the column's values are recast to its kind. It takes
	// precedence over retrieved types.
	TypeOverride map[string]string

	// ChunkSize is the number of rows per INSERT. Zero puts every row in one
	// batch. The size is lowered further to fit the dialect's limits.
	ChunkSize int

	// Atomic runs every batch in a single transaction. Otherwise each batch
	// commits on its own and a failure leaves earlier batches in place.
	Atomic bool

	Logger *slog.Logger
}

// WriteResult describes a completed write.
type WriteResult struct {
	WriteID string
	Table   string
	Rows    int
	Batches int
	Created bool
}

// WriteTable inserts the rows of t into table.
//
// A missing table is created with the dialect's type for each column kind.
// Rows are sent as multi-row parameterised INSERT statements. When a batch
// fails the returned *WriteError reports how many rows were committed.
func WriteTable(ctx context.Context, a adapter.Adapter, t *core.Table, table string, opts WriteOptions) (*WriteResult, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, fmt.Errorf("write %s: table has no columns", table)
	}

	mode, err := ParseIfExists(string(opts.IfExists))
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := &WriteResult{WriteID: uuid.NewString(), Table: table, Rows: len(t.Rows)}
	logger = logger.With(slog.String("write_id", res.WriteID), slog.String("table", table))

	d := a.Dialect()

	exists, err := a.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if exists && mode == IfExistsFail {
		return nil, fmt.Errorf("write %s: %w", table, ErrTableExists)
	}

	data := cloneTable(t)

	sqlTypes := make(map[string]string)
	if exists && mode == IfExistsAppend && opts.RetrieveTypes {
		cols, err := ColumnTypes(ctx, a, table)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			if data.ColumnIndex(c.Name) >= 0 {
				sqlTypes[c.Name] = c.Type
			}
		}
		logger.Debug("retrieved column types", slog.Int("columns", len(sqlTypes)))
	}
	for name, typ := range opts.TypeOverride {
		if data.ColumnIndex(name) < 0 {
			return nil, fmt.Errorf("write %s: type override for unknown column %q", table, name)
		}
		sqlTypes[name] = typ
	}

	if err := castColumns(data, sqlTypes); err != nil {
		return nil, fmt.Errorf("write %s: %w", table, err)
	}

	if exists && mode == IfExistsReplace {
		if err := a.Exec(ctx, "DROP TABLE "+d.QualifiedName(table)); err != nil {
			return nil, fmt.Errorf("write %s: drop: %w", table, err)
		}
		exists = false
	}
	if !exists {
		if err := a.Exec(ctx, createStatement(d, table, data, sqlTypes)); err != nil {
			return nil, fmt.Errorf("write %s: create: %w", table, err)
		}
		res.Created = true
	}

	if len(data.Rows) == 0 {
		return res, nil
	}

	size := batchSize(d, len(data.Columns), len(data.Rows), opts.ChunkSize)
	res.Batches = (len(data.Rows) + size - 1) / size

	logger.Info("writing table",
		slog.Int("rows", res.Rows),
		slog.Int("batches", res.Batches),
		slog.Bool("atomic", opts.Atomic))

	start := time.Now()
	if opts.Atomic {
		err = writeAtomic(ctx, a, d, table, data, size, res, logger)
	} else {
		err = writeBatches(ctx, a, d, table, data, size, res, logger)
	}
	if err != nil {
		logger.Warn("write failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("table written", slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// writeBatches commits each batch in its own transaction.
func writeBatches(ctx context.Context, a adapter.Adapter, d *dialect.Dialect, table string, data *core.Table, size int, res *WriteResult, logger *slog.Logger) error {
	committed := 0
	for b := range res.Batches {
		lo, hi := b*size, min((b+1)*size, len(data.Rows))
		werr := &WriteError{Table: table, Batch: b + 1, Batches: res.Batches, RowsCommitted: committed}

		tx, err := a.BeginTx(ctx)
		if err != nil {
			werr.Err = err
			return werr
		}
		if err := insertBatch(ctx, tx, d, table, data, lo, hi); err != nil {
			_ = tx.Rollback()
			werr.Err = err
			return werr
		}
		if err := tx.Commit(); err != nil {
			werr.Err = err
			return werr
		}

		committed += hi - lo
		logger.Debug("batch committed", slog.Int("batch", b+1), slog.Int("rows", hi-lo))
	}
	return nil
}

// writeAtomic runs every batch in one transaction.
func writeAtomic(ctx context.Context, a adapter.Adapter, d *dialect.Dialect, table string, data *core.Table, size int, res *WriteResult, logger *slog.Logger) error {
	tx, err := a.BeginTx(ctx)
	if err != nil {
		return &WriteError{Table: table, Batch: 1, Batches: res.Batches, Err: err}
	}

	for b := range res.Batches {
		lo, hi := b*size, min((b+1)*size, len(data.Rows))
		if err := insertBatch(ctx, tx, d, table, data, lo, hi); err != nil {
			_ = tx.Rollback()
			return &WriteError{Table: table, Batch: b + 1, Batches: res.Batches, Err: err}
		}
		logger.Debug("batch inserted", slog.Int("batch", b+1), slog.Int("rows", hi-lo))
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Table: table, Batch: res.Batches, Batches: res.Batches, Err: err}
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, d *dialect.Dialect, table string, data *core.Table, lo, hi int) error {
	stmt := insertStatement(d, table, data.Names(), hi-lo)
	args := make([]any, 0, (hi-lo)*len(data.Columns))
	for _, row := range data.Rows[lo:hi] {
		for _, v := range row {
			args = append(args, v.Interface())
		}
	}
	_, err := tx.ExecContext(ctx, stmt, args...)
	return err
}

// castColumns converts each column to the kind of its SQL type when one is
// given, otherwise to its own inferred kind so mixed columns become text.
func castColumns(t *core.Table, sqlTypes map[string]string) error {
	for _, col := range t.Columns {
		kind := col.Kind
		if typ, ok := sqlTypes[col.Name]; ok {
			kind = dialect.KindOf(typ)
		}
		if kind == core.KindNull {
			continue
		}
		if err := t.Cast(col.Name, kind); err != nil {
			return err
		}
	}
	return nil
}

// batchSize returns the rows per INSERT for the requested chunk size,
// bounded by the dialect's parameter and row limits.
func batchSize(d *dialect.Dialect, ncols, nrows, chunk int) int {
	size := chunk
	if size <= 0 || size > nrows {
		size = nrows
	}
	if d.MaxParams > 0 && ncols > 0 {
		size = min(size, d.MaxParams/ncols)
	}
	if d.MaxRows > 0 {
		size = min(size, d.MaxRows)
	}
	return max(size, 1)
}

func createStatement(d *dialect.Dialect, table string, t *core.Table, sqlTypes map[string]string) string {
	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		typ, ok := sqlTypes[col.Name]
		if !ok {
			typ = d.TypeFor(col.Kind)
		}
		defs[i] = d.QuoteIdentifier(col.Name) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QualifiedName(table), strings.Join(defs, ", "))
}

func insertStatement(d *dialect.Dialect, table string, names []string, nrows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QualifiedName(table))
	sb.WriteString(" (")
	for i, n := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdentifier(n))
	}
	sb.WriteString(") VALUES ")

	p := 1
	for r := range nrows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := range names {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.FormatPlaceholder(p))
			p++
		}
		sb.WriteString(")")
	}
	return sb.String()
}

package bridge

import (
	"errors"
	"fmt"
)

// ErrTableExists is returned by WriteTable when the target table exists
// and IfExists is fail.
var ErrTableExists = errors.New("table already exists")

// QueryError is returned when a read query fails. The driver's message is
// kept in Err.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// WriteError is returned when inserting a batch fails. Batches before
// Batch were committed and stay in the table unless the write was atomic.
type WriteError struct {
	Table         string
	Batch         int // 1-based
	Batches       int
	RowsCommitted int
	Err           error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: batch %d of %d failed (%d rows committed): %v",
		e.Table, e.Batch, e.Batches, e.RowsCommitted, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

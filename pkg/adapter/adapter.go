// Package adapter defines the database contract used by the tabular bridge
// and a registry of the concrete adapters under pkg/adapters.
//
// Concrete adapters register themselves from init(); import them with a
// blank identifier to make them available to NewAdapter.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// Shorthands for the connection types defined in pkg/core.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// An Adapter is the "engine" handed to every bridge function; the caller
// creates it, passes it explicitly and closes it.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows (e.g., INSERT, CREATE).
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a statement that returns rows. The caller closes the rows.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// GetTableMetadata retrieves column metadata for a table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// TableExists reports whether a table is present.
	TableExists(ctx context.Context, table string) (bool, error)

	// BeginTx starts a transaction on the underlying connection.
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Dialect returns the SQL dialect used to quote names, format
	// placeholders and choose column types.
	Dialect() *dialect.Dialect
}

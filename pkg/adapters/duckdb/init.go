// Package duckdb provides a DuckDB database adapter for leapsheet.
//
// This file registers the DuckDB adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapsheet/pkg/adapters/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

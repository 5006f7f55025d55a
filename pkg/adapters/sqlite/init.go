// Package sqlite provides a SQLite database adapter for leapsheet.
//
// This file registers the SQLite adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapsheet/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.RegisterAlias("sqlite3", "sqlite")
}

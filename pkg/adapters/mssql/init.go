// Package mssql provides a Microsoft SQL Server database adapter for leapsheet.
//
// This file registers the SQL Server adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapsheet/pkg/adapters/mssql"
package mssql

import (
	"log/slog"

	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

func init() {
	dialect.Register(MSSQL)
	adapter.Register("mssql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.RegisterAlias("sqlserver", "mssql")
}

package duckdb

import (
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// DuckDB is the DuckDB dialect configuration.
var DuckDB = dialect.NewDialect("duckdb").
	DefaultSchema("main").
	PlaceholderStyle(dialect.PlaceholderQuestion).
	ColumnType(core.KindString, "VARCHAR").
	ColumnType(core.KindNumber, "DOUBLE").
	ColumnType(core.KindBoolean, "BOOLEAN").
	ColumnType(core.KindDate, "TIMESTAMP").
	Build()

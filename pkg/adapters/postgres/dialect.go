package postgres

import (
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// Postgres is the PostgreSQL dialect configuration.
var Postgres = dialect.NewDialect("postgres").
	DefaultSchema("public").
	PlaceholderStyle(dialect.PlaceholderDollar).
	MaxParams(65535).
	ColumnType(core.KindString, "TEXT").
	ColumnType(core.KindNumber, "DOUBLE PRECISION").
	ColumnType(core.KindBoolean, "BOOLEAN").
	ColumnType(core.KindDate, "TIMESTAMP").
	Build()

package mssql

import (
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// MSSQL is the SQL Server dialect configuration. A statement may carry at
// most 2100 parameters and a VALUES list at most 1000 rows.
var MSSQL = dialect.NewDialect("mssql").
	Identifiers("[", "]", "]]").
	DefaultSchema("dbo").
	PlaceholderStyle(dialect.PlaceholderAtP).
	MaxParams(2000).
	MaxRows(1000).
	ColumnType(core.KindString, "NVARCHAR(MAX)").
	ColumnType(core.KindNumber, "FLOAT").
	ColumnType(core.KindBoolean, "BIT").
	ColumnType(core.KindDate, "DATETIME2").
	Build()

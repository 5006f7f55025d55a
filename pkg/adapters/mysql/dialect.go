package mysql

import (
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// MySQL is the MySQL dialect configuration. It has no default schema; the
// adapter falls back to the connected database.
var MySQL = dialect.NewDialect("mysql").
	Identifiers("`", "`", "``").
	PlaceholderStyle(dialect.PlaceholderQuestion).
	MaxParams(65535).
	ColumnType(core.KindString, "TEXT").
	ColumnType(core.KindNumber, "DOUBLE").
	ColumnType(core.KindBoolean, "BOOLEAN").
	ColumnType(core.KindDate, "DATETIME").
	Build()

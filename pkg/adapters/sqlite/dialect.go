package sqlite

import (
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// SQLite is the SQLite dialect configuration. TIMESTAMP columns are read
// back by the driver as time.Time.
var SQLite = dialect.NewDialect("sqlite").
	DefaultSchema("main").
	PlaceholderStyle(dialect.PlaceholderQuestion).
	MaxParams(32766).
	ColumnType(core.KindString, "TEXT").
	ColumnType(core.KindNumber, "REAL").
	ColumnType(core.KindBoolean, "BOOLEAN").
	ColumnType(core.KindDate, "TIMESTAMP").
	Build()

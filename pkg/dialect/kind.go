package dialect

import (
	"strings"

	"github.com/leapstack-labs/leapsheet/pkg/core"
)

var numericTypes = map[string]struct{}{
	"int": {}, "integer": {}, "tinyint": {}, "smallint": {}, "mediumint": {}, "bigint": {},
	"hugeint": {}, "ubigint": {}, "uinteger": {}, "usmallint": {}, "utinyint": {},
	"int2": {}, "int4": {}, "int8": {}, "serial": {}, "bigserial": {}, "smallserial": {},
	"numeric": {}, "decimal": {}, "real": {}, "float": {}, "float4": {}, "float8": {},
	"double": {}, "double precision": {}, "money": {}, "smallmoney": {},
}

// KindOf maps a database column type name, as reported by
// information_schema or PRAGMA table_info, to the value kind it stores.
// Unknown types map to KindString.
func KindOf(sqlType string) core.Kind {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " unsigned")

	if _, ok := numericTypes[t]; ok {
		return core.KindNumber
	}

	switch {
	case t == "bit", strings.HasPrefix(t, "bool"):
		return core.KindBoolean
	case strings.HasPrefix(t, "date"),
		strings.HasPrefix(t, "time"),
		t == "smalldatetime":
		// date, datetime, datetime2, datetimeoffset, time, timestamp with time zone
		return core.KindDate
	default:
		return core.KindString
	}
}

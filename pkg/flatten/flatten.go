// Package flatten turns a nested Smartsheet sheet into a flat table of
// records keyed by column name, coercing each cell by its column type.
package flatten

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options controls flattening.
type Options struct {
	// ConvertHeaders lower-cases column names and replaces spaces with
	// underscores, so "Created Date" becomes "created_date".
	ConvertHeaders bool
}

// Flatten converts sheet into one record per row with the sheet's column
// titles as keys.
func Flatten(sheet *smartsheet.Sheet) (*core.FlatTable, error) {
	return FlattenWith(sheet, Options{})
}

// FlattenWith converts sheet using opts.
//
// Rows keep the API order and every record carries every column name, with
// Null for cells the row does not have. When titles repeat, the cell of
// whichever column comes last in the row wins the shared field. Cells bound
// to a column the sheet does not declare are ignored.
func FlattenWith(sheet *smartsheet.Sheet, opts Options) (*core.FlatTable, error) {
	if sheet == nil {
		return nil, fmt.Errorf("flatten: nil sheet")
	}

	header := HeaderFunc(opts)

	byID := make(map[int64]smartsheet.Column, len(sheet.Columns))
	names := make(map[int64]string, len(sheet.Columns))
	var columns []string
	seen := make(map[string]bool, len(sheet.Columns))
	for _, col := range sheet.Columns {
		name := header(col.Title)
		byID[col.ID] = col
		names[col.ID] = name
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	records := make([]core.Record, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := make(core.Record, len(columns))
		for _, name := range columns {
			rec[name] = core.Null()
		}
		for _, cell := range row.Cells {
			col, ok := byID[cell.ColumnID]
			if !ok {
				continue
			}
			rec[names[cell.ColumnID]] = Coerce(cell.Value, col.Type)
		}
		records = append(records, rec)
	}

	return &core.FlatTable{Columns: columns, Records: records}, nil
}

// HeaderFunc returns the column name mapping selected by opts.
func HeaderFunc(opts Options) func(string) string {
	if !opts.ConvertHeaders {
		return func(s string) string { return s }
	}
	return ConvertHeader
}

// ConvertHeader lower-cases a column title and replaces spaces with
// underscores.
func ConvertHeader(title string) string {
	return strings.ReplaceAll(cases.Lower(language.Und).String(title), " ", "_")
}

// numberText matches plain integer and decimal-point literals. Exponents,
// hex floats and Inf/NaN spellings stay text.
var numberText = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

const (
	dateLayout     = time.DateOnly
	dateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

// Coerce converts a raw cell value according to its column type. Values
// that do not fit the type are returned unchanged.
func Coerce(v core.Value, t smartsheet.ColumnType) core.Value {
	switch t {
	case smartsheet.TypeDate:
		return parseTime(v, dateLayout)

	case smartsheet.TypeDateTime, smartsheet.TypeAbstractDateTime:
		return parseTime(v, dateTimeLayout)

	case smartsheet.TypeTextNumber:
		s, ok := v.Str()
		if !ok {
			return v
		}
		s = strings.TrimSpace(s)
		if !numberText.MatchString(s) {
			return v
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v
		}
		return core.Number(n)

	case smartsheet.TypeCheckbox:
		if v.IsNull() {
			return core.Bool(false)
		}
		if s, ok := v.Str(); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return core.Bool(true)
			case "false":
				return core.Bool(false)
			}
		}
		return v

	default:
		return v
	}
}

func parseTime(v core.Value, layout string) core.Value {
	s, ok := v.Str()
	if !ok {
		return v
	}
	ts, err := time.Parse(layout, s)
	if err != nil {
		return v
	}
	return core.Date(ts)
}

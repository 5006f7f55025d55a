// Package dialect describes the SQL surface of each supported database:
// identifier quoting, bind placeholders, parameter limits and the column
// types used when a table is created from sheet data.
//
// Dialects are registered by the adapter packages in their init functions
// and looked up by name.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapsheet/pkg/core"
)

// PlaceholderStyle controls how bind parameters are written.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for every parameter (sqlite, mysql, duckdb).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, ... (postgres).
	PlaceholderDollar
	// PlaceholderAtP uses @p1, @p2, ... (sql server).
	PlaceholderAtP
)

// Identifiers configures identifier quoting.
type Identifiers struct {
	Quote    string // opening quote, e.g. " or [
	QuoteEnd string // closing quote, e.g. " or ]
	Escape   string // replacement for QuoteEnd inside a name, e.g. "" or ]]
}

// Dialect is the SQL surface of one database.
type Dialect struct {
	Name          string
	Identifiers   Identifiers
	DefaultSchema string
	Placeholder   PlaceholderStyle
	// MaxParams is the largest number of bind parameters one statement may
	// carry. Zero means no known limit.
	MaxParams int
	// MaxRows is the largest number of rows one VALUES list may carry.
	// Zero means no known limit.
	MaxRows int

	types map[core.Kind]string
}

// FormatPlaceholder returns the placeholder for the given parameter index (1-based).
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	default:
		return "?"
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QualifiedName quotes a table reference. A "schema.table" reference has
// each part quoted separately.
func (d *Dialect) QualifiedName(table string) string {
	schema, name := SplitQualified(table)
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}

// TypeFor returns the column type used to store values of kind k.
// Kinds without a mapping, including KindNull, use the text type.
func (d *Dialect) TypeFor(k core.Kind) string {
	if t, ok := d.types[k]; ok {
		return t
	}
	if t, ok := d.types[core.KindString]; ok {
		return t
	}
	return "TEXT"
}

// SplitQualified splits "schema.table" into its parts. A bare name returns
// an empty schema.
func SplitQualified(table string) (schema, name string) {
	if i := strings.Index(table, "."); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// The defaults are ANSI double-quote identifiers, ? placeholders and
// TEXT/DOUBLE PRECISION/BOOLEAN/TIMESTAMP column types.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: Identifiers{
				Quote:    `"`,
				QuoteEnd: `"`,
				Escape:   `""`,
			},
			types: map[core.Kind]string{
				core.KindString:  "TEXT",
				core.KindNumber:  "DOUBLE PRECISION",
				core.KindBoolean: "BOOLEAN",
				core.KindDate:    "TIMESTAMP",
			},
		},
	}
}

// Identifiers configures identifier quoting.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.dialect.Identifiers = Identifiers{
		Quote:    quote,
		QuoteEnd: quoteEnd,
		Escape:   escape,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// MaxParams sets the bind parameter limit per statement.
func (b *Builder) MaxParams(n int) *Builder {
	b.dialect.MaxParams = n
	return b
}

// MaxRows sets the row limit of a single VALUES list.
func (b *Builder) MaxRows(n int) *Builder {
	b.dialect.MaxRows = n
	return b
}

// ColumnType sets the column type used for values of kind k.
func (b *Builder) ColumnType(k core.Kind, sqlType string) *Builder {
	b.dialect.types[k] = sqlType
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}

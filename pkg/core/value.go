package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is an absent value.
	KindNull Kind = iota
	// KindString is free text.
	KindString
	// KindNumber is a numeric value, stored as float64.
	KindNumber
	// KindBoolean is a true/false value.
	KindBoolean
	// KindDate is a date or timestamp.
	KindDate
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged cell value: Null, String, Number, Boolean or Date.
// The zero Value is Null.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v is a String.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Num returns the numeric payload and whether v is a Number.
func (v Value) Num() (float64, bool) { return v.n, v.kind == KindNumber }

// Boolean returns the boolean payload and whether v is a Boolean.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBoolean }

// Time returns the date payload and whether v is a Date.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDate }

// Interface returns v as a plain Go value suitable for database/sql arguments.
// Whole numbers are returned as int64.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		if isWhole(v.n) {
			return int64(v.n)
		}
		return v.n
	case KindBoolean:
		return v.b
	case KindDate:
		return v.t
	default:
		return nil
	}
}

// String renders v for display. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format(time.DateOnly)
		}
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindNumber:
		return v.n == o.n
	case KindBoolean:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// MarshalJSON encodes v as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindDate:
		return json.Marshal(v.String())
	default:
		return json.Marshal(v.Interface())
	}
}

// MarshalYAML encodes v as its natural YAML form.
func (v Value) MarshalYAML() (any, error) {
	if v.kind == KindDate {
		return v.String(), nil
	}
	return v.Interface(), nil
}

// dateLayouts are tried in order when converting strings to dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// ParseDate parses s using the layouts the Smartsheet API and common SQL drivers emit.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Convert recasts v to kind k on a best-effort basis.
// Null converts to Null for every kind.
func (v Value) Convert(k Kind) (Value, error) {
	if v.kind == k || v.kind == KindNull {
		return v, nil
	}

	switch k {
	case KindNull:
		return Null(), nil

	case KindString:
		return String(v.String()), nil

	case KindNumber:
		switch v.kind {
		case KindString:
			s := strings.TrimSpace(v.s)
			if s == "" {
				return Null(), nil
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return v, fmt.Errorf("cannot convert %q to number", v.s)
			}
			return Number(n), nil
		case KindBoolean:
			if v.b {
				return Number(1), nil
			}
			return Number(0), nil
		case KindDate:
			return Number(float64(v.t.Unix())), nil
		}

	case KindBoolean:
		switch v.kind {
		case KindString:
			b, err := strconv.ParseBool(strings.TrimSpace(v.s))
			if err != nil {
				return v, fmt.Errorf("cannot convert %q to boolean", v.s)
			}
			return Bool(b), nil
		case KindNumber:
			return Bool(v.n != 0), nil
		}

	case KindDate:
		switch v.kind {
		case KindString:
			if strings.TrimSpace(v.s) == "" {
				return Null(), nil
			}
			t, err := ParseDate(v.s)
			if err != nil {
				return v, err
			}
			return Date(t), nil
		case KindNumber:
			return Date(time.Unix(int64(v.n), 0).UTC()), nil
		}
	}

	return v, fmt.Errorf("cannot convert %s to %s", v.kind, k)
}

// FromDriver maps a value scanned from database/sql into a Value.
// Unknown driver types are rendered with fmt and returned as String.
func FromDriver(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case time.Time:
		return Date(t)
	case fmt.Stringer:
		return String(t.String())
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

func isWhole(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1<<53
}

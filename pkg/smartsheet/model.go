package smartsheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapsheet/pkg/core"
)

// ColumnType is the Smartsheet column type name.
type ColumnType string

// Column types returned by the API.
const (
	TypeTextNumber       ColumnType = "TEXT_NUMBER"
	TypeDate             ColumnType = "DATE"
	TypeDateTime         ColumnType = "DATETIME"
	TypeAbstractDateTime ColumnType = "ABSTRACT_DATETIME"
	TypeCheckbox         ColumnType = "CHECKBOX"
	TypePicklist         ColumnType = "PICKLIST"
	TypeMultiPicklist    ColumnType = "MULTI_PICKLIST"
	TypeContactList      ColumnType = "CONTACT_LIST"
	TypeMultiContactList ColumnType = "MULTI_CONTACT_LIST"
	TypeDuration         ColumnType = "DURATION"
	TypePredecessor      ColumnType = "PREDECESSOR"
	TypeAutoNumber       ColumnType = "AUTO_NUMBER"
)

// Sheet is a full sheet as returned by GET /sheets/{id}.
type Sheet struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Permalink     string   `json:"permalink,omitempty"`
	Version       int      `json:"version,omitempty"`
	TotalRowCount int      `json:"totalRowCount,omitempty"`
	Columns       []Column `json:"columns"`
	Rows          []Row    `json:"rows"`
}

// SheetSummary is one entry of the sheet listing.
type SheetSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	AccessLevel string    `json:"accessLevel,omitempty"`
	Permalink   string    `json:"permalink,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	ModifiedAt  time.Time `json:"modifiedAt,omitempty"`
}

// Column is a sheet column. Titles are display names and need not be unique.
type Column struct {
	ID      int64      `json:"id"`
	Index   int        `json:"index"`
	Title   string     `json:"title"`
	Type    ColumnType `json:"type"`
	Primary bool       `json:"primary,omitempty"`
}

// Row is a sheet row. RowNumber is 1-based and assigned by the API.
type Row struct {
	ID        int64  `json:"id"`
	SheetID   int64  `json:"sheetId,omitempty"`
	RowNumber int    `json:"rowNumber"`
	ParentID  int64  `json:"parentId,omitempty"`
	Cells     []Cell `json:"cells"`
}

// Cell is one cell of a row, bound to a column by ID.
type Cell struct {
	ColumnID     int64
	Value        core.Value
	DisplayValue string
}

type cellJSON struct {
	ColumnID     int64           `json:"columnId"`
	Value        json.RawMessage `json:"value"`
	DisplayValue string          `json:"displayValue,omitempty"`
}

// UnmarshalJSON decodes a cell, mapping its value to a core.Value.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var raw cellJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := DecodeValue(raw.Value)
	if err != nil {
		return fmt.Errorf("cell in column %d: %w", raw.ColumnID, err)
	}
	c.ColumnID = raw.ColumnID
	c.Value = v
	c.DisplayValue = raw.DisplayValue
	return nil
}

// DecodeValue maps a raw JSON cell value to a core.Value. Absent and null
// values are Null. Objects and arrays, which the API returns for some
// column types, pass through as a String holding the compact JSON text.
// Numbers outside the float64 range keep their literal text as a String.
func DecodeValue(raw json.RawMessage) (core.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return core.Null(), nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return core.Null(), err
		}
		return core.String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return core.Null(), err
		}
		return core.Bool(b), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return core.Null(), err
		}
		return core.String(buf.String()), nil
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return core.String(string(raw)), nil
		}
		return core.Number(n), nil
	}
}

// SearchResult is the response of a sheet search.
type SearchResult struct {
	TotalCount int         `json:"totalCount"`
	Results    []SearchHit `json:"results"`
}

// SearchHit is one object matched by a search.
type SearchHit struct {
	ObjectType       string   `json:"objectType"`
	ObjectID         int64    `json:"objectId"`
	ParentObjectID   int64    `json:"parentObjectId,omitempty"`
	ParentObjectName string   `json:"parentObjectName,omitempty"`
	ParentObjectType string   `json:"parentObjectType,omitempty"`
	Text             string   `json:"text"`
	ContextData      []string `json:"contextData,omitempty"`
}

// User identifies who made a change.
type User struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// CellHistoryEntry is one historical value of a cell, newest first.
type CellHistoryEntry struct {
	Cell
	ColumnType ColumnType
	ModifiedAt time.Time
	ModifiedBy User
}

// UnmarshalJSON decodes a history entry.
func (e *CellHistoryEntry) UnmarshalJSON(b []byte) error {
	if err := e.Cell.UnmarshalJSON(b); err != nil {
		return err
	}
	var meta struct {
		ColumnType ColumnType `json:"columnType"`
		ModifiedAt time.Time  `json:"modifiedAt"`
		ModifiedBy User       `json:"modifiedBy"`
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return err
	}
	e.ColumnType = meta.ColumnType
	e.ModifiedAt = meta.ModifiedAt
	e.ModifiedBy = meta.ModifiedBy
	return nil
}

// page is the envelope of paginated list responses.
type page[T any] struct {
	PageNumber int `json:"pageNumber"`
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
	Data       []T `json:"data"`
}

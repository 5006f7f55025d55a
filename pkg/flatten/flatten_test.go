package flatten

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapsheet/internal/testutil"
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSheet(t *testing.T, raw string) *smartsheet.Sheet {
	t.Helper()
	var s smartsheet.Sheet
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return &s
}

func assertRecord(t *testing.T, want map[string]core.Value, got core.Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for k, w := range want {
		v, ok := got[k]
		require.True(t, ok, "missing key %q", k)
		assert.True(t, w.Equal(v), "%s: want %v (%s), got %v (%s)", k, w, w.Kind(), v, v.Kind())
	}
}

func TestFlatten_StatusOwner(t *testing.T) {
	ft, err := Flatten(loadSheet(t, testutil.StatusOwnerSheet))
	require.NoError(t, err)

	assert.Equal(t, []string{"Status", "Owner"}, ft.Columns)
	require.Equal(t, 2, ft.Len())
	assertRecord(t, map[string]core.Value{"Status": core.String("Open"), "Owner": core.String("Amy")}, ft.Records[0])
	assertRecord(t, map[string]core.Value{"Status": core.String("Closed"), "Owner": core.Null()}, ft.Records[1])
}

func TestFlatten_PreservesOrder(t *testing.T) {
	sheet := &smartsheet.Sheet{
		Columns: []smartsheet.Column{{ID: 1, Title: "N", Type: smartsheet.TypeTextNumber}},
	}
	for i := range 50 {
		sheet.Rows = append(sheet.Rows, smartsheet.Row{
			ID:    int64(1000 + i),
			Cells: []smartsheet.Cell{{ColumnID: 1, Value: core.Number(float64(i))}},
		})
	}

	ft, err := Flatten(sheet)
	require.NoError(t, err)
	require.Equal(t, len(sheet.Rows), ft.Len())
	for i, rec := range ft.Records {
		n, ok := rec["N"].Num()
		require.True(t, ok)
		assert.Equal(t, float64(i), n)
	}
}

func TestFlatten_EveryRecordHasEveryColumn(t *testing.T) {
	sheet := loadSheet(t, testutil.TypedSheet)
	ft, err := Flatten(sheet)
	require.NoError(t, err)

	for i, rec := range ft.Records {
		assert.Len(t, rec, len(sheet.Columns), "record %d", i)
		for _, col := range sheet.Columns {
			assert.Contains(t, rec, col.Title)
		}
	}
	assert.True(t, ft.Records[2]["Due Date"].IsNull())
	assert.True(t, ft.Records[2]["Tags"].IsNull())
}

func TestFlatten_TypedSheet(t *testing.T) {
	ft, err := Flatten(loadSheet(t, testutil.TypedSheet))
	require.NoError(t, err)
	require.Equal(t, 3, ft.Len())

	assertRecord(t, map[string]core.Value{
		"Task Name": core.String("Write report"),
		"Estimate":  core.Number(2.5),
		"Due Date":  core.Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		"Done":      core.Bool(true),
		"Updated":   core.Date(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
		"Tags":      core.String(`{"objectType":"MULTI_PICKLIST","values":["a","b"]}`),
	}, ft.Records[0])

	second := ft.Records[1]
	assert.True(t, core.Number(4).Equal(second["Estimate"]))
	assert.True(t, core.String("not a date").Equal(second["Due Date"]), "unparsable dates stay strings")
	assert.True(t, core.Bool(false).Equal(second["Done"]), "empty checkbox reads as false")

	third := ft.Records[2]
	assert.True(t, core.String("TBD").Equal(third["Estimate"]))
	assert.True(t, core.Bool(false).Equal(third["Done"]))
	assert.True(t, third["Updated"].IsNull())
}

func TestFlatten_DuplicateColumns(t *testing.T) {
	ft, err := Flatten(loadSheet(t, testutil.DuplicateColumnsSheet))
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, ft.Columns)
	require.Equal(t, 1, ft.Len())
	assertRecord(t, map[string]core.Value{"A": core.String("second")}, ft.Records[0])
}

func TestFlatten_EmptySheet(t *testing.T) {
	ft, err := Flatten(loadSheet(t, testutil.EmptySheet))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, ft.Columns)
	assert.Equal(t, 0, ft.Len())
}

func TestFlatten_UnknownColumnIgnored(t *testing.T) {
	sheet := &smartsheet.Sheet{
		Columns: []smartsheet.Column{{ID: 1, Title: "A"}},
		Rows: []smartsheet.Row{{Cells: []smartsheet.Cell{
			{ColumnID: 1, Value: core.String("x")},
			{ColumnID: 99, Value: core.String("stray")},
		}}},
	}
	ft, err := Flatten(sheet)
	require.NoError(t, err)
	assertRecord(t, map[string]core.Value{"A": core.String("x")}, ft.Records[0])
}

func TestFlatten_OutOfRangeNumberKeepsRow(t *testing.T) {
	ft, err := Flatten(loadSheet(t, `{
		"id": 7, "name": "Big",
		"columns": [
			{"id": 1, "index": 0, "title": "Label", "type": "TEXT_NUMBER", "primary": true},
			{"id": 2, "index": 1, "title": "Amount", "type": "TEXT_NUMBER"}
		],
		"rows": [
			{"id": 10, "rowNumber": 1, "cells": [{"columnId": 1, "value": "huge"}, {"columnId": 2, "value": 1e400}]},
			{"id": 11, "rowNumber": 2, "cells": [{"columnId": 1, "value": "small"}, {"columnId": 2, "value": 12}]}
		]
	}`))
	require.NoError(t, err)

	require.Equal(t, 2, ft.Len())
	assertRecord(t, map[string]core.Value{"Label": core.String("huge"), "Amount": core.String("1e400")}, ft.Records[0])
	assertRecord(t, map[string]core.Value{"Label": core.String("small"), "Amount": core.Number(12)}, ft.Records[1])
}

func TestFlatten_NilSheet(t *testing.T) {
	_, err := Flatten(nil)
	assert.Error(t, err)
}

func TestFlattenWith_ConvertHeaders(t *testing.T) {
	ft, err := FlattenWith(loadSheet(t, testutil.TypedSheet), Options{ConvertHeaders: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"task_name", "estimate", "due_date", "done", "updated", "tags"}, ft.Columns)
	assert.True(t, core.String("Ship").Equal(ft.Records[2]["task_name"]))
}

func TestConvertHeader(t *testing.T) {
	tests := map[string]string{
		"Created Date": "created_date",
		"Status":       "status",
		"Project ID":   "project_id",
		"ÄNDERUNG Am":  "änderung_am",
		"already_ok":   "already_ok",
	}
	for in, want := range tests {
		assert.Equal(t, want, ConvertHeader(in), in)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   core.Value
		typ  smartsheet.ColumnType
		want core.Value
	}{
		{"number string", core.String("42"), smartsheet.TypeTextNumber, core.Number(42)},
		{"padded number", core.String(" 1.5 "), smartsheet.TypeTextNumber, core.Number(1.5)},
		{"text stays", core.String("abc"), smartsheet.TypeTextNumber, core.String("abc")},
		{"inf is text", core.String("Inf"), smartsheet.TypeTextNumber, core.String("Inf")},
		{"negative decimal", core.String("-3.5"), smartsheet.TypeTextNumber, core.Number(-3.5)},
		{"leading point", core.String(".5"), smartsheet.TypeTextNumber, core.Number(0.5)},
		{"trailing point", core.String("7."), smartsheet.TypeTextNumber, core.Number(7)},
		{"exponent is text", core.String("1e5"), smartsheet.TypeTextNumber, core.String("1e5")},
		{"hex float is text", core.String("0x1p3"), smartsheet.TypeTextNumber, core.String("0x1p3")},
		{"lone sign is text", core.String("-"), smartsheet.TypeTextNumber, core.String("-")},
		{"overflow is text", core.String("1" + strings.Repeat("0", 400)), smartsheet.TypeTextNumber, core.String("1" + strings.Repeat("0", 400))},
		{"number stays", core.Number(3), smartsheet.TypeTextNumber, core.Number(3)},
		{"null text", core.Null(), smartsheet.TypeTextNumber, core.Null()},
		{"date", core.String("2024-12-31"), smartsheet.TypeDate, core.Date(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))},
		{"bad date", core.String("31/12/2024"), smartsheet.TypeDate, core.String("31/12/2024")},
		{"datetime", core.String("2024-01-02T03:04:05Z"), smartsheet.TypeDateTime, core.Date(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
		{"abstract datetime", core.String("2024-01-02T03:04:05Z"), smartsheet.TypeAbstractDateTime, core.Date(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
		{"checkbox null", core.Null(), smartsheet.TypeCheckbox, core.Bool(false)},
		{"checkbox true", core.Bool(true), smartsheet.TypeCheckbox, core.Bool(true)},
		{"checkbox string", core.String("TRUE"), smartsheet.TypeCheckbox, core.Bool(true)},
		{"picklist", core.String("Open"), smartsheet.TypePicklist, core.String("Open")},
		{"unknown type", core.String("7"), smartsheet.ColumnType("SOMETHING_NEW"), core.String("7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.in, tt.typ)
			assert.True(t, tt.want.Equal(got), "want %v (%s), got %v (%s)", tt.want, tt.want.Kind(), got, got.Kind())
		})
	}
}

package testutil

import "testing"

// Sheet fixtures shared by package tests. IDs are stable so tests can
// assert on them directly.

// StatusOwnerSheetID is the ID of StatusOwnerSheet.
const StatusOwnerSheetID = 1001

// StatusOwnerSheet has two columns and two rows; the second row has no
// Owner cell.
const StatusOwnerSheet = `{
  "id": 1001,
  "name": "Tasks",
  "version": 7,
  "columns": [
    {"id": 11, "index": 0, "title": "Status", "type": "PICKLIST", "primary": true},
    {"id": 12, "index": 1, "title": "Owner", "type": "CONTACT_LIST"}
  ],
  "rows": [
    {"id": 501, "rowNumber": 1, "cells": [
      {"columnId": 11, "value": "Open", "displayValue": "Open"},
      {"columnId": 12, "value": "Amy", "displayValue": "Amy"}
    ]},
    {"id": 502, "rowNumber": 2, "cells": [
      {"columnId": 11, "value": "Closed", "displayValue": "Closed"}
    ]}
  ]
}`

// TypedSheetID is the ID of TypedSheet.
const TypedSheetID = 1002

// TypedSheet exercises per-type coercion: numeric strings in TEXT_NUMBER,
// DATE and DATETIME strings, CHECKBOX values and an object-valued cell.
const TypedSheet = `{
  "id": 1002,
  "name": "Project Plan",
  "columns": [
    {"id": 21, "index": 0, "title": "Task Name", "type": "TEXT_NUMBER", "primary": true},
    {"id": 22, "index": 1, "title": "Estimate", "type": "TEXT_NUMBER"},
    {"id": 23, "index": 2, "title": "Due Date", "type": "DATE"},
    {"id": 24, "index": 3, "title": "Done", "type": "CHECKBOX"},
    {"id": 25, "index": 4, "title": "Updated", "type": "DATETIME"},
    {"id": 26, "index": 5, "title": "Tags", "type": "MULTI_PICKLIST"}
  ],
  "rows": [
    {"id": 601, "rowNumber": 1, "cells": [
      {"columnId": 21, "value": "Write report"},
      {"columnId": 22, "value": "2.5"},
      {"columnId": 23, "value": "2024-03-01"},
      {"columnId": 24, "value": true},
      {"columnId": 25, "value": "2024-03-01T09:30:00Z"},
      {"columnId": 26, "value": {"objectType": "MULTI_PICKLIST", "values": ["a", "b"]}}
    ]},
    {"id": 602, "rowNumber": 2, "cells": [
      {"columnId": 21, "value": "Review"},
      {"columnId": 22, "value": 4},
      {"columnId": 23, "value": "not a date"},
      {"columnId": 24},
      {"columnId": 25, "value": "2024-03-02T17:00:00Z"}
    ]},
    {"id": 603, "rowNumber": 3, "cells": [
      {"columnId": 21, "value": "Ship"},
      {"columnId": 22, "value": "TBD"},
      {"columnId": 24, "value": false}
    ]}
  ]
}`

// DuplicateColumnsSheetID is the ID of DuplicateColumnsSheet.
const DuplicateColumnsSheetID = 1003

// DuplicateColumnsSheet has two columns titled "A".
const DuplicateColumnsSheet = `{
  "id": 1003,
  "name": "Duplicates",
  "columns": [
    {"id": 1, "index": 0, "title": "A", "type": "TEXT_NUMBER", "primary": true},
    {"id": 2, "index": 1, "title": "A", "type": "TEXT_NUMBER"}
  ],
  "rows": [
    {"id": 701, "rowNumber": 1, "cells": [
      {"columnId": 1, "value": "first"},
      {"columnId": 2, "value": "second"}
    ]}
  ]
}`

// EmptySheetID is the ID of EmptySheet.
const EmptySheetID = 1004

// EmptySheet has columns and no rows.
const EmptySheet = `{
  "id": 1004,
  "name": "Empty",
  "columns": [
    {"id": 41, "index": 0, "title": "Name", "type": "TEXT_NUMBER", "primary": true}
  ],
  "rows": []
}`

// NewFakeAPIWithFixtures starts a FakeAPI serving every fixture sheet.
func NewFakeAPIWithFixtures(t testing.TB) *FakeAPI {
	t.Helper()
	f := NewFakeAPI(t)
	for _, raw := range []string{StatusOwnerSheet, TypedSheet, DuplicateColumnsSheet, EmptySheet} {
		f.AddSheet(t, raw)
	}
	return f
}

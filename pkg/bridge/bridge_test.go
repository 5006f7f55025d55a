package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/leapstack-labs/leapsheet/internal/testutil"
	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/flatten"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFromFlat(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ft := &core.FlatTable{
		Columns: []string{"name", "score", "mixed", "empty", "due"},
		Records: []core.Record{
			{"name": core.String("a"), "score": core.Number(1), "mixed": core.Number(1), "empty": core.Null(), "due": core.Date(due)},
			{"name": core.String("b"), "score": core.Null(), "mixed": core.String("x"), "empty": core.Null(), "due": core.Null()},
			{"name": core.String("c"), "score": core.Number(3.5), "mixed": core.Bool(true), "empty": core.Null(), "due": core.Date(due)},
		},
	}

	tbl := TableFromFlat(ft)

	assert.Equal(t, ft.Columns, tbl.Names())
	assert.Equal(t, []core.Kind{core.KindString, core.KindNumber, core.KindString, core.KindNull, core.KindDate},
		[]core.Kind{tbl.Columns[0].Kind, tbl.Columns[1].Kind, tbl.Columns[2].Kind, tbl.Columns[3].Kind, tbl.Columns[4].Kind})

	require.Equal(t, 3, tbl.Len())
	for i, rec := range ft.Records {
		for j, name := range ft.Columns {
			assert.True(t, rec[name].Equal(tbl.Rows[i][j]), "row %d column %s", i, name)
		}
	}
	assert.True(t, core.Number(1).Equal(tbl.Rows[0][2]), "mixed columns keep their values")
}

func TestTableFromFlat_Empty(t *testing.T) {
	tbl := TableFromFlat(&core.FlatTable{Columns: []string{"a"}})
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, core.KindNull, tbl.Columns[0].Kind)
}

func TestSheetToTable(t *testing.T) {
	api := testutil.NewFakeAPIWithFixtures(t)
	c := smartsheet.New(testutil.FakeToken, smartsheet.WithBaseURL(api.URL()), smartsheet.WithLogger(testutil.NewTestLogger(t)))

	tbl, err := SheetToTable(context.Background(), c, testutil.TypedSheetID, flatten.Options{ConvertHeaders: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"task_name", "estimate", "due_date", "done", "updated", "tags"}, tbl.Names())
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, core.KindString, tbl.Columns[0].Kind)
	assert.Equal(t, core.KindString, tbl.Columns[1].Kind, "estimate mixes numbers and text")
	assert.Equal(t, core.KindBoolean, tbl.Columns[3].Kind)
	assert.Equal(t, core.KindDate, tbl.Columns[4].Kind)

	_, err = SheetToTable(context.Background(), c, 404, flatten.Options{})
	var nf *smartsheet.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCreateEngine_UnknownType(t *testing.T) {
	_, err := CreateEngine(context.Background(), core.AdapterConfig{Type: "oracle"}, nil)

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
}

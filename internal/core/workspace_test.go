package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T, name, text string) *Workspace {
	t.Helper()
	file := NewUploadedFile(name, []byte(text))
	tbl, err := Load(file)
	require.NoError(t, err)
	return NewWorkspace("ws-1", file, tbl)
}

func TestNewWorkspace_DropsUploadBytes(t *testing.T) {
	ws := newTestWorkspace(t, "a.csv", "a\n1\n")
	assert.Nil(t, ws.File.Data)
	assert.Equal(t, int64(4), ws.File.Size)
	assert.Equal(t, DefaultRecipe(), ws.Recipe())
}

func TestWorkspace_RecipeIsRederived(t *testing.T) {
	ws := newTestWorkspace(t, "a.csv", "a,b\n1,\n2,4\n1,\n")

	res := ws.SetRecipe(Recipe{RemoveDuplicates: true, FillMissing: true})
	assert.Equal(t, [][]string{{"1", "4"}, {"2", "4"}}, cells(res.Table))
	assert.Equal(t, FormatCSV, ws.Recipe().Format)

	// Turning cleaning off restores the source view.
	res = ws.SetRecipe(Recipe{})
	assert.Equal(t, 3, res.Table.NumRows())
	assert.True(t, res.Table.Cell(0, 1).IsMissing())
	assert.True(t, ws.Result().Table.Equal(ws.Source))
}

func TestWorkspace_ColumnsSelection(t *testing.T) {
	ws := newTestWorkspace(t, "a.csv", "a,b,c\n1,2,3\n4,5,6\n7,8,9\n")

	res := ws.SetRecipe(Recipe{Columns: []string{"c", "a"}})
	assert.Equal(t, []string{"a", "c"}, res.Table.Columns())

	res = ws.SetRecipe(Recipe{Columns: []string{}})
	assert.Equal(t, 0, res.Table.NumCols())
	assert.Equal(t, 3, res.Table.NumRows())

	res = ws.SetRecipe(Recipe{Columns: nil})
	assert.Equal(t, 3, res.Table.NumCols())
}

func TestWorkspace_RecipeCopy(t *testing.T) {
	ws := newTestWorkspace(t, "a.csv", "a,b\n1,2\n")
	ws.SetRecipe(Recipe{Columns: []string{"a"}})

	r := ws.Recipe()
	r.Columns[0] = "b"
	assert.Equal(t, []string{"a"}, ws.Recipe().Columns)
}

func TestWorkspace_Views(t *testing.T) {
	ws := newTestWorkspace(t, "v.csv", "n,s\n1,a\n2,b\n3,c\n4,d\n5,e\n6,f\n")

	assert.Equal(t, DefaultPreviewRows, ws.Preview(-1).NumRows())
	assert.Equal(t, 2, ws.Preview(2).NumRows())

	ws.SetRecipe(Recipe{PreviewRows: 3, ChartLimit: 1})
	assert.Equal(t, 3, ws.Preview(-1).NumRows())
	assert.Equal(t, []string{"n"}, ws.Chart(0).Columns())

	ws.SetRecipe(Recipe{Columns: []string{"s"}})
	chart := ws.Chart(2)
	assert.True(t, chart.Empty)
	assert.Equal(t, NoNumericData, chart.Message)
}

func TestWorkspace_Export(t *testing.T) {
	ws := newTestWorkspace(t, "report.csv", "a,b\n1,2\n1,2\n")
	ws.SetRecipe(Recipe{RemoveDuplicates: true, Format: FormatExcel})

	art, err := ws.Export("")
	require.NoError(t, err)
	assert.Equal(t, "report.xlsx", art.Filename)
	assert.Equal(t, MIMEExcel, art.MIMEType)

	art, err = ws.Export(FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "report.csv", art.Filename)
	assert.Equal(t, "a,b\n1,2\n", string(art.Data))
}

func TestWorkspace_Summary(t *testing.T) {
	ws := newTestWorkspace(t, "s.csv", "a,b\n1,2\n")
	s := ws.Summary()
	assert.Equal(t, "s.csv", s.Filename)
	assert.Equal(t, 1, s.Rows)
	assert.Equal(t, 2, s.Columns)
}

func TestWorkspace_TouchOnRead(t *testing.T) {
	ws := newTestWorkspace(t, "a.csv", "a\n1\n")
	before := ws.LastAccess()
	time.Sleep(5 * time.Millisecond)
	ws.Result()
	assert.True(t, ws.LastAccess().After(before))
}

func TestRecipe_Apply(t *testing.T) {
	tbl := mustLoadCSV(t, "r.csv", "a,b,c\n1,,x\n1,,x\n2,6,y\n")

	res := Recipe{RemoveDuplicates: true, FillMissing: true, Columns: []string{"b"}}.Apply(tbl)
	assert.Equal(t, []string{"b"}, res.Table.Columns())
	assert.Equal(t, [][]string{{"6"}, {"6"}}, cells(res.Table))
	assert.Equal(t, 1, res.RowsRemoved)
}

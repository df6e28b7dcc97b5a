package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	tbl := mustLoadCSV(t, "p.csv", "a,b,c\n1,2,3\n4,5,6\n7,8,9\n")

	tests := []struct {
		name     string
		keep     []string
		wantCols []string
		wantRows [][]string
	}{
		{"identity", []string{"a", "b", "c"}, []string{"a", "b", "c"}, [][]string{{"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}}},
		{"original order kept", []string{"c", "a"}, []string{"a", "c"}, [][]string{{"1", "3"}, {"4", "6"}, {"7", "9"}}},
		{"unknown ignored", []string{"b", "zzz"}, []string{"b"}, [][]string{{"2"}, {"5"}, {"8"}}},
		{"duplicates in keep", []string{"b", "b"}, []string{"b"}, [][]string{{"2"}, {"5"}, {"8"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tbl, tt.keep)
			assert.Equal(t, tt.wantCols, got.Columns())
			assert.Equal(t, tt.wantRows, cells(got))
		})
	}
}

func TestProject_EmptyKeepsRowCount(t *testing.T) {
	tbl := mustLoadCSV(t, "p.csv", "a,b\n1,2\n3,4\n5,6\n")

	for _, keep := range [][]string{{}, nil, {"nope"}} {
		got := Project(tbl, keep)
		assert.Equal(t, 0, got.NumCols())
		assert.Equal(t, 3, got.NumRows())
		assert.NotNil(t, got.Columns())
	}
}

func TestProject_IdentityEqualsSource(t *testing.T) {
	tbl := mustLoadCSV(t, "p.csv", "x,y\n1,a\n,b\n")
	assert.True(t, Project(tbl, tbl.Columns()).Equal(tbl))
}

func TestProject_IndexRebuilt(t *testing.T) {
	tbl := mustLoadCSV(t, "p.csv", "a,b,c\n1,2,3\n")
	got := Project(tbl, []string{"c"})

	i, ok := got.ColumnIndex("c")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = got.ColumnIndex("a")
	assert.False(t, ok)
}

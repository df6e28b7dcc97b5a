package core

import (
	"testing"
)

// mustLoadCSV parses CSV text through the real loader.
func mustLoadCSV(t testing.TB, name, text string) *Table {
	t.Helper()
	tbl, err := Load(NewUploadedFile(name, []byte(text)))
	if err != nil {
		t.Fatalf("Load(%s) error = %v", name, err)
	}
	return tbl
}

// nums builds a row of numeric cells.
func nums(vs ...float64) []Value {
	row := make([]Value, len(vs))
	for i, v := range vs {
		row[i] = Number(v)
	}
	return row
}

// cells renders a table's rows as strings for compact comparison.
func cells(t *Table) [][]string {
	out := make([][]string, t.NumRows())
	for r := range out {
		row := t.Row(r)
		out[r] = make([]string, len(row))
		for c, v := range row {
			out[r][c] = v.String()
		}
	}
	return out
}

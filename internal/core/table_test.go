package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]Value
		wantErr bool
	}{
		{"empty", []string{}, nil, false},
		{"one row", []string{"a", "b"}, [][]Value{nums(1, 2)}, false},
		{"duplicate column", []string{"a", "a"}, nil, true},
		{"short row", []string{"a", "b"}, [][]Value{nums(1)}, true},
		{"long row", []string{"a"}, [][]Value{nums(1, 2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.columns, tt.rows)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTable_Accessors(t *testing.T) {
	tbl := MustTable([]string{"id", "name"}, [][]Value{
		{Number(1), Text("ann")},
		{Number(2), Missing()},
	})

	if got := tbl.NumRows(); got != 2 {
		t.Errorf("NumRows() = %d, want 2", got)
	}
	if got := tbl.NumCols(); got != 2 {
		t.Errorf("NumCols() = %d, want 2", got)
	}
	if i, ok := tbl.ColumnIndex("name"); !ok || i != 1 {
		t.Errorf("ColumnIndex(name) = %d, %v, want 1, true", i, ok)
	}
	if _, ok := tbl.ColumnIndex("nope"); ok {
		t.Error("ColumnIndex(nope) should not be found")
	}

	col, err := tbl.Column("name")
	if err != nil {
		t.Fatalf("Column(name) error = %v", err)
	}
	if !col[0].Equal(Text("ann")) || !col[1].IsMissing() {
		t.Errorf("Column(name) = %v", col)
	}

	if _, err := tbl.Column("nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Column(nope) error = %v, want ErrColumnNotFound", err)
	}
}

func TestTable_CopiesDoNotAlias(t *testing.T) {
	tbl := MustTable([]string{"a"}, [][]Value{nums(1)})

	cols := tbl.Columns()
	cols[0] = "changed"
	row := tbl.Row(0)
	row[0] = Number(99)

	if tbl.Columns()[0] != "a" {
		t.Error("Columns() returned a slice aliasing the table")
	}
	if tbl.Cell(0, 0).Num != 1 {
		t.Error("Row() returned a slice aliasing the table")
	}
}

func TestTable_NumericColumns(t *testing.T) {
	tbl := MustTable([]string{"n", "s", "empty", "mixed"}, [][]Value{
		{Number(1), Text("x"), Missing(), Number(1)},
		{Missing(), Text("y"), Missing(), Text("two")},
	})

	want := []string{"n", "empty"}
	if got := tbl.NumericColumns(); !reflect.DeepEqual(got, want) {
		t.Errorf("NumericColumns() = %v, want %v", got, want)
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Number(1), ParseCell("1.0"), true},
		{Number(1), Number(2), false},
		{Text("1"), Number(1), false},
		{Missing(), Missing(), true},
		{Missing(), Text(""), false},
		{Text("a"), Text("a"), true},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Missing(), ""},
		{Text("abc"), "abc"},
		{Number(2.5), "2.5"},
		{Number(4), "4"},
		{ParseCell("1.50"), "1.50"},
		{ParseCell("1e3"), "1e3"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTable_Equal(t *testing.T) {
	a := MustTable([]string{"x"}, [][]Value{nums(1)})
	b := MustTable([]string{"x"}, [][]Value{{ParseCell("1")}})
	c := MustTable([]string{"y"}, [][]Value{nums(1)})

	if !a.Equal(b) {
		t.Error("tables with equal values should be equal")
	}
	if a.Equal(c) {
		t.Error("tables with different column names should differ")
	}
	if a.Equal(nil) {
		t.Error("table should not equal nil")
	}
}

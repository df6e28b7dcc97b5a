package core

import (
	"fmt"
	"strconv"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single table cell.
type Value struct {
	Kind Kind
	Num  float64 // valid when Kind == KindNumber
	Text string  // text for KindText; source text for parsed numbers, empty for computed ones
}

// Missing returns the absence marker.
func Missing() Value { return Value{} }

// Number returns a computed numeric cell.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text returns a text cell.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// IsMissing reports whether the cell has no recorded value.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// IsNumber reports whether the cell holds a number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// String renders the cell the way it is written on export.
// Parsed numbers keep their source text so an untouched file round-trips.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		if v.Text != "" {
			return v.Text
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// Equal compares cells by kind and content. Numbers compare by value,
// so "1" and "1.0" are equal; missing equals missing.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindText:
		return v.Text == o.Text
	default:
		return true
	}
}

// Table is an ordered set of uniquely named, equal-length columns stored
// row-major. Tables are never mutated after construction; every operation
// in this package returns a new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a table, checking that column names are unique and that
// every row has exactly one cell per column.
func NewTable(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	if rows == nil {
		rows = [][]Value{}
	}
	return &Table{columns: cols, index: index, rows: rows}, nil
}

// MustTable is NewTable for literals known to be valid (tests, fixtures).
func MustTable(columns []string, rows [][]Value) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the row count. It is preserved even with zero columns.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.columns) }

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Cell returns the value at row r, column c.
func (t *Table) Cell(r, c int) Value { return t.rows[r][c] }

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]Value, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[c]
	}
	return out, nil
}

// IsNumericColumn reports whether every cell of column c is a number or
// missing. An all-missing column counts as numeric.
func (t *Table) IsNumericColumn(c int) bool {
	for _, row := range t.rows {
		if row[c].Kind == KindText {
			return false
		}
	}
	return true
}

// NumericColumns returns the names of numeric-or-missing columns in order.
func (t *Table) NumericColumns() []string {
	var out []string
	for c, name := range t.columns {
		if t.IsNumericColumn(c) {
			out = append(out, name)
		}
	}
	return out
}

// Equal reports whether two tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for r := range t.rows {
		for c := range t.rows[r] {
			if !t.rows[r][c].Equal(o.rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// clone copies the row slices so the caller can rewrite cells.
func (t *Table) clone() *Table {
	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		rows[i] = make([]Value, len(row))
		copy(rows[i], row)
	}
	return &Table{columns: t.Columns(), index: t.index, rows: rows}
}

package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanOptions selects the cleaning operations to apply.
type CleanOptions struct {
	RemoveDuplicates bool
	FillMissing      bool
}

// ImputedColumn records one column filled with its mean.
type ImputedColumn struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	Filled int     `json:"filled"`
}

// CleaningResult is the cleaned table plus what was done to it.
type CleaningResult struct {
	Table             *Table          `json:"-"`
	DedupApplied      bool            `json:"dedup_applied"`
	ImputationApplied bool            `json:"imputation_applied"`
	RowsRemoved       int             `json:"rows_removed"`
	Imputed           []ImputedColumn `json:"imputed,omitempty"`
	Unfilled          []string        `json:"unfilled,omitempty"` // numeric columns with no values to average
}

// Clean applies the selected operations. Deduplication always runs before
// imputation: filling first could make rows that differed only in a missing
// cell look identical.
func Clean(t *Table, opts CleanOptions) CleaningResult {
	res := CleaningResult{Table: t}

	if opts.RemoveDuplicates {
		before := res.Table.NumRows()
		res.Table = RemoveDuplicates(res.Table)
		res.DedupApplied = true
		res.RowsRemoved = before - res.Table.NumRows()
	}

	if opts.FillMissing {
		res.Table, res.Imputed, res.Unfilled = FillMissingNumeric(res.Table)
		res.ImputationApplied = true
	}

	return res
}

// RemoveDuplicates drops rows identical to an earlier row, keeping the first
// occurrence and the order of the rest.
func RemoveDuplicates(t *Table) *Table {
	seen := make(map[string]struct{}, t.NumRows())
	rows := make([][]Value, 0, t.NumRows())

	var key strings.Builder
	for _, row := range t.rows {
		key.Reset()
		writeRowKey(&key, row)
		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		cp := make([]Value, len(row))
		copy(cp, row)
		rows = append(rows, cp)
	}

	return &Table{columns: t.Columns(), index: t.index, rows: rows}
}

// writeRowKey encodes each cell as kind, length and canonical text so that
// distinct rows never share a key.
func writeRowKey(b *strings.Builder, row []Value) {
	for _, v := range row {
		var s string
		switch v.Kind {
		case KindNumber:
			s = strconv.FormatFloat(v.Num, 'g', -1, 64)
			if v.Num == 0 {
				s = "0" // -0 equals 0
			}
		case KindText:
			s = v.Text
		}
		b.WriteByte(byte('0' + v.Kind))
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
}

// FillMissingNumeric replaces missing cells in numeric-or-missing columns
// with the column mean. Columns with no numbers at all are left as they are
// and reported in unfilled; text columns are never touched.
func FillMissingNumeric(t *Table) (*Table, []ImputedColumn, []string) {
	out := t.clone()
	var imputed []ImputedColumn
	var unfilled []string

	for c, name := range t.columns {
		if !t.IsNumericColumn(c) {
			continue
		}

		mean, err := columnMean(t, c)
		if err != nil {
			unfilled = append(unfilled, name)
			continue
		}

		filled := 0
		for r := range out.rows {
			if out.rows[r][c].IsMissing() {
				out.rows[r][c] = Number(mean)
				filled++
			}
		}
		if filled > 0 {
			imputed = append(imputed, ImputedColumn{Name: name, Mean: mean, Filled: filled})
		}
	}

	return out, imputed, unfilled
}

// ColumnMean returns the mean of the named column's numbers.
func ColumnMean(t *Table, name string) (float64, error) {
	c, ok := t.ColumnIndex(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if !t.IsNumericColumn(c) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	mean, err := columnMean(t, c)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q has no values", err, name)
	}
	return mean, nil
}

func columnMean(t *Table, c int) (float64, error) {
	// Running mean: a plain sum overflows for large finite inputs.
	var mean float64
	n := 0
	for _, row := range t.rows {
		if row[c].IsNumber() {
			n++
			mean += (row[c].Num - mean) / float64(n)
		}
	}
	if n == 0 {
		return 0, ErrUndefinedMean
	}
	return mean, nil
}

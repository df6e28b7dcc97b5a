package core

// summarizer.go extracts read-only views of a table for display: a row
// preview, the numeric columns to chart, and per-column profiles.

import "math"

const (
	// DefaultPreviewRows is the number of rows shown when none is requested.
	DefaultPreviewRows = 5

	// DefaultChartLimit is how many numeric columns are charted by default.
	DefaultChartLimit = 2

	// NoNumericData is the message carried by an empty chart.
	NoNumericData = "No numeric data to display."
)

// Preview returns a copy of the first n rows. A negative n means
// DefaultPreviewRows.
func Preview(t *Table, n int) *Table {
	if n < 0 {
		n = DefaultPreviewRows
	}
	if n > t.NumRows() {
		n = t.NumRows()
	}

	rows := make([][]Value, n)
	for r := 0; r < n; r++ {
		rows[r] = t.Row(r)
	}
	return &Table{columns: t.Columns(), index: t.index, rows: rows}
}

// ChartSeries is one charted column. Nil entries are missing cells.
type ChartSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// ChartData is what a bar chart is drawn from. Empty is set, with Message,
// when the table has no numeric columns; that is not an error.
type ChartData struct {
	Empty   bool          `json:"empty"`
	Message string        `json:"message,omitempty"`
	Rows    int           `json:"rows"`
	Series  []ChartSeries `json:"series"`
}

// Columns returns the charted column names.
func (d ChartData) Columns() []string {
	out := make([]string, len(d.Series))
	for i, s := range d.Series {
		out[i] = s.Name
	}
	return out
}

// Max returns the largest charted value, or 0 when there is none.
func (d ChartData) Max() float64 {
	m := 0.0
	for _, s := range d.Series {
		for _, v := range s.Values {
			if v != nil && math.Abs(*v) > m {
				m = math.Abs(*v)
			}
		}
	}
	return m
}

// NumericSummary selects up to limit numeric-or-missing columns in original
// order for charting. A limit of zero or less means DefaultChartLimit.
func NumericSummary(t *Table, limit int) ChartData {
	if limit <= 0 {
		limit = DefaultChartLimit
	}

	data := ChartData{Rows: t.NumRows(), Series: []ChartSeries{}}
	for c, name := range t.columns {
		if len(data.Series) == limit {
			break
		}
		if !t.IsNumericColumn(c) {
			continue
		}
		s := ChartSeries{Name: name, Values: make([]*float64, t.NumRows())}
		for r, row := range t.rows {
			if row[c].IsNumber() {
				v := row[c].Num
				s.Values[r] = &v
			}
		}
		data.Series = append(data.Series, s)
	}

	if len(data.Series) == 0 {
		data.Empty = true
		data.Message = NoNumericData
	}
	return data
}

// FileSummary describes an upload and the table loaded from it.
type FileSummary struct {
	Filename  string  `json:"filename"`
	Extension string  `json:"extension"`
	SizeBytes int64   `json:"size_bytes"`
	SizeKB    float64 `json:"size_kb"`
	Rows      int     `json:"rows"`
	Columns   int     `json:"columns"`
}

// Describe summarises an upload and its table.
func Describe(file UploadedFile, t *Table) FileSummary {
	return FileSummary{
		Filename:  file.Filename,
		Extension: file.Extension,
		SizeBytes: file.Size,
		SizeKB:    math.Round(float64(file.Size)/1024*100) / 100,
		Rows:      t.NumRows(),
		Columns:   t.NumCols(),
	}
}

// ColumnProfile summarises one column. Min, Max and Mean are only set for
// numeric columns with at least one number.
type ColumnProfile struct {
	Name    string   `json:"name"`
	Numeric bool     `json:"numeric"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
}

// Profile returns a profile per column in order.
func Profile(t *Table) []ColumnProfile {
	out := make([]ColumnProfile, t.NumCols())
	for c, name := range t.columns {
		p := ColumnProfile{Name: name, Numeric: t.IsNumericColumn(c)}

		var mean float64
		numbers := 0
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range t.rows {
			v := row[c]
			if v.IsMissing() {
				p.Missing++
				continue
			}
			p.Count++
			if v.IsNumber() {
				numbers++
				mean += (v.Num - mean) / float64(numbers)
				lo = math.Min(lo, v.Num)
				hi = math.Max(hi, v.Num)
			}
		}

		if p.Numeric && p.Count > 0 {
			p.Min, p.Max, p.Mean = &lo, &hi, &mean
		}
		out[c] = p
	}
	return out
}

package core

// Project keeps the named columns in their original left-to-right order.
// Unknown names are ignored. An empty keep list yields a table with no
// columns and the same number of rows.
func Project(t *Table, keep []string) *Table {
	want := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		want[name] = struct{}{}
	}

	var idx []int
	var cols []string
	for c, name := range t.columns {
		if _, ok := want[name]; ok {
			idx = append(idx, c)
			cols = append(cols, name)
		}
	}

	rows := make([][]Value, len(t.rows))
	for r, row := range t.rows {
		out := make([]Value, len(idx))
		for i, c := range idx {
			out[i] = row[c]
		}
		rows[r] = out
	}

	index := make(map[string]int, len(cols))
	for i, name := range cols {
		index[name] = i
	}
	if cols == nil {
		cols = []string{}
	}
	return &Table{columns: cols, index: index, rows: rows}
}

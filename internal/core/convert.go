package core

// convert.go turns raw cell text from CSV or XLSX into typed Values.
//
// Type inference is per cell: a column is numeric when every one of its
// cells parsed as a number or as missing. Missing-value tokens follow the
// defaults of the dataframe tooling users export from, so a column of
// "NaN" and "N/A" reads as empty rather than as text.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain decimal or scientific number.
// Currency symbols and thousands separators are deliberately not accepted:
// "$1,200" stays text, as it does in the exporting tools.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingTokens are read as missing values.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// ParseCell classifies raw cell text as missing, number, or text.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if _, ok := missingTokens[s]; ok {
		return Missing()
	}
	if numericRegex.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Value{Kind: KindNumber, Num: f, Text: s}
		}
	}
	return Text(raw)
}

// IsNumeric reports whether s parses as a number.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(strings.TrimSpace(s))
}

// normalizeHeader makes header names usable as unique column names.
// Blank names become "Unnamed: <i>" and repeats get ".1", ".2" suffixes.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	used := make(map[string]bool, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		out[i] = name
		used[name] = true
	}

	for i, name := range out {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			continue
		}
		candidate := name + "." + strconv.Itoa(n)
		for used[candidate] {
			n++
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[name] = n + 1
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// buildRows converts raw records into typed rows of width cols. Short rows
// are padded with missing cells; a long row returns its 1-based index into
// records so the caller can report a line number.
func buildRows(records [][]string, cols int) ([][]Value, int) {
	rows := make([][]Value, 0, len(records))
	for i, rec := range records {
		if len(rec) > cols {
			if extraEmpty(rec[cols:]) {
				rec = rec[:cols]
			} else {
				return nil, i + 1
			}
		}
		row := make([]Value, cols)
		for c := range row {
			if c < len(rec) {
				row[c] = ParseCell(rec[c])
			}
		}
		rows = append(rows, row)
	}
	return rows, 0
}

func extraEmpty(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isEmptyRow(row []string) bool {
	return extraEmpty(row)
}

// Package templates holds the HTML components of the upload UI. The
// components are written in .templ files; run `templ generate` after
// editing them and commit the generated *_templ.go files.
package templates

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/datasweep/internal/core"
)

// Alert is one per-file error shown above the dashboard.
type Alert struct {
	Filename string
	Message  string
	Action   string
	Code     string
}

// WorkspaceItem is a dashboard row.
type WorkspaceItem struct {
	ID      string
	Summary core.FileSummary
	Created time.Time
}

// WorkspaceView is everything the workspace page shows. Chart is only
// filled when the recipe asks for it.
type WorkspaceView struct {
	ID            string
	Summary       core.FileSummary
	Profile       []core.ColumnProfile
	SourceColumns []string
	Recipe        core.Recipe
	Result        core.CleaningResult
	Preview       *core.Table
	Chart         core.ChartData
}

var exportFormats = []core.ExportFormat{core.FormatCSV, core.FormatExcel}

func workspaceURL(id string, suffix string) string {
	return "/files/" + url.PathEscape(id) + suffix
}

func exportURL(id string, f core.ExportFormat) string {
	return "/api" + workspaceURL(id, "/export?format="+string(f))
}

func sizeKB(kb float64) string {
	return strconv.FormatFloat(kb, 'f', 2, 64)
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return number(*v)
}

func columnKind(numeric bool) string {
	if numeric {
		return "numeric"
	}
	return "text"
}

// keptColumns reports which source columns the recipe keeps.
func keptColumns(columns []string, r core.Recipe) map[string]bool {
	keep := make(map[string]bool, len(columns))
	for _, c := range columns {
		keep[c] = r.Columns == nil
	}
	for _, c := range r.Columns {
		keep[c] = true
	}
	return keep
}

func cleaningEnabled(r core.Recipe) bool {
	return r.RemoveDuplicates || r.FillMissing
}

func series(i int) string {
	return strconv.Itoa(i % 4)
}

const barHeight = 6

type bar struct {
	Series string
	Y      string
	Width  string
	Label  string
}

type barGroup struct {
	Row    string
	Height string
	Bars   []bar
}

// chartBars lays out one group per row with bar widths as a percentage of
// the largest absolute value.
func chartBars(d core.ChartData) []barGroup {
	peak := d.Max()
	height := strconv.Itoa(len(d.Series) * (barHeight + 1))

	groups := make([]barGroup, d.Rows)
	for r := range groups {
		g := barGroup{Row: strconv.Itoa(r), Height: height, Bars: make([]bar, len(d.Series))}
		for i, s := range d.Series {
			width, label := 0.0, ""
			if v := s.Values[r]; v != nil {
				label = number(*v)
				if peak > 0 {
					width = math.Abs(*v) / peak * 100
				}
			}
			g.Bars[i] = bar{
				Series: series(i),
				Y:      strconv.Itoa(i * (barHeight + 1)),
				Width:  fmt.Sprintf("%.1f", width),
				Label:  s.Name + " " + label,
			}
		}
		groups[r] = g
	}
	return groups
}

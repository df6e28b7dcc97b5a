package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/datasweep/internal/core"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	// Fresh registry per test to avoid duplicate registration.
	p, err := NewPipeline(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p
}

func TestPipeline_FileLoaded(t *testing.T) {
	p := newTestPipeline(t)

	p.FileLoaded(".csv", nil)
	p.FileLoaded(".csv", nil)
	p.FileLoaded(".pdf", fmt.Errorf("%w: report.pdf", core.ErrUnsupportedFormat))
	p.FileLoaded(".xlsx", &core.ParseError{Filename: "a.xlsx", Format: "xlsx", Err: errors.New("zip: not a valid zip file")})

	tests := []struct {
		ext, outcome string
		want         float64
	}{
		{".csv", "ok", 2},
		{"other", "unsupported", 1},
		{".xlsx", "parse_error", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(p.filesLoaded.WithLabelValues(tt.ext, tt.outcome))
		if got != tt.want {
			t.Errorf("files_loaded{%s,%s} = %v, want %v", tt.ext, tt.outcome, got, tt.want)
		}
	}
}

func TestPipeline_Cleaned(t *testing.T) {
	p := newTestPipeline(t)

	p.Cleaned(core.CleaningResult{
		RowsRemoved: 3,
		Imputed: []core.ImputedColumn{
			{Name: "a", Filled: 2},
			{Name: "b", Filled: 5},
		},
	})

	if got := testutil.ToFloat64(p.rowsRemoved); got != 3 {
		t.Errorf("rows removed = %v, want 3", got)
	}
	if got := testutil.ToFloat64(p.cellsImputed); got != 7 {
		t.Errorf("cells imputed = %v, want 7", got)
	}
}

func TestPipeline_Exported(t *testing.T) {
	p := newTestPipeline(t)

	p.Exported(core.FormatExcel, 4096)

	if got := testutil.ToFloat64(p.exports.WithLabelValues("excel")); got != 1 {
		t.Errorf("exports{excel} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(p.exportBytes); n != 1 {
		t.Errorf("export bytes series = %d, want 1", n)
	}
}

func TestNewPipeline_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPipeline(reg); err != nil {
		t.Fatalf("first NewPipeline() error = %v", err)
	}
	if _, err := NewPipeline(reg); err == nil {
		t.Error("second NewPipeline() on same registry should fail")
	}
}

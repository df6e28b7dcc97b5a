// Package metrics exposes Prometheus collectors for the cleaning pipeline.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/datasweep/internal/core"
)

// Pipeline counts pipeline events. It implements core.Observer.
type Pipeline struct {
	filesLoaded  *prometheus.CounterVec
	rowsRemoved  prometheus.Counter
	cellsImputed prometheus.Counter
	exports      *prometheus.CounterVec
	exportBytes  *prometheus.HistogramVec
}

var _ core.Observer = (*Pipeline)(nil)

// NewPipeline creates the collectors and registers them with reg.
func NewPipeline(reg prometheus.Registerer) (*Pipeline, error) {
	p := &Pipeline{
		filesLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datasweep_files_loaded_total",
				Help: "Uploaded files by extension and outcome.",
			},
			[]string{"extension", "outcome"},
		),
		rowsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datasweep_duplicate_rows_removed_total",
			Help: "Rows dropped by deduplication.",
		}),
		cellsImputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datasweep_cells_imputed_total",
			Help: "Missing numeric cells filled with a column mean.",
		}),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datasweep_exports_total",
				Help: "Export artifacts produced by format.",
			},
			[]string{"format"},
		),
		exportBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datasweep_export_bytes",
				Help:    "Size of export artifacts in bytes.",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"format"},
		),
	}

	for _, c := range []prometheus.Collector{p.filesLoaded, p.rowsRemoved, p.cellsImputed, p.exports, p.exportBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FileLoaded records a load attempt.
func (p *Pipeline) FileLoaded(ext string, err error) {
	// Extensions come from user filenames; keep the label set bounded.
	if !core.Supported(ext) {
		ext = "other"
	}
	p.filesLoaded.WithLabelValues(ext, outcome(err)).Inc()
}

// Cleaned records what a recipe change did.
func (p *Pipeline) Cleaned(res core.CleaningResult) {
	p.rowsRemoved.Add(float64(res.RowsRemoved))
	filled := 0
	for _, c := range res.Imputed {
		filled += c.Filled
	}
	p.cellsImputed.Add(float64(filled))
}

// Exported records a produced artifact.
func (p *Pipeline) Exported(format core.ExportFormat, size int) {
	p.exports.WithLabelValues(string(format)).Inc()
	p.exportBytes.WithLabelValues(string(format)).Observe(float64(size))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrUnsupportedFormat):
		return "unsupported"
	case errors.Is(err, core.ErrParse):
		return "parse_error"
	case errors.Is(err, core.ErrTooManyUploads):
		return "busy"
	default:
		return "error"
	}
}

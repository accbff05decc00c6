// Package metrics records engine activity as Prometheus metrics.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Recorder implements gridcalc.Recorder on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	commitsTotal      *prometheus.CounterVec
	commitDuration    prometheus.Histogram
	recalculatedCells prometheus.Histogram
	transformCells    *prometheus.CounterVec
	styleCells        *prometheus.CounterVec
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridcalc_commits_total",
			Help: "Total committed edits by kind (literal, formula, error)",
		}, []string{"kind"}),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridcalc_commit_duration_seconds",
			Help:    "Time spent evaluating and propagating one edit",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		recalculatedCells: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridcalc_recalculated_cells",
			Help:    "Formula cells re-evaluated per edit",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		transformCells: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridcalc_transform_cells_total",
			Help: "Cells selected for transforms by transform name",
		}, []string{"transform"}),
		styleCells: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridcalc_style_cells_total",
			Help: "Cells styled by property",
		}, []string{"property"}),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordCommit(kind string, evaluated int, elapsed time.Duration) {
	r.commitsTotal.WithLabelValues(kind).Inc()
	r.commitDuration.Observe(elapsed.Seconds())
	r.recalculatedCells.Observe(float64(evaluated))
}

func (r *Recorder) RecordTransform(name string, cells int) {
	r.transformCells.WithLabelValues(name).Add(float64(cells))
}

func (r *Recorder) RecordStyle(property string, cells int) {
	r.styleCells.WithLabelValues(property).Add(float64(cells))
}

// Families gathers the current metric values, sorted by name.
func (r *Recorder) Families() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}

// WriteText writes every metric in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.Families()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

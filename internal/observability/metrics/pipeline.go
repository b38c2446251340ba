package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains all Prometheus metrics related to log reductions.
type PipelineMetrics struct {
	RunsTotal        *prometheus.CounterVec
	RunErrors        *prometheus.CounterVec
	RecordsIngested  prometheus.Counter
	RowsDropped      prometheus.Counter
	StageDuration    *prometheus.HistogramVec
	ActiveReductions prometheus.Gauge
}

// NewPipelineMetrics creates and registers the pipeline metrics.
func NewPipelineMetrics(registry prometheus.Registerer) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
	}
	return m, nil
}

func (m *PipelineMetrics) initMetrics() {
	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qlp_runs_total",
			Help: "Total number of log reductions partitioned by band and status.",
		},
		[]string{"band", "status"},
	)
	m.RunErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qlp_run_errors_total",
			Help: "Failed log reductions partitioned by error category.",
		},
		[]string{"category"},
	)
	m.RecordsIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qlp_records_ingested_total",
			Help: "Data rows read from pointing logs.",
		},
	)
	m.RowsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qlp_rows_dropped_total",
			Help: "Rows dropped because the offset fit failed.",
		},
	)
	m.StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qlp_stage_duration_seconds",
			Help:    "Time spent in each reduction stage",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		},
		[]string{"stage"},
	)
	m.ActiveReductions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "qlp_active_reductions",
			Help: "Number of reductions currently running",
		},
	)
}

// RecordRun counts one finished reduction. band may be empty when the run
// failed before classification.
func (m *PipelineMetrics) RecordRun(band string, err error, category string) {
	if band == "" {
		band = "none"
	}
	if err != nil {
		m.RunsTotal.WithLabelValues(band, StatusError).Inc()
		m.RunErrors.WithLabelValues(category).Inc()
		return
	}
	m.RunsTotal.WithLabelValues(band, StatusSuccess).Inc()
}

// RecordRows adds the row accounting of one ingested log
func (m *PipelineMetrics) RecordRows(read, dropped int) {
	m.RecordsIngested.Add(float64(read))
	m.RowsDropped.Add(float64(dropped))
}

// RecordStage observes the duration of one stage
func (m *PipelineMetrics) RecordStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.RunsTotal.Describe(ch)
	m.RunErrors.Describe(ch)
	ch <- m.RecordsIngested.Desc()
	ch <- m.RowsDropped.Desc()
	m.StageDuration.Describe(ch)
	ch <- m.ActiveReductions.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	m.RunsTotal.Collect(ch)
	m.RunErrors.Collect(ch)
	ch <- m.RecordsIngested
	ch <- m.RowsDropped
	m.StageDuration.Collect(ch)
	ch <- m.ActiveReductions
}

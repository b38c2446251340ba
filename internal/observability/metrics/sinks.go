package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// SinkMetrics tracks writes of completed products to tables, figures and stores
type SinkMetrics struct {
	WritesTotal   *prometheus.CounterVec
	WriteDuration *prometheus.HistogramVec
}

// NewSinkMetrics creates and registers the sink metrics.
func NewSinkMetrics(registry prometheus.Registerer) (*SinkMetrics, error) {
	m := &SinkMetrics{
		WritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qlp_sink_writes_total",
				Help: "Product writes partitioned by sink and status.",
			},
			[]string{"sink", "status"},
		),
		WriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qlp_sink_write_duration_seconds",
				Help:    "Time taken to write one product to a sink",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 9), // 0.1ms to ~6.5s
			},
			[]string{"sink"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register sink metrics: %w", err)
	}
	return m, nil
}

// RecordWrite records one sink write
func (m *SinkMetrics) RecordWrite(sink string, seconds float64, err error) {
	if err != nil {
		m.WritesTotal.WithLabelValues(sink, StatusError).Inc()
		return
	}
	m.WritesTotal.WithLabelValues(sink, StatusSuccess).Inc()
	m.WriteDuration.WithLabelValues(sink).Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *SinkMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.WritesTotal.Describe(ch)
	m.WriteDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *SinkMetrics) Collect(ch chan<- prometheus.Metric) {
	m.WritesTotal.Collect(ch)
	m.WriteDuration.Collect(ch)
}

// Package metrics provides custom Prometheus metrics for the qlp reducer.
package metrics

// Run and sink status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Sink label values
const (
	SinkTable   = "table"
	SinkProduct = "product"
	SinkFigure  = "figure"
	SinkSQLite  = "sqlite"
	SinkMySQL   = "mysql"
)

package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmatsuo0/qlp/internal/observability/metrics"
)

func TestPipelineMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Pipeline.RecordRun("43GHz", nil, "")
	m.Pipeline.RecordRun("43GHz", nil, "")
	m.Pipeline.RecordRun("", errors.New("no data"), "insufficient-data")
	m.Pipeline.RecordRows(10, 2)
	m.Pipeline.RecordStage("ingest", 0.001)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Pipeline.RunsTotal.WithLabelValues("43GHz", metrics.StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Pipeline.RunsTotal.WithLabelValues("none", metrics.StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Pipeline.RunErrors.WithLabelValues("insufficient-data")), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(m.Pipeline.RecordsIngested), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Pipeline.RowsDropped), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Pipeline.StageDuration))

	expected := `
# HELP qlp_rows_dropped_total Rows dropped because the offset fit failed.
# TYPE qlp_rows_dropped_total counter
qlp_rows_dropped_total 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "qlp_rows_dropped_total"))
}

func TestSinkMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Sinks.RecordWrite(metrics.SinkTable, 0.01, nil)
	m.Sinks.RecordWrite(metrics.SinkSQLite, 0.01, errors.New("locked"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.Sinks.WritesTotal.WithLabelValues(metrics.SinkTable, metrics.StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Sinks.WritesTotal.WithLabelValues(metrics.SinkSQLite, metrics.StatusError)), 0)
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.Pipeline.RecordRun("43GHz", nil, "")

	path := filepath.Join(t.TempDir(), "textfile", "qlp.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `qlp_runs_total{band="43GHz",status="success"} 1`)
}

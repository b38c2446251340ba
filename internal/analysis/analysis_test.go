package analysis

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/datastore"
	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/logger"
	"github.com/mmatsuo0/qlp/internal/observation"
	logs "github.com/mmatsuo0/qlp/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
}

// testSettings enables every file output below dir
func testSettings(dir string) *conf.Settings {
	s := &conf.Settings{}
	s.Threads = 2
	s.Main.Log.Level = "info"
	s.Pointing.Band = "43GHz"
	s.Pointing.ErrorSentinel = "ERR"
	s.Output.Table = conf.OutputDir{Enabled: true, Path: filepath.Join(dir, "table")}
	s.Output.Product = conf.OutputDir{Enabled: true, Path: filepath.Join(dir, "product")}
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = filepath.Join(dir, "qlp.db")
	s.Output.Metrics.Enabled = true
	s.Output.Metrics.Path = filepath.Join(dir, "metrics", "qlp.prom")
	return s
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestFileAnalysisWritesOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := testSettings(dir)
	s.Output.Figure = conf.OutputDir{Enabled: true, Path: filepath.Join(dir, "fig")}
	s.Input.Path = logs.WriteLog(t, dir, "pt_0001.txt", logs.TwoGroupLog())

	require.NoError(t, FileAnalysis(t.Context(), s, quietLogger()))

	lines := readLines(t, filepath.Join(dir, "table", "43GHz_params.txt"))
	require.Len(t, lines, 2)
	assert.Equal(t, observation.TableHeader(), lines[0])

	doc, err := observation.ReadProduct(filepath.Join(dir, "product", "43GHz", "pt_0001.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "A", doc.Array)

	assert.FileExists(t, filepath.Join(dir, "fig", "43GHz", "pt_0001.png"))

	prom, err := os.ReadFile(s.Output.Metrics.Path)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `qlp_runs_total{band="43GHz",status="success"} 1`)
	assert.Contains(t, string(prom), `qlp_sink_writes_total{sink="sqlite",status="success"} 1`)

	store := datastore.New(s, quietLogger())
	require.NoError(t, store.Open())
	defer store.Close()
	saved, err := store.Latest(t.Context(), "pt_0001")
	require.NoError(t, err)
	assert.Equal(t, "A", saved.Array)
	require.NotNil(t, saved.Daz)
	assert.InDelta(t, 1.5, *saved.Daz, 1e-9)
}

func TestFileAnalysisFailureWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := testSettings(dir)
	s.Input.Path = logs.WriteLog(t, dir, "pt_0002.txt", logs.ElevationMissingLog())

	err := FileAnalysis(t.Context(), s, quietLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))
	assert.Contains(t, err.Error(), "file=pt_0002")

	assert.NoFileExists(t, filepath.Join(dir, "table", "43GHz_params.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "product"))

	prom, readErr := os.ReadFile(s.Output.Metrics.Path)
	require.NoError(t, readErr)
	assert.Contains(t, string(prom), `qlp_run_errors_total{category="insufficient-data"} 1`)
}

func TestFileAnalysisInputErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name     string
		path     string
		category errors.ErrorCategory
	}{
		{"missing file", filepath.Join(dir, "nope.txt"), errors.CategoryFileIO},
		{"directory", dir, errors.CategoryValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testSettings(t.TempDir())
			s.Input.Path = tt.path
			err := FileAnalysis(t.Context(), s, quietLogger())
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestDirectoryContinuesPastFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "logs")
	logs.WriteLog(t, in, "b.txt", logs.TwoGroupLog())
	logs.WriteLog(t, in, "a.txt", logs.TwoGroupLog())
	logs.WriteLog(t, in, "c.txt", logs.ElevationMissingLog())
	logs.WriteLog(t, in, "notes.csv", "not a log")
	logs.WriteLog(t, in, filepath.Join("sub", "d.txt"), logs.TwoGroupLog())

	s := testSettings(dir)
	a, err := New(s, quietLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	summary, err := a.Directory(t.Context(), in, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLogsFailed))
	assert.Contains(t, err.Error(), "1 of 3")

	require.Len(t, summary.Results, 3)
	assert.Equal(t, 2, summary.Reduced)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, filepath.Join(in, "a.txt"), summary.Results[0].Path)
	assert.True(t, errors.IsCategory(summary.Results[2].Err, errors.CategoryInsufficientData))

	lines := readLines(t, filepath.Join(dir, "table", "43GHz_params.txt"))
	assert.Len(t, lines, 3)

	pm := a.Metrics().Pipeline
	assert.InDelta(t, 2, testutil.ToFloat64(pm.RunsTotal.WithLabelValues("43GHz", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pm.RunsTotal.WithLabelValues("43GHz", "error")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(pm.ActiveReductions), 0)
}

func TestDirectoryAnalysisRecursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logs.WriteLog(t, dir, "a.txt", logs.TwoGroupLog())
	logs.WriteLog(t, dir, filepath.Join("night2", "b.txt"), logs.TwoGroupLog())

	s := testSettings(dir)
	s.Output.SQLite.Enabled = false
	s.Input.Path = dir
	s.Input.Recursive = true

	require.NoError(t, DirectoryAnalysis(t.Context(), s, quietLogger()))

	// the table directory lives below the input and is not scanned
	lines := readLines(t, filepath.Join(dir, "table", "43GHz_params.txt"))
	assert.Len(t, lines, 3)
}

func TestDirectoryWithoutLogs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := testSettings(dir)
	a, err := New(s, quietLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	summary, err := a.Directory(t.Context(), dir, false)
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
}

func TestDirectoryAnalysisRejectsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := testSettings(dir)
	s.Input.Path = logs.WriteLog(t, dir, "a.txt", logs.TwoGroupLog())

	err := DirectoryAnalysis(t.Context(), s, quietLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestCancelledDirectoryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logs.WriteLog(t, dir, "a.txt", logs.TwoGroupLog())
	s := testSettings(t.TempDir())
	s.Output.SQLite.Enabled = false

	a, err := New(s, quietLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	summary, err := a.Directory(ctx, dir, false)
	require.Error(t, err)
	require.Len(t, summary.Results, 1)
	assert.True(t, errors.IsCategory(summary.Results[0].Err, errors.CategoryCancellation))
}

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		threads int
		want    int
	}{
		{threads: 1, want: 1},
		{threads: 4, want: 4},
		{threads: 64, want: maxWorkers},
		{threads: -3, want: clampInt(runtime.NumCPU(), 1, maxWorkers)},
		{threads: 0, want: clampInt(runtime.NumCPU(), 1, maxWorkers)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, workerCount(tt.threads), "threads=%d", tt.threads)
	}
}

// Package observation writes completed reductions to their on-disk sinks:
// the per-band params table and the YAML data product.
package observation

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/pointing"
)

// tableColumns is the fixed column order of a params table
var tableColumns = []string{
	"offset_mean_az", "offset_std_az", "hpbw_mean_az", "hpbw_std_az",
	"offset_mean_el", "offset_std_el", "hpbw_mean_el", "hpbw_std_el",
	"az", "el", "daz", "del", "sn",
	"temp", "ap", "wv", "ws", "ws_std", "wd", "wd_std",
}

// TableHeader returns the header line of a params table, without newline
func TableHeader() string {
	return strings.Join(tableColumns, ",")
}

// TableRow renders statistics in table column order
func TableRow(st *pointing.AggregateStatistics) []string {
	az, el := st.Axes[pointing.Azimuth], st.Axes[pointing.Elevation]
	env := st.Environment
	values := []float64{
		az.Offset.Mean, az.Offset.Std, az.HPBW.Mean, az.HPBW.Std,
		el.Offset.Mean, el.Offset.Std, el.HPBW.Mean, el.HPBW.Std,
		st.Azimuth, st.Elevation,
		st.FinalCorrection[pointing.Azimuth], st.FinalCorrection[pointing.Elevation],
		st.SignalToNoise,
		env.Temperature.Mean, env.AirPressure.Mean, env.WaterVapor.Mean,
		env.WindSpeed.Mean, env.WindSpeed.Std,
		env.WindDirection.Mean, env.WindDirection.Std,
	}
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = FormatFloat(v)
	}
	return row
}

// FormatFloat renders a value the way existing params tables store them:
// shortest round-trip digits, at least one decimal, "nan" for NaN and
// scientific notation outside [1e-4, 1e16).
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// TableWriter appends one row per completed reduction to
// <dir>/<band>_params.txt. The header is written when the file is created.
type TableWriter struct {
	dir string
	mu  sync.Mutex
}

// NewTableWriter returns a writer for the given table directory
func NewTableWriter(dir string) *TableWriter {
	return &TableWriter{dir: dir}
}

// Path returns the table file for a band
func (w *TableWriter) Path(band pointing.Band) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_params.txt", band))
}

// Write appends the product's statistics to its band table
func (w *TableWriter) Write(p *pointing.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fileIOError(fmt.Errorf("failed to create table directory: %w", err), p.FileBase)
	}

	path := w.Path(p.Band)
	_, statErr := os.Stat(path)
	needHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fileIOError(fmt.Errorf("failed to open table %s: %w", path, err), p.FileBase)
	}
	defer file.Close()

	var sb strings.Builder
	if needHeader {
		sb.WriteString(TableHeader())
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Join(TableRow(&p.Statistics), ","))
	sb.WriteByte('\n')

	if _, err := file.WriteString(sb.String()); err != nil {
		return fileIOError(fmt.Errorf("failed to write table row: %w", err), p.FileBase)
	}
	return nil
}

func fileIOError(err error, fileBase string) error {
	return errors.New(err).
		Component("observation").
		Category(errors.CategoryFileIO).
		FileContext(fileBase).
		Build()
}

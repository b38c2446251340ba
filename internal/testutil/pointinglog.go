// Package testutil provides shared test fixtures for qlp packages: synthetic
// pointing logs built column by column.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Columns is the header of a synthetic pointing log
var Columns = []string{
	"AZEL", "DATE_OBS", "offset", "hpbw",
	"qlookAutoDaz", "manualDaz", "qlookAutoDel", "manualDel",
	"IntegINT1", "rmsIntegInt1", "IntegINT2", "rmsIntegInt2", "IntegINT3", "rmsIntegInt3",
	"ARRAY", "pos1", "OBJECT", "peakTa*2",
	"AZreal", "ELreal", "Temp", "AirPress", "WaterVapor", "wind_sp", "wind_dir",
}

// DefaultCells fills every column a row does not set. The defaults
// describe a valid 43GHz azimuth sample of array A.
var DefaultCells = map[string]string{
	"AZEL":         "AZ",
	"DATE_OBS":     "2017-03-01 10:00:00",
	"offset":       "1.0",
	"hpbw":         "40.0",
	"qlookAutoDaz": "0",
	"manualDaz":    "0",
	"qlookAutoDel": "0",
	"manualDel":    "0",
	"IntegINT1":    "10",
	"rmsIntegInt1": "1",
	"IntegINT2":    "10",
	"rmsIntegInt2": "1",
	"IntegINT3":    "10",
	"rmsIntegInt3": "1",
	"ARRAY":        "A",
	"pos1":         "20.0",
	"OBJECT":       "W51",
	"peakTa*2":     "5.0",
	"AZreal":       "180",
	"ELreal":       "45",
	"Temp":         "10",
	"AirPress":     "900",
	"WaterVapor":   "5",
	"wind_sp":      "2",
	"wind_dir":     "90",
}

// Row builds a log row from column/value pairs
func Row(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// LogCSV renders rows as a pointing log with every column present
func LogCSV(rows ...map[string]string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(Columns, ","))
	sb.WriteByte('\n')
	for _, r := range rows {
		vals := make([]string, len(Columns))
		for i, c := range Columns {
			if v, ok := r[c]; ok {
				vals[i] = v
			} else {
				vals[i] = DefaultCells[c]
			}
		}
		sb.WriteString(strings.Join(vals, ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// TwoGroupLog is a 43GHz log with arrays A and B where A has the higher
// summed SN2 and one failed fit. Corrections are telescope state, so both
// groups log the same values.
func TwoGroupLog() string {
	return LogCSV(
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:00:00", "ARRAY", "A", "IntegINT2", "20", "offset", "1.0", "qlookAutoDaz", "0.5"),
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:00:00", "ARRAY", "B", "IntegINT2", "5", "offset", "9.0", "qlookAutoDaz", "0.5"),
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:01:00", "ARRAY", "A", "IntegINT2", "22", "offset", "ERR"),
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:02:00", "ARRAY", "A", "IntegINT2", "24", "offset", "2.0", "qlookAutoDaz", "1.0", "manualDaz", "0.5", "peakTa*2", "8.5"),
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:02:00", "ARRAY", "B", "IntegINT2", "6", "offset", "9.0", "qlookAutoDaz", "1.0", "manualDaz", "0.5"),
		Row("AZEL", "EL", "DATE_OBS", "2017-03-01 10:04:00", "ARRAY", "A", "IntegINT2", "18", "offset", "-1.0", "qlookAutoDel", "-0.5", "manualDel", "0.5"),
		Row("AZEL", "EL", "DATE_OBS", "2017-03-01 10:04:00", "ARRAY", "B", "IntegINT2", "4", "offset", "7.0", "qlookAutoDel", "-0.5", "manualDel", "0.5"),
		Row("AZEL", "EL", "DATE_OBS", "2017-03-01 10:05:00", "ARRAY", "A", "IntegINT2", "19", "offset", "-2.0", "qlookAutoDel", "-1.0", "manualDel", "0.5"),
	)
}

// ElevationMissingLog is a 43GHz log without elevation samples
func ElevationMissingLog() string {
	return LogCSV(
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:00:00"),
		Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:01:00"),
	)
}

// WriteLog writes content to dir/name and returns the path
func WriteLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

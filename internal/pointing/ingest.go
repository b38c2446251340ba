package pointing

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mmatsuo0/qlp/internal/errors"
)

// DefaultErrorSentinel marks a failed offset fit in the log
const DefaultErrorSentinel = "ERR"

// Log column names
const (
	colAxis       = "AZEL"
	colTimestamp  = "DATE_OBS"
	colOffset     = "offset"
	colHPBW       = "hpbw"
	colArray      = "ARRAY"
	colPos1       = "pos1"
	colObject     = "OBJECT"
	colPeak       = "peakTa*2"
	colAZReal     = "AZreal"
	colELReal     = "ELreal"
	colTemp       = "Temp"
	colAirPress   = "AirPress"
	colWaterVapor = "WaterVapor"
	colWindSpeed  = "wind_sp"
	colWindDir    = "wind_dir"
)

func integrationColumn(i int) string { return fmt.Sprintf("IntegINT%d", i+1) }
func rmsColumn(i int) string         { return fmt.Sprintf("rmsIntegInt%d", i+1) }

// RequiredColumns returns every column the reducer reads, in a stable order
func RequiredColumns() []string {
	cols := []string{colAxis, colTimestamp, colOffset, colHPBW}
	for _, a := range Axes {
		cols = append(cols, axisTable[a].autoCorrection, axisTable[a].manualCorrection)
	}
	for i := range SignalPoints {
		cols = append(cols, integrationColumn(i), rmsColumn(i))
	}
	return append(cols, colArray, colPos1, colObject, colPeak,
		colAZReal, colELReal, colTemp, colAirPress, colWaterVapor, colWindSpeed, colWindDir)
}

// IngestResult holds the validated records and row accounting
type IngestResult struct {
	Records     []RawRecord
	RowsRead    int // data rows in the file
	RowsDropped int // rows whose offset carried the error sentinel
}

// Ingest parses a comma-separated pointing log. Rows whose offset equals
// sentinel are dropped before any numeric conversion. Empty numeric cells
// become NaN; any other non-numeric value is a data format error naming the
// column and line.
func Ingest(fileBase string, r io.Reader, sentinel string) (*IngestResult, error) {
	if sentinel == "" {
		sentinel = DefaultErrorSentinel
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.DataFormat(fileBase, "file is empty")
	}
	if err != nil {
		return nil, errors.DataFormat(fileBase, fmt.Sprintf("unreadable header: %v", err))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.DataFormat(fileBase, "missing required columns: "+strings.Join(missing, ", "))
	}

	result := &IngestResult{}
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.DataFormat(fileBase, fmt.Sprintf("malformed row: %v", err))
		}
		result.RowsRead++

		line, _ := cr.FieldPos(0)
		p := rowParser{fields: fields, index: index, line: line}
		if strings.TrimSpace(p.text(colOffset)) == sentinel {
			result.RowsDropped++
			continue
		}

		rec := p.record()
		if p.err != nil {
			return nil, errors.DataFormat(fileBase, p.err.Error())
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// rowParser converts one CSV row, keeping the first conversion error
type rowParser struct {
	fields []string
	index  map[string]int
	line   int
	err    error
}

func (p *rowParser) text(col string) string {
	return p.fields[p.index[col]]
}

func (p *rowParser) float(col string) float64 {
	if p.err != nil {
		return math.NaN()
	}
	s := strings.TrimSpace(p.text(col))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("column %s line %d: invalid number %q", col, p.line, s)
		return math.NaN()
	}
	return v
}

func (p *rowParser) record() RawRecord {
	rec := RawRecord{
		Line:      p.line,
		Tag:       strings.TrimSpace(p.text(colAxis)),
		Timestamp: p.text(colTimestamp),
		Offset:    p.float(colOffset),
		HPBW:      p.float(colHPBW),
		Array:     strings.TrimSpace(p.text(colArray)),
		Pos1:      p.float(colPos1),
		Object:    strings.TrimSpace(p.text(colObject)),
		PeakTa:    p.float(colPeak),

		AZReal:        p.float(colAZReal),
		ELReal:        p.float(colELReal),
		Temperature:   p.float(colTemp),
		AirPressure:   p.float(colAirPress),
		WaterVapor:    p.float(colWaterVapor),
		WindSpeed:     p.float(colWindSpeed),
		WindDirection: p.float(colWindDir),
	}
	rec.Time, _ = ParseTimestamp(rec.Timestamp)
	for _, a := range Axes {
		rec.AutoCorrection[a] = p.float(axisTable[a].autoCorrection)
		rec.ManualCorrection[a] = p.float(axisTable[a].manualCorrection)
	}
	for i := range SignalPoints {
		rec.Integration[i] = p.float(integrationColumn(i))
		rec.RMS[i] = p.float(rmsColumn(i))
	}
	return rec
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006/01/02 15:04:05.999999999",
	time.RFC3339Nano,
}

// ParseTimestamp parses a DATE_OBS value. Timestamps without a zone are
// taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package observation

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mmatsuo0/qlp/internal/pointing"
)

// ProductDocument is the serialized form of a reduction for renderers and
// later inspection.
type ProductDocument struct {
	File   string `yaml:"file"`
	Band   string `yaml:"band"`
	Array  string `yaml:"array"`
	Object string `yaml:"object"`
	Day    string `yaml:"day"`

	RowsRead    int `yaml:"rows_read"`
	RowsDropped int `yaml:"rows_dropped"`

	Scores []ScoreDocument `yaml:"scores"`

	Position      PositionDocument    `yaml:"position"`
	SignalToNoise float64             `yaml:"sn"`
	Environment   EnvironmentDocument `yaml:"environment"`
	Peak          PeakDocument        `yaml:"peak"`
	Display       DisplayDocument     `yaml:"display"`

	Azimuth   AxisDocument `yaml:"azimuth"`
	Elevation AxisDocument `yaml:"elevation"`
}

// ScoreDocument is the selection score of one array group
type ScoreDocument struct {
	Array string  `yaml:"array"`
	Score float64 `yaml:"score"`
}

// MeanStdDocument is a mean with its standard deviation
type MeanStdDocument struct {
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
}

// PositionDocument is the mean pointing position over both scans
type PositionDocument struct {
	Azimuth   float64 `yaml:"az"`
	Elevation float64 `yaml:"el"`
}

// EnvironmentDocument holds the weather summaries
type EnvironmentDocument struct {
	Temperature   MeanStdDocument `yaml:"temp"`
	AirPressure   MeanStdDocument `yaml:"ap"`
	WaterVapor    MeanStdDocument `yaml:"wv"`
	WindSpeed     MeanStdDocument `yaml:"ws"`
	WindDirection MeanStdDocument `yaml:"wd"`
}

// PeakDocument is the peak antenna temperature
type PeakDocument struct {
	Found     bool    `yaml:"found"`
	Value     float64 `yaml:"value"`
	Axis      string  `yaml:"axis,omitempty"`
	Timestamp string  `yaml:"timestamp,omitempty"`
}

// DisplayDocument carries the renderer ranges and tick layout
type DisplayDocument struct {
	Offset       [2]float64 `yaml:"offset,flow"`
	HPBW         [2]float64 `yaml:"hpbw,flow"`
	WindSpeed    [2]float64 `yaml:"wind_speed,flow"`
	TickInterval string     `yaml:"tick_interval"`
	TickLayout   string     `yaml:"tick_layout"`
	TickPad      string     `yaml:"tick_pad"`
}

// AxisDocument is one selected scan with its summaries
type AxisDocument struct {
	Offset          MeanStdDocument  `yaml:"offset"`
	HPBW            MeanStdDocument  `yaml:"hpbw"`
	FinalCorrection float64          `yaml:"final_correction"`
	Duration        string           `yaml:"duration"`
	Events          []EventDocument  `yaml:"events"`
	Samples         []SampleDocument `yaml:"samples"`
}

// EventDocument is one correction change
type EventDocument struct {
	Timestamp string  `yaml:"timestamp"`
	Magnitude float64 `yaml:"magnitude"`
}

// SampleDocument is one selected record with its derived fields
type SampleDocument struct {
	Line            int        `yaml:"line"`
	Timestamp       string     `yaml:"timestamp"`
	Offset          float64    `yaml:"offset"`
	CorrectedOffset float64    `yaml:"corrected_offset"`
	CorrectionDelta float64    `yaml:"correction_delta"`
	TotalCorrection float64    `yaml:"total_correction"`
	HPBW            float64    `yaml:"hpbw"`
	SN              [3]float64 `yaml:"sn,flow"`
	PeakTa          float64    `yaml:"peak_ta"`
	WindSpeed       float64    `yaml:"wind_speed"`
}

func meanStd(m pointing.MeanStd) MeanStdDocument {
	return MeanStdDocument{Mean: m.Mean, Std: m.Std}
}

func axisDocument(p *pointing.Product, a pointing.Axis) AxisDocument {
	st := p.Statistics.Axes[a]
	doc := AxisDocument{
		Offset:          meanStd(st.Offset),
		HPBW:            meanStd(st.HPBW),
		FinalCorrection: p.Statistics.FinalCorrection[a],
		Duration:        p.Durations[a].String(),
		Events:          make([]EventDocument, 0, len(p.Events[a])),
	}
	for _, ev := range p.Events[a] {
		doc.Events = append(doc.Events, EventDocument{Timestamp: ev.Timestamp, Magnitude: ev.Magnitude})
	}
	recs := p.Selection.Scan(a).Records
	doc.Samples = make([]SampleDocument, len(recs))
	for i := range recs {
		r := &recs[i]
		doc.Samples[i] = SampleDocument{
			Line:            r.Line,
			Timestamp:       r.Timestamp,
			Offset:          r.Offset,
			CorrectedOffset: r.CorrectedOffset,
			CorrectionDelta: r.CorrectionDelta,
			TotalCorrection: r.TotalCorrection,
			HPBW:            r.HPBW,
			SN:              r.SN,
			PeakTa:          r.PeakTa,
			WindSpeed:       r.WindSpeed,
		}
	}
	return doc
}

// NewProductDocument flattens a product for serialization
func NewProductDocument(p *pointing.Product) *ProductDocument {
	st := &p.Statistics
	env := st.Environment
	doc := &ProductDocument{
		File:          p.FileBase,
		Band:          string(p.Band),
		Array:         p.Selection.Array,
		Object:        p.Object,
		Day:           p.Day,
		RowsRead:      p.RowsRead,
		RowsDropped:   p.RowsDropped,
		Position:      PositionDocument{Azimuth: st.Azimuth, Elevation: st.Elevation},
		SignalToNoise: st.SignalToNoise,
		Environment: EnvironmentDocument{
			Temperature:   meanStd(env.Temperature),
			AirPressure:   meanStd(env.AirPressure),
			WaterVapor:    meanStd(env.WaterVapor),
			WindSpeed:     meanStd(env.WindSpeed),
			WindDirection: meanStd(env.WindDirection),
		},
		Peak: PeakDocument{Found: p.Peak.Found, Value: p.Peak.Value},
		Display: DisplayDocument{
			Offset:       [2]float64{p.Display.Offset.Min, p.Display.Offset.Max},
			HPBW:         [2]float64{p.Display.HPBW.Min, p.Display.HPBW.Max},
			WindSpeed:    [2]float64{p.Display.WindSpeed.Min, p.Display.WindSpeed.Max},
			TickInterval: p.Ticks.Interval.String(),
			TickLayout:   p.Ticks.Layout,
			TickPad:      p.Ticks.Pad.String(),
		},
		Azimuth:   axisDocument(p, pointing.Azimuth),
		Elevation: axisDocument(p, pointing.Elevation),
	}
	if p.Peak.Found {
		doc.Peak.Axis = p.Peak.Axis.Tag()
		doc.Peak.Timestamp = p.Peak.Timestamp
	}
	for _, s := range p.Selection.Scores {
		doc.Scores = append(doc.Scores, ScoreDocument{Array: s.Array, Score: s.Score})
	}
	return doc
}

// ProductWriter stores YAML products at <dir>/<band>/<file base>.yaml
type ProductWriter struct {
	dir string
}

// NewProductWriter returns a writer for the given product directory
func NewProductWriter(dir string) *ProductWriter {
	return &ProductWriter{dir: dir}
}

// Path returns where the product of a reduction is stored
func (w *ProductWriter) Path(p *pointing.Product) string {
	return filepath.Join(w.dir, string(p.Band), p.FileBase+".yaml")
}

// Write serializes the product, replacing an earlier export of the same log
func (w *ProductWriter) Write(p *pointing.Product) (string, error) {
	path := w.Path(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fileIOError(fmt.Errorf("failed to create product directory: %w", err), p.FileBase)
	}

	data, err := yaml.Marshal(NewProductDocument(p))
	if err != nil {
		return "", fileIOError(fmt.Errorf("failed to encode product: %w", err), p.FileBase)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fileIOError(fmt.Errorf("failed to write product: %w", err), p.FileBase)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fileIOError(fmt.Errorf("failed to move product into place: %w", err), p.FileBase)
	}
	return path, nil
}

// ReadProduct loads a product written by ProductWriter
func ReadProduct(path string) (*ProductDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	var doc ProductDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", path, err)
	}
	return &doc, nil
}

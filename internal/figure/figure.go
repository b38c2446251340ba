// Package figure renders the quick-look PNG of a completed reduction. It
// only draws what the product already carries; nothing is recomputed.
package figure

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/pointing"
)

const (
	figureWidth  = 10 * vg.Inch
	figureHeight = 10 * vg.Inch

	// maxTicks bounds the tick marks of one axis
	maxTicks = 200
)

var (
	colorCorrected = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorRaw       = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorDelta     = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorSN3       = color.RGBA{R: 148, G: 103, B: 189, A: 255}
	colorPeak      = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorEvent     = color.Black
)

// Writer stores figures at <dir>/<band>/<file base>.png
type Writer struct {
	dir string
}

// NewWriter returns a figure writer for the given directory
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns where the figure of a product is stored
func (w *Writer) Path(p *pointing.Product) string {
	return filepath.Join(w.dir, string(p.Band), p.FileBase+".png")
}

// Write renders the product and stores the PNG, returning its path
func (w *Writer) Write(p *pointing.Product) (string, error) {
	path := w.Path(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", renderError(fmt.Errorf("failed to create figure directory: %w", err), p.FileBase)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", renderError(fmt.Errorf("failed to create figure: %w", err), p.FileBase)
	}
	if err := Render(p, f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", renderError(fmt.Errorf("failed to close figure: %w", err), p.FileBase)
	}
	return path, nil
}

// Render draws the figure of a product as PNG to out
func Render(p *pointing.Product, out io.Writer) error {
	panels, err := buildPanels(p)
	if err != nil {
		return renderError(err, p.FileBase)
	}

	img := vgimg.New(figureWidth, figureHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      len(pointing.Axes),
		PadX:      6 * vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    4 * vg.Millimeter,
		PadBottom: 4 * vg.Millimeter,
		PadLeft:   4 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}
	canvases := plot.Align(panels, tiles, dc)
	for row := range panels {
		for col := range panels[row] {
			panels[row][col].Draw(canvases[row][col])
		}
	}

	png := vgimg.PNGCanvas{Canvas: img}
	if _, err := png.WriteTo(out); err != nil {
		return renderError(fmt.Errorf("failed to encode PNG: %w", err), p.FileBase)
	}
	return nil
}

func renderError(err error, fileBase string) error {
	return errors.New(err).
		Component("figure").
		Category(errors.CategoryRender).
		FileContext(fileBase).
		Build()
}

// buildPanels lays out offset, HPBW, S/N and wind speed rows with one
// column per axis.
func buildPanels(p *pointing.Product) ([][]*plot.Plot, error) {
	const (
		rowOffset = iota
		rowHPBW
		rowSN
		rowWind
		rows
	)
	panels := make([][]*plot.Plot, rows)
	for r := range panels {
		panels[r] = make([]*plot.Plot, len(pointing.Axes))
	}

	st := &p.Statistics
	for _, a := range pointing.Axes {
		scan := p.Selection.Scan(a)
		axStats := st.Axes[a]

		offset := newPanel(p.Ticks)
		if err := addSeries(offset, scan, func(r *pointing.CorrectedRecord) float64 { return r.CorrectedOffset }, colorCorrected, false, "corrected"); err != nil {
			return nil, err
		}
		if err := addSeries(offset, scan, func(r *pointing.CorrectedRecord) float64 { return r.Offset }, colorRaw, true, "raw"); err != nil {
			return nil, err
		}
		if err := addSeries(offset, scan, func(r *pointing.CorrectedRecord) float64 { return r.CorrectionDelta }, colorDelta, false, "correction"); err != nil {
			return nil, err
		}
		if err := addEvents(offset, p.Events[a], p.Display.Offset); err != nil {
			return nil, err
		}
		offset.Y.Min, offset.Y.Max = p.Display.Offset.Min, p.Display.Offset.Max

		hpbw := newPanel(p.Ticks)
		hpbw.Title.Text = fmt.Sprintf("offset %+.1f ± %.1f\"  HPBW %.1f ± %.1f\"",
			axStats.Offset.Mean, axStats.Offset.Std, axStats.HPBW.Mean, axStats.HPBW.Std)
		if err := addSeries(hpbw, scan, func(r *pointing.CorrectedRecord) float64 { return r.HPBW }, colorCorrected, false, ""); err != nil {
			return nil, err
		}
		hpbw.Y.Min, hpbw.Y.Max = p.Display.HPBW.Min, p.Display.HPBW.Max

		sn := newPanel(p.Ticks)
		snSeries := []struct {
			idx   int
			color color.Color
			name  string
		}{
			{1, colorCorrected, "center"},
			{0, colorRaw, "pos1"},
			{2, colorSN3, "pos3"},
		}
		for _, s := range snSeries {
			legend := ""
			if a == pointing.Elevation {
				legend = s.name
			}
			if err := addSeries(sn, scan, func(r *pointing.CorrectedRecord) float64 { return r.SN[s.idx] }, s.color, false, legend); err != nil {
				return nil, err
			}
		}
		if p.Peak.Found && p.Peak.Axis == a {
			if err := addPeak(sn, p.Peak); err != nil {
				return nil, err
			}
		}

		wind := newPanel(p.Ticks)
		if err := addSeries(wind, scan, func(r *pointing.CorrectedRecord) float64 { return r.WindSpeed }, colorCorrected, false, ""); err != nil {
			return nil, err
		}
		wind.Y.Min, wind.Y.Max = p.Display.WindSpeed.Min, p.Display.WindSpeed.Max

		if p.Ticks.Pad > 0 && scan.Len() > 0 && !scan.Records[0].Time.IsZero() && !scan.Last().Time.IsZero() {
			lo := unixSeconds(scan.Records[0].Time.Add(-p.Ticks.Pad))
			hi := unixSeconds(scan.Last().Time.Add(p.Ticks.Pad))
			for _, panel := range []*plot.Plot{offset, hpbw, sn, wind} {
				panel.X.Min, panel.X.Max = lo, hi
			}
		}

		panels[rowOffset][a] = offset
		panels[rowHPBW][a] = hpbw
		panels[rowSN][a] = sn
		panels[rowWind][a] = wind
	}

	az := panels[rowOffset][pointing.Azimuth]
	az.Title.Text = fmt.Sprintf("Azimuth scan  %s  %s  array %s", p.Day, p.Band, p.Selection.Array)
	az.Y.Label.Text = "offset (\")"
	el := panels[rowOffset][pointing.Elevation]
	el.Title.Text = fmt.Sprintf("Elevation scan  (dAZ, dEL) = (%+.2f, %+.2f)",
		st.FinalCorrection[pointing.Azimuth], st.FinalCorrection[pointing.Elevation])
	el.Legend.Top = true

	panels[rowHPBW][pointing.Azimuth].Y.Label.Text = "HPBW (\")"

	snAz := panels[rowSN][pointing.Azimuth]
	snAz.Y.Label.Text = "S/N"
	snAz.Title.Text = p.Object
	if p.Peak.Found {
		snAz.Title.Text += fmt.Sprintf("  max TA*: %.1f K", p.Peak.Value)
	}
	panels[rowSN][pointing.Elevation].Legend.Top = true

	panels[rowWind][pointing.Azimuth].Y.Label.Text = "wind speed"
	return panels, nil
}

func newPanel(hint pointing.TickHint) *plot.Plot {
	p := plot.New()
	p.X.Tick.Marker = timeTicker{hint: hint}
	p.Add(plotter.NewGrid())
	return p
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// points collects drawable samples; records without a parsed time or with
// a non-finite value are skipped.
func points(scan pointing.CorrectedScan, field func(*pointing.CorrectedRecord) float64) plotter.XYs {
	pts := make(plotter.XYs, 0, scan.Len())
	for i := range scan.Records {
		r := &scan.Records[i]
		v := field(r)
		if r.Time.IsZero() || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: unixSeconds(r.Time), Y: v})
	}
	return pts
}

func addSeries(p *plot.Plot, scan pointing.CorrectedScan, field func(*pointing.CorrectedRecord) float64, c color.Color, dashed bool, legend string) error {
	pts := points(scan, field)
	if len(pts) == 0 {
		return nil
	}
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build series: %w", err)
	}
	line.Color = c
	line.Width = vg.Points(1)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(line, scatter)
	if legend != "" {
		p.Legend.Add(legend, line)
	}
	return nil
}

// addEvents draws a vertical marker labelled with the correction step at
// every correction event.
func addEvents(p *plot.Plot, events []pointing.CorrectionEvent, yr pointing.Range) error {
	for _, ev := range events {
		if ev.Time.IsZero() {
			continue
		}
		x := unixSeconds(ev.Time)
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: yr.Min}, {X: x, Y: yr.Max}})
		if err != nil {
			return fmt.Errorf("failed to build event marker: %w", err)
		}
		marker.Color = colorEvent
		marker.Width = vg.Points(0.5)

		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: x, Y: yr.Max}},
			Labels: []string{fmt.Sprintf("%+.1f", ev.Magnitude)},
		})
		if err != nil {
			return fmt.Errorf("failed to build event label: %w", err)
		}
		p.Add(marker, label)
	}
	return nil
}

func addPeak(p *plot.Plot, peak pointing.Peak) error {
	if peak.Time.IsZero() || math.IsNaN(peak.SN2) || math.IsInf(peak.SN2, 0) {
		return nil
	}
	mark, err := plotter.NewScatter(plotter.XYs{{X: unixSeconds(peak.Time), Y: peak.SN2}})
	if err != nil {
		return fmt.Errorf("failed to build peak marker: %w", err)
	}
	mark.GlyphStyle.Color = colorPeak
	mark.GlyphStyle.Radius = vg.Points(3)
	mark.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(mark)
	return nil
}

// timeTicker places time labels at multiples of the hinted interval
type timeTicker struct {
	hint pointing.TickHint
}

// Ticks implements plot.Ticker
func (tt timeTicker) Ticks(lo, hi float64) []plot.Tick {
	step := tt.hint.Interval.Seconds()
	if step <= 0 || hi < lo || (hi-lo)/step > maxTicks {
		return nil
	}
	var ticks []plot.Tick
	for v := math.Ceil(lo/step) * step; v <= hi; v += step {
		sec, frac := math.Modf(v)
		label := time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC().Format(tt.hint.Layout)
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

package pointing

import (
	"math"
	"strings"
	"time"
)

// Peak is the highest peakTa*2 over both selected scans
type Peak struct {
	Found     bool
	Value     float64 // K
	Axis      Axis
	Timestamp string
	Time      time.Time
	SN2       float64 // SN2 at the peak, where renderers mark it
}

// FindPeak returns the maximum PeakTa of the selection. Within an axis the
// first maximum wins; between axes azimuth wins ties. NaN values are skipped.
func FindPeak(sel *SelectionResult) Peak {
	var p Peak
	for _, a := range Axes {
		recs := sel.Selected[a].Records
		for i := range recs {
			v := recs[i].PeakTa
			if math.IsNaN(v) || (p.Found && v <= p.Value) {
				continue
			}
			p = Peak{
				Found:     true,
				Value:     v,
				Axis:      a,
				Timestamp: recs[i].Timestamp,
				Time:      recs[i].Time,
				SN2:       recs[i].SN2(),
			}
		}
	}
	if !p.Found {
		p.Value = math.NaN()
	}
	return p
}

// ObservationDay is the date part of a logged timestamp
func ObservationDay(timestamp string) string {
	if f := strings.Fields(timestamp); len(f) > 0 {
		if d, _, ok := strings.Cut(f[0], "T"); ok {
			return d
		}
		return f[0]
	}
	return ""
}

// Duration is the time between the first and last record of a scan, 0
// when either timestamp could not be parsed.
func Duration(scan CorrectedScan) time.Duration {
	if scan.Len() == 0 {
		return 0
	}
	first, last := scan.Records[0].Time, scan.Last().Time
	if first.IsZero() || last.IsZero() {
		return 0
	}
	return last.Sub(first)
}

// TickHint tells a renderer how to lay out the time axis
type TickHint struct {
	Interval time.Duration // major tick spacing
	Layout   string        // Go time layout for tick labels
	Pad      time.Duration // margin added before the first and after the last sample
}

// TickHintFor picks tick spacing from the scan durations. A zero-length scan
// on either axis gets one-minute ticks and a one-minute margin; otherwise the
// azimuth duration decides.
func TickHintFor(az, el time.Duration) TickHint {
	switch {
	case az <= 0 || el <= 0:
		return TickHint{Interval: time.Minute, Layout: time.TimeOnly, Pad: time.Minute}
	case az > 30*time.Minute:
		return TickHint{Interval: 10 * time.Minute, Layout: "15:04"}
	case az > 15*time.Minute:
		return TickHint{Interval: 5 * time.Minute, Layout: "15:04"}
	case az > 2*time.Minute:
		return TickHint{Interval: 2 * time.Minute, Layout: "15:04"}
	default:
		return TickHint{Interval: 2 * time.Minute, Layout: time.TimeOnly}
	}
}

// Range is a closed display interval
type Range struct {
	Min, Max float64
}

// Display holds the fixed panel ranges for a band
type Display struct {
	Offset    Range // arcsec
	HPBW      Range // arcsec
	WindSpeed Range
}

// DisplayFor returns the panel ranges used for a band
func DisplayFor(band Band) Display {
	d := Display{
		Offset:    Range{-15, 15},
		WindSpeed: Range{0, 10},
	}
	switch band {
	case Band22GHz:
		d.HPBW = Range{50, 100}
	case Band43GHz:
		d.HPBW = Range{20, 60}
	case Band86GHz:
		d.HPBW = Range{10, 30}
	default:
		d.HPBW = Range{10, 100}
	}
	return d
}

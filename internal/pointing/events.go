package pointing

import (
	"iter"
	"slices"
	"time"
)

// CorrectionEvent marks a change of the applied correction between two
// consecutive samples of a scan.
type CorrectionEvent struct {
	Timestamp string
	Time      time.Time
	Magnitude float64 // signed first difference of TotalCorrection
}

// Events yields the correction changes of a selected scan in order. The
// first sample has no predecessor and never produces an event.
func Events(scan CorrectedScan) iter.Seq[CorrectionEvent] {
	return func(yield func(CorrectionEvent) bool) {
		for i := 1; i < len(scan.Records); i++ {
			cur, prev := &scan.Records[i], &scan.Records[i-1]
			diff := cur.TotalCorrection - prev.TotalCorrection
			if diff == 0 {
				continue
			}
			if !yield(CorrectionEvent{Timestamp: cur.Timestamp, Time: cur.Time, Magnitude: diff}) {
				return
			}
		}
	}
}

// DetectEvents materializes Events
func DetectEvents(scan CorrectedScan) []CorrectionEvent {
	return slices.Collect(Events(scan))
}

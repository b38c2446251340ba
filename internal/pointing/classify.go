package pointing

import (
	"math"

	"github.com/mmatsuo0/qlp/internal/errors"
)

// Band is an observing frequency band
type Band string

const (
	Band22GHz   Band = "22GHz"
	Band43GHz   Band = "43GHz"
	Band86GHz   Band = "86GHz"
	BandUnknown Band = "unknown"
)

// bandWindow is an open interval of pos1 values identifying a band
type bandWindow struct {
	band     Band
	min, max float64
}

var bandWindows = []bandWindow{
	{Band22GHz, 34, 36},
	{Band43GHz, 19, 21},
	{Band86GHz, 9, 11},
}

// ClassifyBand maps a calibration position to its band. Bounds are
// exclusive; NaN and values outside every window are BandUnknown.
func ClassifyBand(pos1 float64) Band {
	if math.IsNaN(pos1) {
		return BandUnknown
	}
	for _, w := range bandWindows {
		if w.min < pos1 && pos1 < w.max {
			return w.band
		}
	}
	return BandUnknown
}

// Classify reads pos1 of the first record and gates the run on the accepted
// band. The classified band is returned even when it is rejected.
func Classify(fileBase string, records []RawRecord, accepted Band) (Band, error) {
	if len(records) == 0 {
		return BandUnknown, errors.InsufficientData(fileBase, "no records left after dropping error rows")
	}
	band := ClassifyBand(records[0].Pos1)
	if band != accepted {
		return band, errors.UnsupportedBand(fileBase, string(band))
	}
	return band, nil
}

package pointing

import "time"

// SignalPoints is the number of integration positions per scan
const SignalPoints = 3

// RawRecord is one validated row of a pointing log
type RawRecord struct {
	Line      int       // 1-based line in the log, header is line 1
	Tag       string    // AZEL column
	Timestamp string    // DATE_OBS exactly as logged
	Time      time.Time // parsed Timestamp, zero when it could not be parsed

	Offset float64 // raw pointing offset, arcsec
	HPBW   float64 // half-power beam width, arcsec

	// Correction terms indexed by Axis. Both axes are read for every row;
	// a row only uses the pair belonging to its own scan.
	AutoCorrection   [2]float64
	ManualCorrection [2]float64

	Integration [SignalPoints]float64 // IntegINT1..3
	RMS         [SignalPoints]float64 // rmsIntegInt1..3

	Array  string // ARRAY group identifier
	Pos1   float64
	Object string
	PeakTa float64 // peakTa*2

	AZReal, ELReal float64 // pointing position, deg
	Temperature    float64
	AirPressure    float64
	WaterVapor     float64
	WindSpeed      float64
	WindDirection  float64
}

// ScanSet is the ordered subset of records taken along one axis
type ScanSet struct {
	Axis    Axis
	Records []RawRecord
}

// Len returns the number of records in the scan
func (s ScanSet) Len() int { return len(s.Records) }

// CorrectedRecord is a RawRecord with the derived correction fields
type CorrectedRecord struct {
	RawRecord

	TotalCorrection float64 // automatic + manual correction
	CorrectionDelta float64 // TotalCorrection minus the scan's last TotalCorrection
	CorrectedOffset float64 // Offset + CorrectionDelta

	SN [SignalPoints]float64 // Integration[i] / RMS[i]
}

// SN2 is the signal-to-noise ratio at the scan center
func (r *CorrectedRecord) SN2() float64 { return r.SN[1] }

// CorrectedScan is a ScanSet after offset correction
type CorrectedScan struct {
	Axis    Axis
	Records []CorrectedRecord
}

// Len returns the number of records in the scan
func (s CorrectedScan) Len() int { return len(s.Records) }

// Last returns the final record of the scan. The scan must not be empty.
func (s CorrectedScan) Last() *CorrectedRecord { return &s.Records[len(s.Records)-1] }

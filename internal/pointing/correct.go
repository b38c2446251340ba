package pointing

// Correct derives the correction and signal-to-noise fields of one scan.
// Corrections are re-based to the scan's final applied value, so the last
// record always has a CorrectionDelta of exactly 0. Row order and count are
// preserved and the input is not modified.
func Correct(scan ScanSet) CorrectedScan {
	out := CorrectedScan{
		Axis:    scan.Axis,
		Records: make([]CorrectedRecord, len(scan.Records)),
	}
	if len(scan.Records) == 0 {
		return out
	}

	for i := range scan.Records {
		raw := scan.Records[i]
		out.Records[i] = CorrectedRecord{
			RawRecord:       raw,
			TotalCorrection: raw.AutoCorrection[scan.Axis] + raw.ManualCorrection[scan.Axis],
		}
		for k := range SignalPoints {
			out.Records[i].SN[k] = raw.Integration[k] / raw.RMS[k]
		}
	}

	final := out.Records[len(out.Records)-1].TotalCorrection
	for i := range out.Records {
		rec := &out.Records[i]
		rec.CorrectionDelta = rec.TotalCorrection - final
		rec.CorrectedOffset = rec.Offset + rec.CorrectionDelta
	}
	// the final sample is the reference even when its correction is NaN
	last := &out.Records[len(out.Records)-1]
	last.CorrectionDelta = 0
	last.CorrectedOffset = last.Offset
	return out
}

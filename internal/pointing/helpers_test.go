package pointing

// scanOf builds a corrected scan straight from field values
func scanOf(axis Axis, recs ...CorrectedRecord) CorrectedScan {
	return CorrectedScan{Axis: axis, Records: recs}
}

func rec(array, ts string, sn2 float64) CorrectedRecord {
	r := CorrectedRecord{}
	r.Array = array
	r.Timestamp = ts
	r.Time, _ = ParseTimestamp(ts)
	r.SN[1] = sn2
	return r
}

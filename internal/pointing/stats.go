package pointing

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MeanStd is a mean with its sample standard deviation
type MeanStd struct {
	Mean float64
	Std  float64
}

// AxisStatistics summarizes one selected scan
type AxisStatistics struct {
	Offset MeanStd // over CorrectedOffset
	HPBW   MeanStd
}

// Environment summarizes the weather columns over both selected scans
type Environment struct {
	Temperature   MeanStd
	AirPressure   MeanStd
	WaterVapor    MeanStd
	WindSpeed     MeanStd
	WindDirection MeanStd
}

// AggregateStatistics is the numeric payload of a reduction
type AggregateStatistics struct {
	Axes [2]AxisStatistics

	Azimuth   float64 // mean AZreal over both selected scans
	Elevation float64 // mean ELreal over both selected scans

	FinalCorrection [2]float64 // TotalCorrection of the last selected record per axis
	SignalToNoise   float64    // mean of the last selected SN2 of both axes

	Environment Environment
}

// Summarize returns the mean and sample standard deviation of values,
// ignoring NaN. The deviation is 0 for a single value; both are NaN when no
// value is left.
func Summarize(values []float64) MeanStd {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	switch len(valid) {
	case 0:
		return MeanStd{Mean: math.NaN(), Std: math.NaN()}
	case 1:
		return MeanStd{Mean: valid[0], Std: 0}
	}
	mean, std := stat.MeanStdDev(valid, nil)
	return MeanStd{Mean: mean, Std: std}
}

func column(records []CorrectedRecord, field func(*CorrectedRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i := range records {
		out[i] = field(&records[i])
	}
	return out
}

// Aggregate reduces a selection to its summary statistics
func Aggregate(sel *SelectionResult) AggregateStatistics {
	var st AggregateStatistics
	for _, a := range Axes {
		recs := sel.Selected[a].Records
		st.Axes[a] = AxisStatistics{
			Offset: Summarize(column(recs, func(r *CorrectedRecord) float64 { return r.CorrectedOffset })),
			HPBW:   Summarize(column(recs, func(r *CorrectedRecord) float64 { return r.HPBW })),
		}
		st.FinalCorrection[a] = sel.Selected[a].Last().TotalCorrection
	}

	st.SignalToNoise = (sel.Selected[Azimuth].Last().SN2() + sel.Selected[Elevation].Last().SN2()) / 2

	union := make([]CorrectedRecord, 0, sel.Selected[Azimuth].Len()+sel.Selected[Elevation].Len())
	union = append(union, sel.Selected[Azimuth].Records...)
	union = append(union, sel.Selected[Elevation].Records...)

	st.Azimuth = Summarize(column(union, func(r *CorrectedRecord) float64 { return r.AZReal })).Mean
	st.Elevation = Summarize(column(union, func(r *CorrectedRecord) float64 { return r.ELReal })).Mean
	st.Environment = Environment{
		Temperature:   Summarize(column(union, func(r *CorrectedRecord) float64 { return r.Temperature })),
		AirPressure:   Summarize(column(union, func(r *CorrectedRecord) float64 { return r.AirPressure })),
		WaterVapor:    Summarize(column(union, func(r *CorrectedRecord) float64 { return r.WaterVapor })),
		WindSpeed:     Summarize(column(union, func(r *CorrectedRecord) float64 { return r.WindSpeed })),
		WindDirection: Summarize(column(union, func(r *CorrectedRecord) float64 { return r.WindDirection })),
	}
	return st
}

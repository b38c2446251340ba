package datastore

import (
	"math"
	"time"

	"github.com/mmatsuo0/qlp/internal/pointing"
)

// Reduction is one successful log reduction. Statistics that are NaN are
// stored as NULL.
type Reduction struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"size:36;uniqueIndex"`
	FileBase    string `gorm:"index;size:255"`
	Band        string `gorm:"index;size:16"`
	Array       string `gorm:"size:64"`
	Object      string `gorm:"size:64"`
	Day         string `gorm:"size:16"`
	RowsRead    int
	RowsDropped int

	OffsetMeanAz *float64
	OffsetStdAz  *float64
	HPBWMeanAz   *float64 `gorm:"column:hpbw_mean_az"`
	HPBWStdAz    *float64 `gorm:"column:hpbw_std_az"`
	OffsetMeanEl *float64
	OffsetStdEl  *float64
	HPBWMeanEl   *float64 `gorm:"column:hpbw_mean_el"`
	HPBWStdEl    *float64 `gorm:"column:hpbw_std_el"`

	Az  *float64
	El  *float64
	Daz *float64
	Del *float64
	SN  *float64 `gorm:"column:sn"`

	Temp   *float64
	Ap     *float64
	Wv     *float64
	Ws     *float64
	WsStd  *float64
	Wd     *float64
	WdStd  *float64
	PeakTa *float64

	CreatedAt time.Time `gorm:"index"`
}

// TableName pins the table name
func (Reduction) TableName() string {
	return "reductions"
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NewReduction maps a completed product onto a store row
func NewReduction(runID string, p *pointing.Product) *Reduction {
	st := &p.Statistics
	az, el := st.Axes[pointing.Azimuth], st.Axes[pointing.Elevation]
	env := st.Environment
	return &Reduction{
		RunID:       runID,
		FileBase:    p.FileBase,
		Band:        string(p.Band),
		Array:       p.Selection.Array,
		Object:      p.Object,
		Day:         p.Day,
		RowsRead:    p.RowsRead,
		RowsDropped: p.RowsDropped,

		OffsetMeanAz: nullable(az.Offset.Mean),
		OffsetStdAz:  nullable(az.Offset.Std),
		HPBWMeanAz:   nullable(az.HPBW.Mean),
		HPBWStdAz:    nullable(az.HPBW.Std),
		OffsetMeanEl: nullable(el.Offset.Mean),
		OffsetStdEl:  nullable(el.Offset.Std),
		HPBWMeanEl:   nullable(el.HPBW.Mean),
		HPBWStdEl:    nullable(el.HPBW.Std),

		Az:  nullable(st.Azimuth),
		El:  nullable(st.Elevation),
		Daz: nullable(st.FinalCorrection[pointing.Azimuth]),
		Del: nullable(st.FinalCorrection[pointing.Elevation]),
		SN:  nullable(st.SignalToNoise),

		Temp:   nullable(env.Temperature.Mean),
		Ap:     nullable(env.AirPressure.Mean),
		Wv:     nullable(env.WaterVapor.Mean),
		Ws:     nullable(env.WindSpeed.Mean),
		WsStd:  nullable(env.WindSpeed.Std),
		Wd:     nullable(env.WindDirection.Mean),
		WdStd:  nullable(env.WindDirection.Std),
		PeakTa: nullable(p.Peak.Value),
	}
}

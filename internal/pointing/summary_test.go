package pointing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFindPeak(t *testing.T) {
	t.Parallel()

	peakRec := func(ts string, peak, sn2 float64) CorrectedRecord {
		r := rec("A", ts, sn2)
		r.PeakTa = peak
		return r
	}

	sel := &SelectionResult{}
	sel.Selected[Azimuth] = scanOf(Azimuth, peakRec("t1", 3, 1), peakRec("t2", math.NaN(), 2), peakRec("t3", 7, 3))
	sel.Selected[Elevation] = scanOf(Elevation, peakRec("t4", 7, 4), peakRec("t5", 6, 5))

	p := FindPeak(sel)
	assert.True(t, p.Found)
	assert.InDelta(t, 7.0, p.Value, 0)
	assert.Equal(t, Azimuth, p.Axis)
	assert.Equal(t, "t3", p.Timestamp)
	assert.InDelta(t, 3.0, p.SN2, 0)

	sel.Selected[Elevation].Records[1].PeakTa = 9
	p = FindPeak(sel)
	assert.Equal(t, Elevation, p.Axis)
	assert.Equal(t, "t5", p.Timestamp)

	empty := &SelectionResult{}
	empty.Selected[Azimuth] = scanOf(Azimuth, peakRec("t1", math.NaN(), 0))
	p = FindPeak(empty)
	assert.False(t, p.Found)
	assert.True(t, math.IsNaN(p.Value))
}

func TestObservationDay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2017-03-01", ObservationDay("2017-03-01 10:00:00"))
	assert.Equal(t, "2017-03-01", ObservationDay("2017-03-01T10:00:00Z"))
	assert.Empty(t, ObservationDay("  "))
}

func TestTickHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		az, el   time.Duration
		interval time.Duration
		layout   string
		pad      time.Duration
	}{
		{"zero azimuth", 0, time.Minute, time.Minute, "15:04:05", time.Minute},
		{"zero elevation", time.Hour, 0, time.Minute, "15:04:05", time.Minute},
		{"long", 31 * time.Minute, time.Minute, 10 * time.Minute, "15:04", 0},
		{"medium", 16 * time.Minute, time.Minute, 5 * time.Minute, "15:04", 0},
		{"short", 3 * time.Minute, time.Minute, 2 * time.Minute, "15:04", 0},
		{"very short", 90 * time.Second, time.Minute, 2 * time.Minute, "15:04:05", 0},
		{"exactly two minutes", 2 * time.Minute, time.Minute, 2 * time.Minute, "15:04:05", 0},
	}
	for _, tt := range tests {
		got := TickHintFor(tt.az, tt.el)
		assert.Equal(t, tt.interval, got.Interval, tt.name)
		assert.Equal(t, tt.layout, got.Layout, tt.name)
		assert.Equal(t, tt.pad, got.Pad, tt.name)
	}
}

func TestDisplayFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Range{50, 100}, DisplayFor(Band22GHz).HPBW)
	assert.Equal(t, Range{20, 60}, DisplayFor(Band43GHz).HPBW)
	assert.Equal(t, Range{10, 30}, DisplayFor(Band86GHz).HPBW)
	assert.Equal(t, Range{10, 100}, DisplayFor(BandUnknown).HPBW)
	assert.Equal(t, Range{-15, 15}, DisplayFor(Band43GHz).Offset)
}

func TestDuration(t *testing.T) {
	t.Parallel()

	scan := scanOf(Azimuth, rec("A", "2017-03-01 10:00:00", 0), rec("A", "2017-03-01 10:05:30", 0))
	assert.Equal(t, 5*time.Minute+30*time.Second, Duration(scan))
	assert.Equal(t, time.Duration(0), Duration(scanOf(Azimuth, rec("A", "bad", 0), rec("A", "2017-03-01 10:00:00", 0))))
	assert.Equal(t, time.Duration(0), Duration(scanOf(Azimuth)))
}

func TestAxis(t *testing.T) {
	t.Parallel()

	a, ok := ParseAxis("EL")
	assert.True(t, ok)
	assert.Equal(t, Elevation, a)
	assert.Equal(t, "elevation", a.String())
	assert.Equal(t, "AZ", Azimuth.Tag())

	_, ok = ParseAxis("az")
	assert.False(t, ok)

	text, err := Elevation.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "EL", string(text))

	_, err = Axis(5).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Axis(5)", Axis(5).String())
}

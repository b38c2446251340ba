package pointing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/testutil"
)

func TestPipelineSelectsBestArray(t *testing.T) {
	t.Parallel()

	var stages []Stage
	p := NewPipeline(Band43GHz, "ERR")
	p.OnStage = func(s Stage, _ time.Duration) { stages = append(stages, s) }

	product, err := p.Run(t.Context(), "pt_0001", strings.NewReader(testutil.TwoGroupLog()))
	require.NoError(t, err)

	assert.Equal(t, "pt_0001", product.FileBase)
	assert.Equal(t, Band43GHz, product.Band)
	assert.Equal(t, 8, product.RowsRead)
	assert.Equal(t, 1, product.RowsDropped)
	assert.Equal(t, "A", product.Selection.Array)
	assert.Equal(t, "W51", product.Object)
	assert.Equal(t, "2017-03-01", product.Day)

	az := product.Selection.Scan(Azimuth)
	require.Equal(t, 2, az.Len())
	assert.InDelta(t, 0.5-1.5, az.Records[0].CorrectionDelta, 1e-12)
	assert.InDelta(t, 0.0, az.Records[0].CorrectedOffset, 1e-12)
	assert.Equal(t, 0.0, az.Last().CorrectionDelta)

	st := product.Statistics
	assert.Equal(t, [2]float64{1.5, -0.5}, st.FinalCorrection)
	assert.InDelta(t, (24.0+19.0)/2, st.SignalToNoise, 1e-12)

	require.Len(t, product.Events[Azimuth], 1)
	assert.Equal(t, "2017-03-01 10:02:00", product.Events[Azimuth][0].Timestamp)
	assert.InDelta(t, 1.0, product.Events[Azimuth][0].Magnitude, 1e-12)
	require.Len(t, product.Events[Elevation], 1)
	assert.InDelta(t, -0.5, product.Events[Elevation][0].Magnitude, 1e-12)

	assert.True(t, product.Peak.Found)
	assert.InDelta(t, 8.5, product.Peak.Value, 0)
	assert.Equal(t, 2*time.Minute, product.Durations[Azimuth])
	assert.Equal(t, time.Minute, product.Durations[Elevation])
	assert.Equal(t, 2*time.Minute, product.Ticks.Interval)
	assert.Equal(t, Range{20, 60}, product.Display.HPBW)

	assert.Equal(t, []Stage{StageIngest, StageClassify, StageSplit, StageCorrect, StageSelect, StageAggregate, StageEvents}, stages)
}

func TestPipelineFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		sentinel error
		category errors.ErrorCategory
	}{
		{
			name:     "empty elevation scan",
			data:     testutil.LogCSV(testutil.Row("AZEL", "AZ"), testutil.Row("AZEL", "AZ", "DATE_OBS", "2017-03-01 10:01:00")),
			sentinel: errors.ErrInsufficientData,
			category: errors.CategoryInsufficientData,
		},
		{
			name:     "elevation only failed fits",
			data:     testutil.LogCSV(testutil.Row("AZEL", "AZ"), testutil.Row("AZEL", "EL", "offset", "ERR")),
			sentinel: errors.ErrInsufficientData,
			category: errors.CategoryInsufficientData,
		},
		{
			name:     "22GHz log",
			data:     testutil.LogCSV(testutil.Row("pos1", "35.0"), testutil.Row("AZEL", "EL", "pos1", "35.0")),
			sentinel: errors.ErrUnsupportedBand,
			category: errors.CategoryUnsupportedBand,
		},
		{
			name:     "unknown band",
			data:     testutil.LogCSV(testutil.Row("pos1", "50.0"), testutil.Row("AZEL", "EL", "pos1", "50.0")),
			sentinel: errors.ErrUnsupportedBand,
			category: errors.CategoryUnsupportedBand,
		},
		{
			name:     "selected array missing on elevation",
			data:     testutil.LogCSV(testutil.Row("ARRAY", "A"), testutil.Row("AZEL", "EL", "ARRAY", "B")),
			sentinel: errors.ErrInsufficientData,
			category: errors.CategoryInsufficientData,
		},
		{
			name:     "missing columns",
			data:     "AZEL,DATE_OBS\nAZ,2017-03-01 10:00:00\n",
			sentinel: errors.ErrDataFormat,
			category: errors.CategoryDataFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			product, err := NewPipeline(Band43GHz, "").Run(t.Context(), "pt_bad", strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Nil(t, product)
			require.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.category, errors.CategoryOf(err))
			assert.Contains(t, err.Error(), "file=pt_bad")
		})
	}
}

func TestPipelineOtherBand(t *testing.T) {
	t.Parallel()

	data := testutil.LogCSV(testutil.Row("pos1", "10.0"), testutil.Row("AZEL", "EL", "pos1", "10.0"))
	product, err := NewPipeline(Band86GHz, "ERR").Run(t.Context(), "pt_86", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Band86GHz, product.Band)
	assert.Equal(t, Range{10, 30}, product.Display.HPBW)
	assert.Equal(t, time.Minute, product.Ticks.Pad)
}

func TestPipelineCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewPipeline(Band43GHz, "ERR").Run(ctx, "pt", strings.NewReader(testutil.TwoGroupLog()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
}

func TestFileBase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pt_0001", FileBase("/data/logs/pt_0001.txt"))
	assert.Equal(t, "pt.v2", FileBase("pt.v2.csv"))
	assert.Equal(t, "pt", FileBase("pt"))
}

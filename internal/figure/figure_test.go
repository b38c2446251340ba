package figure

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmatsuo0/qlp/internal/pointing"
	"github.com/mmatsuo0/qlp/internal/testutil"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func reduce(t *testing.T, data string) *pointing.Product {
	t.Helper()
	p, err := pointing.NewPipeline(pointing.Band43GHz, "ERR").Run(t.Context(), "pt_0001", strings.NewReader(data))
	require.NoError(t, err)
	return p
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(reduce(t, testutil.TwoGroupLog()), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderSingleInstantScan(t *testing.T) {
	t.Parallel()

	// both scans at one timestamp: padded axis, NaN wind speed skipped
	data := testutil.LogCSV(
		testutil.Row("AZEL", "AZ", "wind_sp", ""),
		testutil.Row("AZEL", "EL"),
	)
	product := reduce(t, data)
	require.Equal(t, time.Minute, product.Ticks.Pad)

	var buf bytes.Buffer
	require.NoError(t, Render(product, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestWriterStoresUnderBand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "fig"))
	path, err := w.Write(reduce(t, testutil.TwoGroupLog()))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fig", "43GHz", "pt_0001.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestTimeTicker(t *testing.T) {
	t.Parallel()

	start := time.Date(2017, 3, 1, 10, 0, 30, 0, time.UTC)
	lo := unixSeconds(start)
	hi := unixSeconds(start.Add(5 * time.Minute))

	ticks := timeTicker{hint: pointing.TickHint{Interval: 2 * time.Minute, Layout: "15:04"}}.Ticks(lo, hi)
	require.Len(t, ticks, 2)
	assert.Equal(t, "10:02", ticks[0].Label)
	assert.Equal(t, "10:04", ticks[1].Label)

	assert.Empty(t, timeTicker{}.Ticks(lo, hi))
	assert.Empty(t, timeTicker{hint: pointing.TickHint{Interval: time.Second}}.Ticks(lo, lo+3600))
}

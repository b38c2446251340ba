package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestPipelineErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
		category ErrorCategory
		contains string
	}{
		{"data format", DataFormat("pt_0001", "missing column hpbw"), ErrDataFormat, CategoryDataFormat, "missing column hpbw"},
		{"unsupported band", UnsupportedBand("pt_0002", "22GHz"), ErrUnsupportedBand, CategoryUnsupportedBand, "frequency is 22GHz"},
		{"insufficient data", InsufficientData("pt_0003", "elevation scan is empty"), ErrInsufficientData, CategoryInsufficientData, "elevation scan is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Error(t, tt.err)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.True(t, IsCategory(tt.err, tt.category))
			assert.Equal(t, tt.category, CategoryOf(tt.err))
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.Contains(t, tt.err.Error(), "file=pt_000")
		})
	}
}

func TestCategoryDetectedFromWrappedSentinel(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("row 4: %w", ErrDataFormat)).Build()
	assert.Equal(t, CategoryDataFormat, ee.Category)

	wrapped := fmt.Errorf("analysis failed: %w", ee)
	assert.True(t, IsCategory(wrapped, CategoryDataFormat))
	assert.False(t, IsCategory(wrapped, CategoryInsufficientData))
	assert.Equal(t, CategoryGeneric, CategoryOf(fmt.Errorf("plain")))
}

func TestContextIsCopied(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("boom")).Context("stage", "ingest").Build()
	ctx := ee.GetContext()
	ctx["stage"] = "changed"

	assert.Equal(t, "ingest", ee.GetContext()["stage"])
	assert.Equal(t, "boom (stage=ingest)", ee.Error())
}

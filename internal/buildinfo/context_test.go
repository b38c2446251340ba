package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{name: "valid version", ctx: NewContext("1.0.0", "2026-01-01"), want: "1.0.0"},
		{name: "version with pre-release tag", ctx: NewContext("1.0.0-beta.1", ""), want: "1.0.0-beta.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.Version())
		})
	}
}

func TestContextFallbacks(t *testing.T) {
	t.Parallel()

	// test binaries carry no module version
	var nilCtx *Context
	assert.Equal(t, UnknownValue, nilCtx.Version())
	assert.Equal(t, UnknownValue, nilCtx.BuildDate())
	assert.Equal(t, UnknownValue, NewContext("", "").Version())
	assert.Equal(t, "1.2.0 (built unknown)", NewContext("1.2.0", "").String())
	assert.Equal(t, "2026-10-01T12:00:00Z", NewContext("", "2026-10-01T12:00:00Z").BuildDate())
}

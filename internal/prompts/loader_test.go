package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	ClearCache()

	tmpl, err := Get("refine.json", "user")
	require.NoError(t, err)
	assert.Contains(t, tmpl, "{{.Chunk}}")

	_, err = Get("refine.json", "nonexistent_key")
	assert.Error(t, err)

	_, err = Get("nonexistent.json", "user")
	assert.Error(t, err)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("refine.json", "nonexistent_key")
	})
	assert.NotPanics(t, func() {
		MustGet("refine.json", "system_normal")
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "Single placeholder",
			template: "Clean {{.Chunk}} now",
			data:     map[string]string{"Chunk": "this text"},
			want:     "Clean this text now",
		},
		{
			name:     "Repeated placeholder",
			template: "{{.A}} and {{.A}}",
			data:     map[string]string{"A": "x"},
			want:     "x and x",
		},
		{
			name:     "Unknown placeholder left alone",
			template: "keep {{.Unknown}}",
			data:     map[string]string{"Chunk": "x"},
			want:     "keep {{.Unknown}}",
		},
		{
			name:     "No placeholders",
			template: "static",
			data:     map[string]string{"A": "x"},
			want:     "static",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestAllContentModesHaveSystemPrompts(t *testing.T) {
	for _, mode := range []ContentMode{ModeNormal, ModeStrict, ModeCreative} {
		_, err := Get("refine.json", "system_"+string(mode))
		assert.NoError(t, err, "mode %s", mode)
	}
}

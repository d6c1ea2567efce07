package timecodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func anchorAt(secs float64) *float64 {
	return &secs
}

func TestAssignerChunkAnchored(t *testing.T) {
	a := NewAssigner(ModeChunkAnchored)

	tests := []struct {
		name   string
		text   string
		anchor *float64
		want   string
	}{
		{
			name:   "Stamps top-level heading",
			text:   "# Introduction\nbody",
			anchor: anchorAt(3723),
			want:   "# Introduction — [01:02:03]\nbody",
		},
		{
			name:   "Stamps subheading",
			text:   "## Details",
			anchor: anchorAt(60),
			want:   "## Details — [00:01:00]",
		},
		{
			name:   "Nil anchor leaves heading bare",
			text:   "# Introduction",
			anchor: nil,
			want:   "# Introduction",
		},
		{
			name:   "Body lines untouched",
			text:   "plain paragraph",
			anchor: anchorAt(10),
			want:   "plain paragraph",
		},
		{
			name:   "Already stamped heading passes through",
			text:   "# Done — [00:00:10]",
			anchor: anchorAt(99),
			want:   "# Done — [00:00:10]",
		},
		{
			name:   "Raw marker stripped from body",
			text:   "text [00:01:30,000] more",
			anchor: anchorAt(10),
			want:   "text more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Apply(tt.text, tt.anchor))
		})
	}
}

func TestAssignerProviderAssigned(t *testing.T) {
	a := NewAssigner(ModeProviderAssigned)

	// The provider's inline marker wins over the unit anchor.
	got := a.Apply("# Topic [00:05:00,000] shift", anchorAt(10))
	assert.Equal(t, "# Topic shift — [00:05:00]", got)

	// Missing marker falls back to the unit anchor.
	got = a.Apply("# No marker", anchorAt(10))
	assert.Equal(t, "# No marker — [00:00:10]", got)

	// Invalid marker text falls back to the unit anchor.
	got = a.Apply("# Bad [99:99] marker", anchorAt(10))
	assert.Equal(t, "# Bad [99:99] marker — [00:00:10]", got)
}

func TestAssignerModeOff(t *testing.T) {
	a := NewAssigner(ModeOff)

	got := a.Apply("# Heading\nbody [00:01:00,000] text", anchorAt(42))
	assert.Equal(t, "# Heading\nbody text", got)
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeOff.Valid())
	assert.True(t, ModeChunkAnchored.Valid())
	assert.True(t, ModeProviderAssigned.Valid())
	assert.False(t, Mode("bogus").Valid())
}

func TestStripInlineStamps(t *testing.T) {
	assert.Equal(t, "a b", StripInlineStamps("a [00:00:01,000] b"))
	assert.Equal(t, "untouched", StripInlineStamps("untouched"))
}

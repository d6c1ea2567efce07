package timecodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSRTTime(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      float64
		wantError bool
	}{
		{name: "Zero", in: "00:00:00,000", want: 0},
		{name: "With millis", in: "00:00:01,500", want: 1.5},
		{name: "Full value", in: "01:02:03,400", want: 3723.4},
		{name: "Missing millis", in: "00:00:01", wantError: true},
		{name: "Dot separator", in: "00:00:01.500", wantError: true},
		{name: "Garbage", in: "abc", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSRTTime(tt.in)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "Zero", in: 0, want: "00:00:00"},
		{name: "Rounds up", in: 59.6, want: "00:01:00"},
		{name: "Rounds down", in: 59.4, want: "00:00:59"},
		{name: "Hours", in: 3723.4, want: "01:02:03"},
		{name: "Negative clamps to zero", in: -5, want: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHMS(tt.in))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	secs, err := ParseSRTTime("02:15:42,000")
	require.NoError(t, err)
	assert.Equal(t, "02:15:42", FormatHMS(secs))
}

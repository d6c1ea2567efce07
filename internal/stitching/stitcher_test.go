package stitching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedup(t *testing.T) {
	tests := []struct {
		name        string
		tail        string
		text        string
		minLen      int
		wantText    string
		wantRemoved int
	}{
		{
			name:        "Duplicated sentence end",
			tail:        "the model is called BERT.",
			text:        "BERT. It was introduced in 2018.",
			minLen:      2,
			wantText:    "It was introduced in 2018.",
			wantRemoved: 6,
		},
		{
			name:        "No overlap",
			tail:        "completely different ending",
			text:        "a fresh start",
			minLen:      2,
			wantText:    "a fresh start",
			wantRemoved: 0,
		},
		{
			name:        "Match below confidence threshold ignored",
			tail:        "ends with x",
			text:        "x starts here",
			minLen:      3,
			wantText:    "x starts here",
			wantRemoved: 0,
		},
		{
			name:        "Whole unit duplicated",
			tail:        "exact copy",
			text:        "exact copy",
			minLen:      2,
			wantText:    "",
			wantRemoved: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := Dedup(tt.tail, tt.text, tt.minLen)
			assert.Equal(t, tt.wantText, got)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestDedupIsIdempotent(t *testing.T) {
	tail := "the model is called BERT."
	text := "BERT. It was introduced in 2018."

	once, removed := Dedup(tail, text, 2)
	require.Greater(t, removed, 0)

	twice, removed2 := Dedup(tail, once, 2)
	assert.Equal(t, once, twice)
	assert.Zero(t, removed2)
}

func TestDedupPicksLongestMatch(t *testing.T) {
	// Both "b." and "b. b." prefix-match the tail; the longest must win.
	tail := "a b. b."
	text := "b. b. c."

	got, removed := Dedup(tail, text, 2)
	assert.Equal(t, "c.", got)
	assert.Equal(t, 6, removed)
}

func TestAssemblerDeduplicatesAtBoundary(t *testing.T) {
	asm := NewAssembler(20, 0.1)

	res := asm.Append("First block ends with BERT.", nil)
	assert.True(t, res.Matched, "first block never needs a match")
	assert.Zero(t, res.RemovedChars)

	res = asm.Append("BERT. Second block.", nil)
	assert.True(t, res.Matched)
	assert.Equal(t, 6, res.RemovedChars)
	assert.Equal(t, "First block ends with BERT.\n\nSecond block.", asm.String())
}

func TestAssemblerNoMatchAppendsUnmodified(t *testing.T) {
	asm := NewAssembler(20, 0.5)

	asm.Append("first block text here", nil)
	res := asm.Append("totally new content", nil)

	assert.False(t, res.Matched)
	assert.Zero(t, res.RemovedChars)
	assert.True(t, strings.HasSuffix(asm.String(), "totally new content"))
}

func TestAssemblerWindowZeroDisablesDedup(t *testing.T) {
	asm := NewAssembler(0, 0.1)

	asm.Append("same text", nil)
	res := asm.Append("same text", nil)

	assert.Zero(t, res.RemovedChars)
	assert.Equal(t, "same text\n\nsame text", asm.String())
}

func TestAssemblerFinalizeRunsAfterDedup(t *testing.T) {
	asm := NewAssembler(20, 0.1)
	asm.Append("ends with BERT.", nil)

	var seen string
	asm.Append("BERT. Next section.", func(s string) string {
		seen = s
		return "# stamped\n" + s
	})

	assert.Equal(t, "Next section.", seen, "finalize sees deduplicated text only")
	assert.True(t, strings.HasSuffix(asm.String(), "# stamped\nNext section."))
}

func TestAssemblerAppendRaw(t *testing.T) {
	asm := NewAssembler(50, 0.1)
	asm.AppendRaw("body")
	asm.AppendRaw("body")

	assert.Equal(t, "body\n\nbody", asm.String())
}

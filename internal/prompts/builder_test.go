package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt(t *testing.T) {
	for _, mode := range []ContentMode{ModeNormal, ModeStrict, ModeCreative} {
		sys, err := SystemPrompt(mode)
		require.NoError(t, err, "mode %s", mode)
		assert.Contains(t, sys, "merged_terms", "side-channel protocol is always attached")
		assert.Contains(t, sys, "uncertain")
	}

	_, err := SystemPrompt(ContentMode("wild"))
	assert.Error(t, err)
}

func TestUserPrompt(t *testing.T) {
	tests := []struct {
		name     string
		in       UnitInput
		validate func(*testing.T, string)
	}{
		{
			name: "Chunk only",
			in:   UnitInput{Chunk: "raw transcript chunk"},
			validate: func(t *testing.T, got string) {
				assert.Contains(t, got, "raw transcript chunk")
				assert.NotContains(t, got, "continuity", "no context section without context")
				assert.NotContains(t, got, "glossary")
				assert.NotContains(t, got, "filler words")
			},
		},
		{
			name: "With context",
			in:   UnitInput{Chunk: "chunk", Context: "previously cleaned tail"},
			validate: func(t *testing.T, got string) {
				assert.Contains(t, got, "previously cleaned tail")
				assert.Contains(t, got, "do not repeat")
			},
		},
		{
			name: "With term hints",
			in:   UnitInput{Chunk: "chunk", TermHints: `[{"canonical":"BERT"}]`},
			validate: func(t *testing.T, got string) {
				assert.Contains(t, got, `[{"canonical":"BERT"}]`)
				assert.Contains(t, got, "canonical spellings")
			},
		},
		{
			name: "Empty hint array omitted",
			in:   UnitInput{Chunk: "chunk", TermHints: "[]"},
			validate: func(t *testing.T, got string) {
				assert.NotContains(t, got, "canonical spellings")
			},
		},
		{
			name: "With glossary and parasites",
			in:   UnitInput{Chunk: "chunk", Glossary: "PostgreSQL, Kubernetes", Parasites: []string{"like", "you know"}},
			validate: func(t *testing.T, got string) {
				assert.Contains(t, got, "PostgreSQL, Kubernetes")
				assert.Contains(t, got, "like, you know")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserPrompt(tt.in)
			require.NoError(t, err)
			tt.validate(t, got)
		})
	}
}

func TestSummaryPrompts(t *testing.T) {
	system, user, err := SummaryPrompts("# Document\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, system, "summary")
	assert.Contains(t, user, "# Document")
}

func TestUserPromptAsideStyles(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  string
	}{
		{name: "Italic", style: "italic", want: "in italics"},
		{name: "Comment", style: "comment", want: "HTML comments"},
		{name: "Remove", style: "remove", want: "entirely"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserPrompt(UnitInput{Chunk: "chunk", AsideStyle: tt.style})
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}

	t.Run("Empty omits the instruction", func(t *testing.T) {
		got, err := UserPrompt(UnitInput{Chunk: "chunk"})
		require.NoError(t, err)
		assert.NotContains(t, got, "asides")
	})

	t.Run("Unknown style", func(t *testing.T) {
		_, err := UserPrompt(UnitInput{Chunk: "chunk", AsideStyle: "footnote"})
		assert.ErrorContains(t, err, "footnote")
	})
}

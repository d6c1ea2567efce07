package qc

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-refiner/internal/types"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		validate func(*testing.T, float64)
	}{
		{
			name: "Identical",
			a:    "line one\nline two",
			b:    "line one\nline two",
			validate: func(t *testing.T, got float64) {
				assert.Equal(t, 1.0, got)
			},
		},
		{
			name: "Empty versus text",
			a:    "",
			b:    "something",
			validate: func(t *testing.T, got float64) {
				assert.Equal(t, 0.0, got)
			},
		},
		{
			name: "Partial overlap",
			a:    "keep this line\nremove this line\nkeep this too",
			b:    "keep this line\nkeep this too",
			validate: func(t *testing.T, got float64) {
				assert.Greater(t, got, 0.0)
				assert.Less(t, got, 1.0)
			},
		},
		{
			name: "Small edit on every line stays close to one",
			a:    "line one\nline two",
			b:    "line one!\nline two?",
			validate: func(t *testing.T, got float64) {
				assert.Greater(t, got, 0.8)
			},
		},
		{
			name: "No shared characters",
			a:    "aaaa",
			b:    "zzzz",
			validate: func(t *testing.T, got float64) {
				assert.Equal(t, 0.0, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Similarity(tt.a, tt.b))
		})
	}
}

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()
	start := 10.0
	end := 20.0

	unit := types.Unit{Index: 2, Text: "original text here"}
	rec := c.Record(unit, "original text here", &start, &end)

	assert.Equal(t, 2, rec.UnitIndex)
	assert.Equal(t, len(unit.Text), rec.OriginalLength)
	assert.Equal(t, len(unit.Text), rec.CleanedLength)
	assert.Equal(t, 1.0, rec.SimilarityScore)
	assert.Equal(t, 0.0, rec.ModificationRatio)
	require.Len(t, c.Records(), 1)

	c.Record(types.Unit{Index: 3, Text: "abc"}, "xyz", nil, nil)
	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[1].UnitIndex)
	assert.InDelta(t, 1.0, records[1].SimilarityScore+records[1].ModificationRatio, 1e-9)
}

func TestWriteCSV(t *testing.T) {
	start := 1.5
	records := []types.QCRecord{
		{UnitIndex: 0, Start: &start, OriginalLength: 100, CleanedLength: 90, SimilarityScore: 0.85, ModificationRatio: 0.15},
		{UnitIndex: 1, OriginalLength: 50, CleanedLength: 50, SimilarityScore: 1, ModificationRatio: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"chunk_id", "start", "end", "orig_len", "cleaned_len", "similarity", "change_ratio"}, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "1.500", rows[1][1])
	assert.Equal(t, "", rows[1][2], "missing end time stays empty")
	assert.Equal(t, "0.8500", rows[1][5])
	assert.Equal(t, "1.0000", rows[2][5])
}

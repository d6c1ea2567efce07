package terms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-refiner/internal/annotations"
	"github.com/jonathan/transcript-refiner/internal/types"
)

func mergedTag(value string) []annotations.Tag {
	return []annotations.Tag{{Key: annotations.KeyMergedTerms, Value: value}}
}

func TestAggregatorCanonicalStaysStable(t *testing.T) {
	agg := NewAggregator(nil)

	// Unit 0 introduces the cluster.
	newTerms, err := agg.Ingest(0, mergedTag("bert -> BERT"))
	require.NoError(t, err)
	require.Len(t, newTerms, 1)
	assert.Equal(t, "BERT", newTerms[0].Canonical)

	// Unit 1 proposes a different canonical for a known variant; the
	// original spelling must win.
	newTerms, err = agg.Ingest(1, mergedTag("bert, Bert-Model -> Bert"))
	require.NoError(t, err)

	canonical, ok := agg.Table().Match("bert")
	require.True(t, ok)
	assert.Equal(t, "BERT", canonical)

	entry, ok := agg.Table().Entry("BERT")
	require.True(t, ok)
	assert.True(t, entry.HasVariant("Bert-Model"))
	assert.Equal(t, 1, agg.Table().Len(), "no second cluster may appear")
}

func TestAggregatorBridgingVariantJoinsOldestCluster(t *testing.T) {
	agg := NewAggregator(nil)

	_, err := agg.Ingest(0, mergedTag("transformer -> Transformer"))
	require.NoError(t, err)
	_, err = agg.Ingest(2, mergedTag("bert -> BERT"))
	require.NoError(t, err)

	// A record linking both clusters lands in the older one; neither
	// canonical changes and the table stays at two clusters.
	_, err = agg.Ingest(3, mergedTag("transformer, bert -> TransBERT"))
	require.NoError(t, err)

	assert.Equal(t, 2, agg.Table().Len())
	canonical, ok := agg.Table().Match("TransBERT")
	require.True(t, ok)
	assert.Equal(t, "Transformer", canonical, "the oldest cluster absorbs the bridge")
}

func TestAggregatorGlossaryWinsSpelling(t *testing.T) {
	agg := NewAggregator([]string{"PostgreSQL", "  ", "Kubernetes"})

	_, err := agg.Ingest(0, mergedTag("PostgreSQL, postgres -> Postgres"))
	require.NoError(t, err)

	canonical, ok := agg.Table().Match("postgresql")
	require.True(t, ok)
	assert.Equal(t, "PostgreSQL", canonical)

	// The unit's variant joined the glossary cluster instead of founding one.
	canonical, ok = agg.Table().Match("postgres")
	require.True(t, ok)
	assert.Equal(t, "PostgreSQL", canonical)
	assert.Equal(t, 2, agg.Table().Len())
}

func TestAggregatorIngestReturnsOnlyAdditions(t *testing.T) {
	agg := NewAggregator(nil)

	_, err := agg.Ingest(0, mergedTag("bert -> BERT"))
	require.NoError(t, err)

	// Re-stating a known mapping adds nothing new.
	newTerms, err := agg.Ingest(1, mergedTag("bert -> BERT"))
	require.NoError(t, err)
	assert.Empty(t, newTerms)

	// A new variant on a known cluster reports only that variant.
	newTerms, err = agg.Ingest(2, mergedTag("Bert model -> BERT"))
	require.NoError(t, err)
	require.Len(t, newTerms, 1)
	assert.Equal(t, "BERT", newTerms[0].Canonical)
	assert.Equal(t, []string{"Bert model"}, newTerms[0].Variants)
}

func TestAggregatorSoftErrorKeepsParsedRecords(t *testing.T) {
	agg := NewAggregator(nil)

	tags := []annotations.Tag{
		{Key: annotations.KeyMergedTerms, Value: "bert -> BERT"},
		{Key: annotations.KeyMergedTerms, Value: "no arrow here"},
	}
	newTerms, err := agg.Ingest(0, tags)

	require.Error(t, err, "the bad tag is reported")
	require.Len(t, newTerms, 1, "the good tag is still merged")
	assert.Equal(t, "BERT", newTerms[0].Canonical)
}

func TestAggregatorHints(t *testing.T) {
	agg := NewAggregator(nil)
	assert.Empty(t, agg.Hints(), "empty table produces no hint block")

	_, err := agg.Ingest(0, mergedTag("transformer -> Transformer"))
	require.NoError(t, err)
	_, err = agg.Ingest(1, mergedTag("bert, Bert model -> BERT"))
	require.NoError(t, err)

	var hints []struct {
		Canonical string   `json:"canonical"`
		Variants  []string `json:"variants"`
	}
	require.NoError(t, json.Unmarshal([]byte(agg.Hints()), &hints))
	require.Len(t, hints, 2)
	assert.Equal(t, "Transformer", hints[0].Canonical, "clusters appear in first-seen order")
	assert.Equal(t, "BERT", hints[1].Canonical)
	assert.Equal(t, []string{"bert", "Bert model"}, hints[1].Variants)
}

func TestRewriteMergedComments(t *testing.T) {
	text := "Body text.\n<!-- merged_terms: [{\"canonical\": \"BERT\", \"variants\": [\"bert\"]}] -->"

	// With additions, the structured tag becomes one shorthand tag.
	rewritten := RewriteMergedComments(text, []types.TermEntry{
		{Canonical: "BERT", Variants: []string{"bert"}},
		{Canonical: "Kubernetes"},
	})
	tags := annotations.Parse(rewritten)
	require.Len(t, tags, 1)
	assert.Equal(t, "bert -> BERT; Kubernetes -> Kubernetes", tags[0].Value)

	// Without additions, merged-terms tags disappear.
	rewritten = RewriteMergedComments(text, nil)
	assert.Equal(t, "Body text.", rewritten)
}

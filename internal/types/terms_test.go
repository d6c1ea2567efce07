package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Lowercases", in: "BERT", want: "bert"},
		{name: "Strips punctuation", in: "k8s.", want: "k8s"},
		{name: "Collapses whitespace", in: "  machine   learning ", want: "machine learning"},
		{name: "Keeps digits", in: "GPT-4", want: "gpt4"},
		{name: "Empty input", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerm(tt.in))
		})
	}
}

func TestTermTableFirstWriterWins(t *testing.T) {
	table := NewTermTable()

	first := table.AddEntry("Kubernetes", 0)
	require.NotNil(t, first)
	assert.Equal(t, "Kubernetes", first.Canonical)

	// A later attempt to re-create the cluster keeps the original spelling
	// and first-seen unit.
	second := table.AddEntry("Kubernetes", 5)
	assert.Same(t, first, second)
	assert.Equal(t, 0, second.FirstSeenUnit)
}

func TestTermTableVariants(t *testing.T) {
	table := NewTermTable()
	table.AddEntry("Kubernetes", 0)

	assert.True(t, table.AddVariant("Kubernetes", "k8s"))
	assert.False(t, table.AddVariant("Kubernetes", "K8S."), "normalized duplicate must not extend the cluster")
	assert.True(t, table.AddVariant("Kubernetes", "kubernetes"), "recased canonical spelling extends the cluster")
	assert.False(t, table.AddVariant("Kubernetes", "Kubernetes"), "the canonical itself does not")
	assert.False(t, table.AddVariant("unknown", "x"), "unknown canonical is a no-op")

	canonical, ok := table.Match("k8s")
	require.True(t, ok)
	assert.Equal(t, "Kubernetes", canonical)

	// The canonical itself matches its own cluster.
	canonical, ok = table.Match("kubernetes")
	require.True(t, ok)
	assert.Equal(t, "Kubernetes", canonical)

	_, ok = table.Match("docker")
	assert.False(t, ok)
}

func TestTermTableMatchAllOrdersByFirstSeen(t *testing.T) {
	table := NewTermTable()
	table.AddEntry("BERT", 3)
	table.AddEntry("Transformer", 1)
	table.AddVariant("BERT", "bert model")
	table.AddVariant("Transformer", "transformers")

	got := table.MatchAll([]string{"bert model", "transformers", "nothing"})
	assert.Equal(t, []string{"Transformer", "BERT"}, got)
}

func TestTermTableCanonicalsOrder(t *testing.T) {
	table := NewTermTable()
	table.AddEntry("Zig", 2)
	table.AddEntry("Ada", 2)
	table.AddEntry("Go", 0)

	assert.Equal(t, []string{"Go", "Ada", "Zig"}, table.Canonicals())
}

func TestTermTableClone(t *testing.T) {
	table := NewTermTable()
	table.AddEntry("BERT", 0)
	table.AddVariant("BERT", "bert")

	snapshot := table.Clone()
	table.AddVariant("BERT", "Bert model")

	orig, ok := table.Entry("BERT")
	require.True(t, ok)
	copied, ok := snapshot.Entry("BERT")
	require.True(t, ok)
	assert.Len(t, orig.Variants, 2)
	assert.Len(t, copied.Variants, 1)
}

func TestTermEntryHasVariant(t *testing.T) {
	entry := &TermEntry{Canonical: "PostgreSQL", Variants: []string{"postgres"}}

	assert.True(t, entry.HasVariant("Postgres"))
	assert.True(t, entry.HasVariant("PostgreSQL"), "the exact canonical spelling is already covered")
	assert.False(t, entry.HasVariant("postgresql"), "a recased canonical is a recordable variant")
	assert.False(t, entry.HasVariant("mysql"))
}

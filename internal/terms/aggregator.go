package terms

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/jonathan/transcript-refiner/internal/annotations"
	"github.com/jonathan/transcript-refiner/internal/types"
)

// glossarySeedUnit marks entries pre-seeded from a caller-supplied glossary.
// It sorts before every real unit so glossary spellings win canonical
// conflicts under first-writer-wins.
const glossarySeedUnit = -1

// Aggregator folds per-unit term-normalization statements into the single
// growing TermTable. It is the only component that mutates the table.
type Aggregator struct {
	table *types.TermTable
}

// NewAggregator creates an aggregator. Glossary terms are pre-seeded as
// clusters so their spelling is always the canonical one.
func NewAggregator(glossary []string) *Aggregator {
	table := types.NewTermTable()
	for _, term := range glossary {
		if term = strings.TrimSpace(term); term != "" {
			table.AddEntry(term, glossarySeedUnit)
		}
	}
	return &Aggregator{table: table}
}

// Table exposes the accumulated table. Callers must treat it as read-only.
func (a *Aggregator) Table() *types.TermTable {
	return a.table
}

// Ingest parses the merged-terms tags of one unit's response and merges them
// into the table. It returns only the entries created or extended during
// this unit, with Variants limited to the additions, for the visible edit
// comment. A non-nil error is soft: whatever parsed before the failure has
// already been merged.
func (a *Aggregator) Ingest(unitIndex int, tags []annotations.Tag) ([]types.TermEntry, error) {
	var firstErr error
	var records []Record
	for _, value := range annotations.Values(tags, annotations.KeyMergedTerms) {
		parsed, err := ParseStatements(value)
		records = append(records, parsed...)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	delta := make(map[string]*types.TermEntry)
	for _, rec := range records {
		a.merge(unitIndex, rec, delta)
	}

	out := make([]types.TermEntry, 0, len(delta))
	for _, e := range delta {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out, firstErr
}

// merge applies one record under the cluster policy: join the oldest
// matching cluster, keeping its canonical; otherwise open a new cluster
// under the record's canonical spelling.
func (a *Aggregator) merge(unitIndex int, rec Record, delta map[string]*types.TermEntry) {
	candidates := append([]string{rec.Canonical}, rec.Variants...)
	matches := a.table.MatchAll(candidates)

	var canonical string
	if len(matches) > 0 {
		// When the record bridges two grown clusters, the one seen first
		// absorbs the new variants; neither canonical ever changes.
		canonical = matches[0]
	} else {
		canonical = rec.Canonical
		a.table.AddEntry(canonical, unitIndex)
		noteDelta(delta, canonical)
	}

	for _, v := range candidates {
		if a.table.AddVariant(canonical, v) {
			noteDelta(delta, canonical)
			entry := delta[canonical]
			entry.Variants = append(entry.Variants, v)
		}
	}
}

func noteDelta(delta map[string]*types.TermEntry, canonical string) {
	if _, ok := delta[canonical]; !ok {
		delta[canonical] = &types.TermEntry{Canonical: canonical}
	}
}

// Hints serializes the complete table as the hidden hint block injected into
// the next unit's prompt. Deterministic order: clusters by first appearance.
func (a *Aggregator) Hints() string {
	canonicals := a.table.Canonicals()
	if len(canonicals) == 0 {
		return ""
	}
	type hint struct {
		Canonical string   `json:"canonical"`
		Variants  []string `json:"variants,omitempty"`
	}
	hints := make([]hint, 0, len(canonicals))
	for _, c := range canonicals {
		entry, _ := a.table.Entry(c)
		hints = append(hints, hint{Canonical: entry.Canonical, Variants: entry.Variants})
	}
	data, err := json.Marshal(hints)
	if err != nil {
		return ""
	}
	return string(data)
}

// RewriteMergedComments replaces every merged-terms tag in the cleaned text
// with a single tag listing only the entries new to this unit, in shorthand
// form. With no new entries the tags are removed outright.
func RewriteMergedComments(text string, newEntries []types.TermEntry) string {
	text = annotations.RemoveKey(text, annotations.KeyMergedTerms)
	if len(newEntries) == 0 {
		return text
	}
	var stmts []string
	for _, e := range newEntries {
		if len(e.Variants) == 0 {
			stmts = append(stmts, e.Canonical+" -> "+e.Canonical)
			continue
		}
		stmts = append(stmts, strings.Join(e.Variants, ", ")+" -> "+e.Canonical)
	}
	return annotations.AppendTag(text, annotations.KeyMergedTerms, strings.Join(stmts, "; "))
}

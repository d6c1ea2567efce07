// Package qc measures how aggressively each unit was rewritten and renders
// the per-run quality report.
package qc

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/jonathan/transcript-refiner/internal/types"
)

// Collector accumulates per-unit quality records in processing order.
type Collector struct {
	records []types.QCRecord
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record computes and stores the quality record for one processed unit.
// Similarity is a character-level sequence ratio between the original
// transcript text and the cleaned output; modification ratio is its
// complement.
func (c *Collector) Record(unit types.Unit, cleaned string, start, end *float64) types.QCRecord {
	sim := Similarity(unit.Text, cleaned)
	rec := types.QCRecord{
		UnitIndex:         unit.Index,
		Start:             start,
		End:               end,
		OriginalLength:    len(unit.Text),
		CleanedLength:     len(cleaned),
		SimilarityScore:   sim,
		ModificationRatio: 1 - sim,
	}
	c.records = append(c.records, rec)
	return rec
}

// Records returns everything collected so far.
func (c *Collector) Records() []types.QCRecord {
	return c.records
}

// Similarity returns a 0..1 sequence-match ratio between two texts,
// computed over characters so that small edits cost proportionally instead
// of discarding a whole line.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(splitChars(a), splitChars(b))
	return m.Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

package types

import (
	"sort"
	"strings"
	"unicode"
)

// TermEntry is one cluster of terminology variants normalized to a single
// canonical spelling. The canonical never changes after creation; only the
// variant set grows.
type TermEntry struct {
	Canonical     string   `json:"canonical"`
	Variants      []string `json:"variants"`
	FirstSeenUnit int      `json:"first_seen_unit"`
}

// HasVariant reports whether the entry already contains the variant. The
// exact canonical spelling counts; a differently spelled form that merely
// normalizes to the canonical does not, so recased or repunctuated variants
// still land in the variant set.
func (e *TermEntry) HasVariant(variant string) bool {
	if variant == e.Canonical {
		return true
	}
	key := NormalizeTerm(variant)
	for _, v := range e.Variants {
		if NormalizeTerm(v) == key {
			return true
		}
	}
	return false
}

// TermTable is the single growing table of canonical terms accumulated
// across units. Growth is monotonic: entries are never renamed or removed,
// variant sets only extend.
type TermTable struct {
	entries   map[string]*TermEntry
	byVariant map[string]string // normalized variant -> canonical
}

// NewTermTable returns an empty term table.
func NewTermTable() *TermTable {
	return &TermTable{
		entries:   make(map[string]*TermEntry),
		byVariant: make(map[string]string),
	}
}

// NormalizeTerm lowercases a term and strips punctuation and surrounding
// whitespace so that variant comparison is case- and punctuation-insensitive.
func NormalizeTerm(s string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsPunct(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Match returns the canonical spelling of the cluster that already contains
// the given variant, if any.
func (t *TermTable) Match(variant string) (string, bool) {
	canonical, ok := t.byVariant[NormalizeTerm(variant)]
	return canonical, ok
}

// MatchAll returns every canonical whose cluster contains the variant or the
// variant of any sibling spelling, ordered by FirstSeenUnit ascending. More
// than one result means the variant bridges two independently grown clusters.
func (t *TermTable) MatchAll(variants []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range variants {
		if canonical, ok := t.byVariant[NormalizeTerm(v)]; ok && !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return t.entries[out[i]].FirstSeenUnit < t.entries[out[j]].FirstSeenUnit
	})
	return out
}

// AddEntry creates a new cluster under the given canonical spelling. If the
// canonical already names a cluster the existing entry is returned unchanged:
// the first writer wins on canonical spelling.
func (t *TermTable) AddEntry(canonical string, firstSeenUnit int) *TermEntry {
	if existing, ok := t.entries[canonical]; ok {
		return existing
	}
	entry := &TermEntry{Canonical: canonical, FirstSeenUnit: firstSeenUnit}
	t.entries[canonical] = entry
	t.byVariant[NormalizeTerm(canonical)] = canonical
	return entry
}

// AddVariant extends an existing cluster with a variant spelling. Returns
// true when the variant was new to the cluster. Adding a variant to an
// unknown canonical is a no-op returning false.
func (t *TermTable) AddVariant(canonical, variant string) bool {
	entry, ok := t.entries[canonical]
	if !ok {
		return false
	}
	if entry.HasVariant(variant) {
		return false
	}
	entry.Variants = append(entry.Variants, variant)
	t.byVariant[NormalizeTerm(variant)] = canonical
	return true
}

// Entry returns the cluster for a canonical, if present.
func (t *TermTable) Entry(canonical string) (*TermEntry, bool) {
	e, ok := t.entries[canonical]
	return e, ok
}

// Len returns the number of clusters.
func (t *TermTable) Len() int {
	return len(t.entries)
}

// Canonicals returns all canonical spellings sorted by first appearance,
// then alphabetically for entries introduced by the same unit.
func (t *TermTable) Canonicals() []string {
	out := make([]string, 0, len(t.entries))
	for c := range t.entries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := t.entries[out[i]], t.entries[out[j]]
		if a.FirstSeenUnit != b.FirstSeenUnit {
			return a.FirstSeenUnit < b.FirstSeenUnit
		}
		return a.Canonical < b.Canonical
	})
	return out
}

// Clone returns a deep copy. Useful for asserting monotonic growth in tests
// and for snapshotting table state per unit.
func (t *TermTable) Clone() *TermTable {
	cp := NewTermTable()
	for canonical, e := range t.entries {
		entry := &TermEntry{
			Canonical:     e.Canonical,
			Variants:      append([]string(nil), e.Variants...),
			FirstSeenUnit: e.FirstSeenUnit,
		}
		cp.entries[canonical] = entry
	}
	for k, v := range t.byVariant {
		cp.byVariant[k] = v
	}
	return cp
}

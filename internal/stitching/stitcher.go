// Package stitching merges per-unit generated outputs onto the growing
// document, removing boundary duplication caused by context leakage.
package stitching

import "strings"

// DefaultMinMatchFraction is the fraction of the dedup window a boundary
// match must reach before it is trusted; shorter matches are treated as
// coincidence and left alone.
const DefaultMinMatchFraction = 0.1

// blockSeparator joins stitched unit outputs.
const blockSeparator = "\n\n"

// StitchResult reports what one append did.
type StitchResult struct {
	// RemovedChars is how many leading characters of the unit were dropped
	// as duplicated boundary content.
	RemovedChars int
	// Matched is false when deduplication was enabled but no confident
	// match was found and the unit was appended unmodified.
	Matched bool
}

// Assembler accumulates the assembled document. It is owned exclusively by
// the orchestrator for the duration of a run.
type Assembler struct {
	b           strings.Builder
	window      int
	minFraction float64
}

// NewAssembler creates an assembler with the given dedup window in
// characters. A window of 0 disables deduplication entirely.
func NewAssembler(window int, minFraction float64) *Assembler {
	if minFraction <= 0 || minFraction >= 1 {
		minFraction = DefaultMinMatchFraction
	}
	return &Assembler{window: window, minFraction: minFraction}
}

// Len returns the current document length.
func (a *Assembler) Len() int {
	return a.b.Len()
}

// String returns the document assembled so far.
func (a *Assembler) String() string {
	return a.b.String()
}

// Append stitches one unit's cleaned text onto the document. Stitching only
// ever removes characters at the boundary, never adds them. The optional
// finalize hook runs on the deduplicated text before it joins the document,
// so post-dedup transforms (heading stamps) never see removed content.
func (a *Assembler) Append(text string, finalize func(string) string) StitchResult {
	res := StitchResult{Matched: true}

	if a.b.Len() > 0 && a.window > 0 {
		stripped, removed := Dedup(a.TailWindow(), text, a.minLen())
		res.RemovedChars = removed
		res.Matched = removed > 0
		text = stripped
	}
	if finalize != nil {
		text = finalize(text)
	}

	if a.b.Len() > 0 {
		a.b.WriteString(blockSeparator)
	}
	a.b.WriteString(text)
	return res
}

// AppendRaw adds text without deduplication (summary section, skipped
// units carried through verbatim).
func (a *Assembler) AppendRaw(text string) {
	if a.b.Len() > 0 {
		a.b.WriteString(blockSeparator)
	}
	a.b.WriteString(text)
}

// TailWindow returns the last window characters of the document.
func (a *Assembler) TailWindow() string {
	doc := a.b.String()
	if len(doc) <= a.window {
		return doc
	}
	return doc[len(doc)-a.window:]
}

func (a *Assembler) minLen() int {
	min := int(float64(a.window) * a.minFraction)
	if min < 1 {
		min = 1
	}
	return min
}

// Dedup removes the longest leading portion of text that duplicates the
// trailing end of tailWindow, provided the match is at least minLen
// characters. Candidate lengths are scanned longest to shortest; the first
// match wins. Returns the stripped text and how many characters were
// removed. Idempotent: re-applying with the same window changes nothing.
func Dedup(tailWindow, text string, minLen int) (string, int) {
	max := len(tailWindow)
	if len(text) < max {
		max = len(text)
	}
	for l := max; l >= minLen && l > 0; l-- {
		if strings.HasSuffix(tailWindow, text[:l]) {
			stripped := strings.TrimLeft(text[l:], " \n")
			return stripped, len(text) - len(stripped)
		}
	}
	return text, 0
}

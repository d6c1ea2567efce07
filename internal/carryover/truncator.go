// Package carryover derives the bounded context slice handed from one unit
// to the next unit's prompt.
package carryover

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/transcript-refiner/internal/types"
)

// DefaultBudget is the context budget in characters used when the
// configuration does not specify one.
const DefaultBudget = 500

// sentenceEnders are the runes treated as sentence boundaries when a single
// line must be cut to fit the budget.
const sentenceEnders = ".!?…"

// Derive builds the ContextSlice for the next unit from the previous unit's
// raw source text and cleaned output. The returned text is always a suffix
// region of the chosen source, at most budget characters long, in natural
// reading order.
//
// When mode is cleaned but no cleaned text exists yet (unit 0, or an empty
// provider response), the raw text is used and FellBackToRaw is set.
func Derive(prevRaw, prevCleaned string, mode types.ContextSourceMode, budget int) types.ContextSlice {
	slice := types.ContextSlice{SourceMode: mode}
	if mode == types.ContextNone || budget <= 0 {
		return slice
	}

	source := prevRaw
	if mode == types.ContextFromCleaned {
		if strings.TrimSpace(prevCleaned) == "" {
			slice.FellBackToRaw = true
		} else {
			source = prevCleaned
		}
	}
	if source == "" {
		return slice
	}

	slice.Text, slice.WasTruncated = tail(source, budget)
	return slice
}

// tail returns at most budget trailing characters of text, cutting in order
// of preference at a line, sentence, then word boundary before resorting to
// a hard character cut.
func tail(text string, budget int) (string, bool) {
	if len(text) <= budget {
		return text, false
	}

	// Drop whole leading lines until a non-empty remainder fits. Trailing
	// newlines are cut first: an empty remainder would otherwise satisfy
	// the budget and erase the context.
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for len(lines) > 1 {
		rest := strings.Join(lines[1:], "\n")
		if len(rest) <= budget && strings.TrimSpace(rest) != "" {
			return rest, true
		}
		lines = lines[1:]
	}

	// A single line remains: done if trimming newlines alone made it fit,
	// otherwise drop leading sentences.
	line := lines[0]
	if len(line) <= budget {
		return line, true
	}
	if cut, ok := tailByBoundary(line, budget, func(r rune) bool {
		return strings.ContainsRune(sentenceEnders, r)
	}); ok {
		return cut, true
	}

	// The trailing sentence alone exceeds the budget: drop leading words.
	if cut, ok := tailByBoundary(line, budget, func(r rune) bool {
		return r == ' ' || r == '\t'
	}); ok {
		return cut, true
	}

	// A single word exceeds the budget: hard-truncate to the tail, backing
	// the cut off to a rune boundary so multibyte text stays valid UTF-8.
	cut := len(line) - budget
	for cut < len(line) && !utf8.RuneStart(line[cut]) {
		cut++
	}
	return line[cut:], true
}

// tailByBoundary finds the longest suffix of line that fits within budget
// and starts right after a rune satisfying isBoundary. Returns false when no
// such boundary exists inside the window.
func tailByBoundary(line string, budget int, isBoundary func(rune) bool) (string, bool) {
	start := len(line) - budget
	// Scan forward from the cut position for the first boundary; everything
	// after it is the longest fitting suffix in natural order.
	for i, r := range line[start:] {
		if isBoundary(r) {
			cut := strings.TrimLeft(line[start+i+len(string(r)):], " \t")
			if cut != "" {
				return cut, true
			}
		}
	}
	return "", false
}

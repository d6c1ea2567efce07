// Package chunking splits source transcripts into ordered, non-overlapping
// units that respect a size budget while keeping whole lines intact.
package chunking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/transcript-refiner/internal/reader"
	"github.com/jonathan/transcript-refiner/internal/types"
)

// DefaultMaxChars is the chunk size in characters used when the
// configuration does not specify one.
const DefaultMaxChars = 6500

// Split partitions the source into units of at most maxChars characters.
// Whole lines are accumulated until the next line would overflow; a line is
// only ever split when its own length exceeds maxChars, preferring the
// nearest whitespace boundary before a hard character cut. Concatenating the
// returned unit texts in order reproduces the source text exactly.
func Split(src *reader.Source, maxChars int) ([]types.Unit, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxChars)
	}
	if src == nil || len(src.Lines) == 0 {
		return nil, nil
	}

	full := strings.Join(src.Texts(), "\n")
	if full == "" {
		return nil, nil
	}

	var units []types.Unit
	var cur strings.Builder
	var curAnchor *float64
	offset := 0

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		text := cur.String()
		units = append(units, types.Unit{
			Index:           len(units),
			Text:            text,
			StartOffset:     offset,
			EndOffset:       offset + len(text),
			AnchorTimestamp: curAnchor,
		})
		offset += len(text)
		cur.Reset()
		curAnchor = nil
	}

	note := func(t *float64) {
		if curAnchor == nil && t != nil {
			curAnchor = t
		}
	}

	for i, line := range src.Lines {
		piece := line.Text
		if i < len(src.Lines)-1 {
			piece += "\n"
		}
		if piece == "" {
			continue
		}

		if len(piece) > maxChars {
			// Oversized line: close the running unit, then emit hard splits.
			flush()
			rest := piece
			first := true
			for len(rest) > maxChars {
				cut := splitPoint(rest, maxChars)
				cur.WriteString(rest[:cut])
				if first {
					note(line.Time)
					first = false
				}
				flush()
				rest = rest[cut:]
			}
			if rest != "" {
				cur.WriteString(rest)
				if first {
					note(line.Time)
				}
			}
			continue
		}

		if cur.Len()+len(piece) > maxChars {
			flush()
		}
		cur.WriteString(piece)
		note(line.Time)
	}
	flush()

	return units, nil
}

// splitPoint returns where to cut an oversized line so the head fits within
// limit: after the last whitespace inside the window when one exists, else a
// hard cut at the limit backed off to a rune boundary so multibyte text
// never splits mid-rune.
func splitPoint(s string, limit int) int {
	window := s[:limit]
	if idx := strings.LastIndexAny(window, " \t"); idx > 0 {
		return idx + 1
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		// The first rune alone is wider than the limit; cutting mid-rune is
		// the only way to make progress.
		return limit
	}
	return cut
}

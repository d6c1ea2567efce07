package timecodes

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how heading timecodes are determined.
type Mode string

const (
	// ModeOff leaves headings unstamped.
	ModeOff Mode = "off"
	// ModeChunkAnchored stamps every heading with the anchor timestamp of
	// the unit that produced it.
	ModeChunkAnchored Mode = "chunk"
	// ModeProviderAssigned trusts inline markers the model carried into the
	// heading, falling back to the unit anchor when missing or invalid.
	ModeProviderAssigned Mode = "provider"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeOff, ModeChunkAnchored, ModeProviderAssigned:
		return true
	}
	return false
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	// inlineStampRe matches the raw transcript marker form anywhere in a line.
	inlineStampRe = regexp.MustCompile(`\[(\d{2}:\d{2}:\d{2},\d{3})\]\s*`)
	// headingStampRe matches a stamp already rendered onto a heading.
	headingStampRe = regexp.MustCompile(`\s+—\s+\[\d{2}:\d{2}:\d{2}\]\s*$`)
)

// Assigner stamps section headings in cleaned unit text. Stamping happens
// after boundary deduplication so a heading removed as duplicate is never
// stamped twice.
type Assigner struct {
	mode Mode
}

// NewAssigner builds an assigner for the given mode.
func NewAssigner(mode Mode) *Assigner {
	return &Assigner{mode: mode}
}

// Apply stamps headings in text using anchor (the unit's start time in
// seconds, nil when the source carried no timestamps) and strips any raw
// transcript markers left in body lines. The returned text is the final
// form that enters the assembled document.
func (a *Assigner) Apply(text string, anchor *float64) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			lines[i] = inlineStampRe.ReplaceAllString(line, "")
			continue
		}
		lines[i] = a.stampHeading(m[1], m[2], anchor)
	}
	return strings.Join(lines, "\n")
}

func (a *Assigner) stampHeading(hashes, body string, anchor *float64) string {
	// Already-stamped headings pass through untouched in every mode.
	if headingStampRe.MatchString(body) {
		return hashes + " " + body
	}

	var at *float64
	switch a.mode {
	case ModeProviderAssigned:
		if sm := inlineStampRe.FindStringSubmatch(body); sm != nil {
			if secs, err := ParseSRTTime(sm[1]); err == nil && secs >= 0 {
				at = &secs
			}
		}
		if at == nil {
			at = anchor
		}
	case ModeChunkAnchored:
		at = anchor
	default:
		at = nil
	}

	body = strings.TrimSpace(inlineStampRe.ReplaceAllString(body, ""))
	if at == nil || a.mode == ModeOff {
		return hashes + " " + body
	}
	return fmt.Sprintf("%s %s — [%s]", hashes, body, FormatHMS(*at))
}

// StripInlineStamps removes raw transcript markers from text without
// touching headings. Used when timecodes are disabled outright.
func StripInlineStamps(text string) string {
	return inlineStampRe.ReplaceAllString(text, "")
}

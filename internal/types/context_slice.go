package types

// ContextSourceMode selects what text feeds the carried-forward context for
// the next unit's prompt.
type ContextSourceMode string

// Context source modes
const (
	// ContextFromCleaned carries the previous unit's generated output.
	ContextFromCleaned ContextSourceMode = "cleaned"
	// ContextFromRaw carries the previous unit's original source text.
	ContextFromRaw ContextSourceMode = "raw"
	// ContextNone disables context carry-over entirely.
	ContextNone ContextSourceMode = "none"
)

// Valid reports whether the mode is one of the supported values.
func (m ContextSourceMode) Valid() bool {
	switch m {
	case ContextFromCleaned, ContextFromRaw, ContextNone:
		return true
	}
	return false
}

// ContextSlice is the bounded memory handed from unit i to unit i+1.
// It is created fresh per unit and never mutated.
type ContextSlice struct {
	SourceMode ContextSourceMode `json:"source_mode"`
	Text       string            `json:"text"`

	// WasTruncated is true when the source text exceeded the context budget
	// and had to be cut.
	WasTruncated bool `json:"was_truncated"`

	// FellBackToRaw is true when cleaned-mode context had no cleaned text to
	// draw from (unit 0, or an empty provider response) and raw source was
	// used instead. This degradation is signaled, never silent.
	FellBackToRaw bool `json:"fell_back_to_raw"`
}

// Empty reports whether the slice carries no text.
func (c *ContextSlice) Empty() bool {
	return c.Text == ""
}

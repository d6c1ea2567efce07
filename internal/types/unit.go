// Package types provides type definitions for structured data used throughout the transcript-refiner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Unit represents one non-overlapping slice of the source transcript,
// processed by a single generation call. Units are produced once by the
// chunker and are read-only afterwards.
type Unit struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`

	// AnchorTimestamp is the timestamp (seconds) of the unit's first
	// originally-timestamped source line, when the input carries per-line
	// timestamps. Nil otherwise.
	AnchorTimestamp *float64 `json:"anchor_timestamp,omitempty"`
}

// HasTimestamp reports whether the unit carries a temporal anchor.
func (u *Unit) HasTimestamp() bool {
	return u.AnchorTimestamp != nil
}

// Len returns the length of the unit text in bytes.
func (u *Unit) Len() int {
	return len(u.Text)
}

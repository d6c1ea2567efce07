// Package reader parses transcript input files into line-preserving source
// text with optional per-line timestamps.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/transcript-refiner/internal/timecodes"
)

// Format identifies a supported transcript input format.
type Format string

// Supported input formats
const (
	// FormatSRT is the SubRip subtitle format (index, time range, text blocks).
	FormatSRT Format = "srt"
	// FormatTXT is plain text, optionally with "[HH:MM:SS,mmm] " line prefixes.
	FormatTXT Format = "txt"
)

// Line is one source line with its optional timestamp in seconds.
type Line struct {
	Text string
	Time *float64
}

// Source is the parsed, line-preserving transcript.
type Source struct {
	Lines  []Line
	Format Format
}

// HasTimestamps reports whether any line carries a timestamp.
func (s *Source) HasTimestamps() bool {
	for _, ln := range s.Lines {
		if ln.Time != nil {
			return true
		}
	}
	return false
}

// Texts returns the bare line texts in order.
func (s *Source) Texts() []string {
	out := make([]string, len(s.Lines))
	for i, ln := range s.Lines {
		out[i] = ln.Text
	}
	return out
}

// InferFormat picks the input format from the file extension; anything that
// is not .srt is treated as timestamped-or-plain text.
func InferFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".srt") {
		return FormatSRT
	}
	return FormatTXT
}

// ReadFile loads and parses a transcript file. An empty format means infer
// from the extension.
func ReadFile(path string, format Format) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if format == "" {
		format = InferFormat(path)
	}
	switch format {
	case FormatSRT:
		return ParseSRT(string(data)), nil
	case FormatTXT:
		return ParseTimestampedTXT(string(data)), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// txtStampRe matches the "[HH:MM:SS,mmm] " prefix the srt-to-txt converter
// emits on each line.
var txtStampRe = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2},\d{3})\]\s*`)

// ParseTimestampedTXT parses plain text where lines may start with an
// "[HH:MM:SS,mmm]" stamp. The stamp is removed from the line text; lines
// without a stamp are kept verbatim with a nil time.
func ParseTimestampedTXT(content string) *Source {
	src := &Source{Format: FormatTXT}
	for _, raw := range splitLines(content) {
		line := Line{Text: raw}
		if m := txtStampRe.FindStringSubmatch(raw); m != nil {
			if t, err := timecodes.ParseSRTTime(m[1]); err == nil {
				tt := t
				line.Time = &tt
				line.Text = raw[len(m[0]):]
			}
		}
		src.Lines = append(src.Lines, line)
	}
	return src
}

// ParseSRT extracts the text lines of an SRT file, dropping cue indexes and
// time-range lines but keeping blank separators so paragraph structure
// survives chunking. Each text line is stamped with the start time of the
// cue it belongs to.
func ParseSRT(content string) *Source {
	src := &Source{Format: FormatSRT}
	var current *float64
	for _, raw := range splitLines(content) {
		ln := strings.TrimPrefix(raw, "\ufeff")
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			src.Lines = append(src.Lines, Line{Text: ""})
			current = nil
			continue
		}
		if isCueIndex(trimmed) {
			continue
		}
		if strings.Contains(trimmed, "-->") {
			parts := strings.SplitN(trimmed, "-->", 2)
			if t, err := timecodes.ParseSRTTime(strings.TrimSpace(parts[0])); err == nil {
				tt := t
				current = &tt
			}
			continue
		}
		src.Lines = append(src.Lines, Line{Text: ln, Time: current})
	}
	return src
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func isCueIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

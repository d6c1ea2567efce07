// Package annotations implements the content-embedded metadata channel:
// single-line HTML-comment tags of the form <!-- key: value --> that trail
// generated text. Tags are parsed but never shown to the end reader unless
// explicitly unsuppressed.
package annotations

import (
	"regexp"
	"strings"
)

// Recognized tag keys. Unrecognized keys are carried through as opaque tags
// rather than rejected.
const (
	// KeyMergedTerms carries term-normalization statements.
	KeyMergedTerms = "merged_terms"
	// KeyUncertain flags passages the provider was unsure about.
	KeyUncertain = "uncertain"
)

// Tag is one parsed annotation.
type Tag struct {
	Key   string
	Value string
}

// tagRe matches a whole line holding exactly one annotation tag.
var tagRe = regexp.MustCompile(`^\s*<!--\s*([A-Za-z0-9_.-]+)\s*:\s*(.*?)\s*-->\s*$`)

// commentLineRe matches any whole-line HTML comment, tagged or free-form.
var commentLineRe = regexp.MustCompile(`^\s*<!--.*-->\s*$`)

// Parse extracts every annotation tag from the text, in order. Zero, one,
// or many tags may appear anywhere; lines that are not sole-line tags are
// left to the body.
func Parse(text string) []Tag {
	var tags []Tag
	for _, line := range strings.Split(text, "\n") {
		if m := tagRe.FindStringSubmatch(line); m != nil {
			tags = append(tags, Tag{Key: m[1], Value: m[2]})
		}
	}
	return tags
}

// Values returns the values of every tag with the given key, in order.
func Values(tags []Tag, key string) []string {
	var out []string
	for _, t := range tags {
		if t.Key == key {
			out = append(out, t.Value)
		}
	}
	return out
}

// Strip removes every whole-line HTML comment from the text, collapsing the
// blank runs the removal leaves behind.
func Strip(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		if commentLineRe.MatchString(line) {
			removed = true
			continue
		}
		if removed && strings.TrimSpace(line) == "" && len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
			removed = false
			continue
		}
		removed = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// RemoveKey removes every sole-line tag with the given key, leaving all
// other comments and body text untouched.
func RemoveKey(text, key string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := tagRe.FindStringSubmatch(line); m != nil && m[1] == key {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// AppendTag appends a tag line to the text.
func AppendTag(text, key, value string) string {
	tag := "<!-- " + key + ": " + value + " -->"
	if text == "" {
		return tag
	}
	return strings.TrimRight(text, "\n") + "\n" + tag
}

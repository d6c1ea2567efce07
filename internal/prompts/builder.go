package prompts

import (
	"fmt"
	"strings"
)

// refineFile holds the per-unit cleanup templates.
const refineFile = "refine.json"

// summaryFile holds the final summary pass templates.
const summaryFile = "summary.json"

// ContentMode selects how aggressively the model may rewrite.
type ContentMode string

const (
	ModeNormal   ContentMode = "normal"
	ModeStrict   ContentMode = "strict"
	ModeCreative ContentMode = "creative"
)

// Valid reports whether m is a known content mode.
func (m ContentMode) Valid() bool {
	switch m {
	case ModeNormal, ModeStrict, ModeCreative:
		return true
	}
	return false
}

// UnitInput carries everything variable that goes into one unit's prompt.
type UnitInput struct {
	Chunk     string
	Context   string
	TermHints string
	Glossary  string
	Parasites []string

	// AsideStyle selects how asides and meta remarks are rendered:
	// "italic", "comment" or "remove". Empty omits the instruction.
	AsideStyle string
}

// SystemPrompt returns the system instruction for mode, with the
// side-channel protocol appended.
func SystemPrompt(mode ContentMode) (string, error) {
	key := "system_" + string(mode)
	sys, err := Get(refineFile, key)
	if err != nil {
		return "", fmt.Errorf("unknown content mode %q: %w", mode, err)
	}
	protocol, err := Get(refineFile, "protocol")
	if err != nil {
		return "", err
	}
	return sys + "\n\n" + protocol, nil
}

// UserPrompt assembles the per-unit user message. Optional sections are
// omitted entirely when their input is empty.
func UserPrompt(in UnitInput) (string, error) {
	tmpl, err := Get(refineFile, "user")
	if err != nil {
		return "", err
	}
	data := map[string]string{
		"Chunk":            in.Chunk,
		"ContextSection":   "",
		"TermHintsSection": "",
		"GlossarySection":  "",
		"ParasitesSection": "",
		"AsideSection":     "",
	}
	if in.AsideStyle != "" {
		section, aerr := Get(refineFile, "aside_"+in.AsideStyle)
		if aerr != nil {
			return "", fmt.Errorf("unknown aside style %q: %w", in.AsideStyle, aerr)
		}
		data["AsideSection"] = section
	}
	if in.Context != "" {
		data["ContextSection"] = mustSection("context_section", map[string]string{"Context": in.Context})
	}
	if in.TermHints != "" && in.TermHints != "[]" {
		data["TermHintsSection"] = mustSection("term_hints_section", map[string]string{"TermHints": in.TermHints})
	}
	if in.Glossary != "" {
		data["GlossarySection"] = mustSection("glossary_section", map[string]string{"Glossary": in.Glossary})
	}
	if len(in.Parasites) > 0 {
		data["ParasitesSection"] = mustSection("parasites_section", map[string]string{"Parasites": strings.Join(in.Parasites, ", ")})
	}
	return Format(tmpl, data), nil
}

// SummaryPrompts returns the system and user messages for the summary pass.
func SummaryPrompts(document string) (system, user string, err error) {
	system, err = Get(summaryFile, "system")
	if err != nil {
		return "", "", err
	}
	tmpl, err := Get(summaryFile, "user")
	if err != nil {
		return "", "", err
	}
	return system, Format(tmpl, map[string]string{"Document": document}), nil
}

func mustSection(key string, data map[string]string) string {
	return Format(MustGet(refineFile, key), data)
}

// Package terms accumulates the global canonical-term table across units and
// parses the provider's term-normalization statements.
package terms

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/transcript-refiner/internal/schemas"
)

//go:embed term_records.schema.json
var recordsSchema string

// Record is one structured term-normalization statement from the provider's
// annotation block.
type Record struct {
	Canonical  string   `json:"canonical"`
	Variants   []string `json:"variants"`
	Evidence   string   `json:"evidence,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// ParseError reports an unparseable annotation value. Soft: the caller logs
// it and continues with no new terms for the unit.
type ParseError struct {
	Value string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable term statement %q: %v", truncateValue(e.Value, 80), e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ParseStatements decodes one annotation value in either supported encoding:
// a JSON array of records (validated against the embedded schema), or the
// "variant, variant -> canonical" shorthand with statements separated by
// semicolons.
func ParseStatements(value string) ([]Record, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.HasPrefix(value, "[") {
		return parseStructured(value)
	}
	return parseShorthand(value)
}

func parseStructured(value string) ([]Record, error) {
	if err := schemas.ValidateJSONString(recordsSchema, value); err != nil {
		return nil, &ParseError{Value: value, Cause: err}
	}

	var records []Record
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, &ParseError{Value: value, Cause: err}
	}
	return records, nil
}

// parseShorthand decodes "v1, v2 -> canonical; v3 -> canonical2". Both the
// ASCII arrow and the typographic arrow are accepted.
func parseShorthand(value string) ([]Record, error) {
	var records []Record
	for _, stmt := range strings.Split(value, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		arrow := strings.LastIndex(stmt, "->")
		width := 2
		if idx := strings.LastIndex(stmt, "→"); idx >= 0 && idx > arrow {
			arrow = idx
			width = len("→")
		}
		if arrow < 0 {
			return records, &ParseError{Value: stmt, Cause: fmt.Errorf("missing arrow")}
		}
		canonical := strings.TrimSpace(stmt[arrow+width:])
		if canonical == "" {
			return records, &ParseError{Value: stmt, Cause: fmt.Errorf("empty canonical")}
		}
		var variants []string
		for _, v := range strings.Split(stmt[:arrow], ",") {
			if v = strings.TrimSpace(v); v != "" {
				variants = append(variants, v)
			}
		}
		records = append(records, Record{Canonical: canonical, Variants: variants})
	}
	return records, nil
}

func truncateValue(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

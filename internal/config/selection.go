package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseUnitSelection parses a 1-based unit subset expression such as
// "1,3-5" into a sorted list of unique unit indexes.
func ParseUnitSelection(expr string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, err := parseRange(part)
		if err != nil {
			return nil, err
		}
		for i := lo; i <= hi; i++ {
			seen[i] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("empty unit selection %q", expr)
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func parseRange(part string) (int, int, error) {
	if lo, hi, ok := strings.Cut(part, "-"); ok {
		a, err := parseIndex(lo)
		if err != nil {
			return 0, 0, err
		}
		b, err := parseIndex(hi)
		if err != nil {
			return 0, 0, err
		}
		if b < a {
			return 0, 0, fmt.Errorf("invalid range %q: end before start", part)
		}
		return a, b, nil
	}
	n, err := parseIndex(part)
	return n, n, err
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid unit index %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("unit index %d out of range: indexes are 1-based", n)
	}
	return n, nil
}

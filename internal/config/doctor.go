package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is the outcome of a config health check.
type Report struct {
	Path        string
	UnknownKeys []string
	Problems    []string
	Effective   Config
}

// Healthy reports whether the check found nothing to complain about.
func (r *Report) Healthy() bool {
	return len(r.UnknownKeys) == 0 && len(r.Problems) == 0
}

// Doctor checks a config file for unknown keys and constraint violations
// and reports the effective configuration after defaults are applied.
func Doctor(path string) (*Report, error) {
	report := &Report{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	known := knownKeys()
	for key := range raw {
		if !known[key] {
			report.UnknownKeys = append(report.UnknownKeys, key)
		}
	}
	sort.Strings(report.UnknownKeys)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		report.Problems = append(report.Problems, err.Error())
		return report, nil
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		report.Problems = append(report.Problems, err.Error())
	}
	report.Effective = merged
	return report, nil
}

// knownKeys collects every yaml tag declared on Config.
func knownKeys() map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		keys[name] = true
	}
	return keys
}

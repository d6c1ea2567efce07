// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the YAML run configuration. All fields are optional; missing
// values fall back to defaults or CLI flags.
type Config struct {
	// Provider
	Provider    string   `yaml:"provider" validate:"omitempty,oneof=gemini openai stub"`
	Model       string   `yaml:"model"`
	Temperature *float32 `yaml:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP        *float32 `yaml:"top_p" validate:"omitempty,gt=0,lte=1"`
	BaseURL     string   `yaml:"base_url" validate:"omitempty,url"`

	// Chunking and stitching
	ChunkChars   int `yaml:"chunk_chars" validate:"omitempty,gt=0"`
	OverlapChars int `yaml:"overlap_chars" validate:"omitempty,gte=0"`
	// DedupWindowChars controls boundary deduplication: nil means "use
	// overlap_chars", 0 disables deduplication.
	DedupWindowChars      *int    `yaml:"dedup_window_chars" validate:"omitempty,gte=0"`
	DedupMinMatchFraction float64 `yaml:"dedup_min_match_fraction" validate:"omitempty,gt=0,lt=1"`

	// Context carried between units: the previous unit's cleaned output,
	// its raw source text, or nothing.
	ContextSource string `yaml:"context_source" validate:"omitempty,oneof=cleaned raw none"`

	// Content
	ContentMode          string              `yaml:"content_mode" validate:"omitempty,oneof=normal strict creative"`
	AsideStyle           string              `yaml:"aside_style" validate:"omitempty,oneof=italic comment remove"`
	Language             string              `yaml:"language"`
	Parasites            map[string][]string `yaml:"parasites"`
	Glossary             []string            `yaml:"glossary"`
	GlossaryFile         string              `yaml:"glossary_file"`
	ParasiteFiles        map[string]string   `yaml:"parasite_files"`
	SuppressEditComments bool                `yaml:"suppress_edit_comments"`

	// Summary
	AppendSummary  bool   `yaml:"append_summary"`
	SummaryHeading string `yaml:"summary_heading"`

	// Timecodes. include_timecodes_in_headings defaults to true, so unset
	// must stay distinguishable from false.
	IncludeTimecodes *bool  `yaml:"include_timecodes_in_headings"`
	TimecodeMode     string `yaml:"timecode_mode" validate:"omitempty,oneof=chunk provider off"`

	// Retry and pacing
	Retries           int     `yaml:"retries" validate:"omitempty,gte=1"`
	RetryPauseSeconds float64 `yaml:"retry_pause_seconds" validate:"omitempty,gte=0"`
	InterCallDelay    float64 `yaml:"inter_call_delay_seconds" validate:"omitempty,gte=0"`

	// Subset processing, e.g. "1,3-5". Unit indexes are 1-based here.
	OnlyUnits string `yaml:"only_units"`

	// InputFormat forces the transcript format; empty means infer from the
	// file extension.
	InputFormat string `yaml:"input_format" validate:"omitempty,oneof=srt txt"`

	// Outputs
	Output   string `yaml:"output"`
	QCReport string `yaml:"qc_report"`

	// Persistence and diagnostics
	DatabaseURL string `yaml:"database_url"`
	Verbose     bool   `yaml:"verbose"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// Defaults returns the configuration used when nothing is specified.
func Defaults() Config {
	return Config{
		Provider:              "gemini",
		ChunkChars:            6500,
		OverlapChars:          500,
		DedupMinMatchFraction: 0.1,
		ContextSource:         "cleaned",
		ContentMode:           "normal",
		AsideStyle:            "italic",
		Language:              "en",
		SummaryHeading:        "## Summary",
		TimecodeMode:          "chunk",
		Retries:               3,
		RetryPauseSeconds:     20,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the cross-field rules that cannot
// be expressed as struct tags. Violations are fatal at startup.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			v := verrs[0]
			return fmt.Errorf("config error: field %q failed rule %q", v.StructField(), v.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.OverlapChars >= c.ChunkChars && c.ChunkChars > 0 {
		return fmt.Errorf("config error: 'overlap_chars' (%d) must be smaller than 'chunk_chars' (%d)", c.OverlapChars, c.ChunkChars)
	}
	if c.DedupWindowChars != nil && *c.DedupWindowChars > c.ChunkChars && c.ChunkChars > 0 {
		return fmt.Errorf("config error: 'dedup_window_chars' (%d) must not exceed 'chunk_chars' (%d)", *c.DedupWindowChars, c.ChunkChars)
	}
	if c.OnlyUnits != "" {
		if _, err := ParseUnitSelection(c.OnlyUnits); err != nil {
			return fmt.Errorf("config error: 'only_units': %w", err)
		}
	}
	return nil
}

// DedupWindow resolves the effective dedup window in characters.
func (c *Config) DedupWindow() int {
	if c.DedupWindowChars != nil {
		return *c.DedupWindowChars
	}
	return c.OverlapChars
}

// TimecodesEnabled reports whether headings get timecode stamps.
// Unset means enabled.
func (c *Config) TimecodesEnabled() bool {
	if c.IncludeTimecodes == nil {
		return true
	}
	return *c.IncludeTimecodes
}

// ParasitesForLanguage returns the filler-word list for the configured
// language, or nil when none is defined.
func (c *Config) ParasitesForLanguage() []string {
	if c.Parasites == nil {
		return nil
	}
	return c.Parasites[c.Language]
}

// LoadLists appends glossary and parasite entries from the configured
// one-per-line list files. Entries from files follow inline entries.
func (c *Config) LoadLists() error {
	if c.GlossaryFile != "" {
		entries, err := readList(c.GlossaryFile)
		if err != nil {
			return fmt.Errorf("glossary file: %w", err)
		}
		c.Glossary = append(c.Glossary, entries...)
	}
	for lang, path := range c.ParasiteFiles {
		entries, err := readList(path)
		if err != nil {
			return fmt.Errorf("parasites file for %q: %w", lang, err)
		}
		if c.Parasites == nil {
			c.Parasites = make(map[string][]string)
		}
		c.Parasites[lang] = append(c.Parasites[lang], entries...)
	}
	return nil
}

// readList reads a one-entry-per-line file, skipping blank lines and
// "#" comment lines.
func readList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Bool fields are not merged; CLI flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.ContextSource == "" {
		result.ContextSource = defaults.ContextSource
	}
	if result.ContentMode == "" {
		result.ContentMode = defaults.ContentMode
	}
	if result.AsideStyle == "" {
		result.AsideStyle = defaults.AsideStyle
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.SummaryHeading == "" {
		result.SummaryHeading = defaults.SummaryHeading
	}
	if result.TimecodeMode == "" {
		result.TimecodeMode = defaults.TimecodeMode
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.QCReport == "" {
		result.QCReport = defaults.QCReport
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.ChunkChars == 0 {
		result.ChunkChars = defaults.ChunkChars
	}
	if result.OverlapChars == 0 {
		result.OverlapChars = defaults.OverlapChars
	}
	if result.Retries == 0 {
		result.Retries = defaults.Retries
	}
	if result.RetryPauseSeconds == 0 {
		result.RetryPauseSeconds = defaults.RetryPauseSeconds
	}
	if result.DedupMinMatchFraction == 0 {
		result.DedupMinMatchFraction = defaults.DedupMinMatchFraction
	}

	return result
}

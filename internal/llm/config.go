// Package llm provides a uniform client contract over interchangeable
// generation backends, plus the retry/backoff policy applied around calls.
package llm

// Provider identifies a generation backend.
type Provider string

// Provider constants define supported generation backends
const (
	// ProviderGemini is the Google Gemini backend.
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI chat-completions backend.
	ProviderOpenAI Provider = "openai"
	// ProviderStub is the deterministic in-process backend used in tests
	// and dry runs.
	ProviderStub Provider = "stub"
)

// Valid reports whether the provider is one of the supported backends.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderStub:
		return true
	}
	return false
}

// Config holds backend selection and per-backend model settings.
type Config struct {
	Provider    Provider
	Model       string
	Temperature *float32
	TopP        *float32

	// BaseURL overrides the OpenAI endpoint (proxies, compatible servers).
	// Ignored by other backends.
	BaseURL string
}

// DefaultConfig returns the default backend configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    "gemini-2.5-flash",
	}
}

// ModelOrDefault returns the configured model, falling back to the given
// backend default when unset.
func (c *Config) ModelOrDefault(fallback string) string {
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

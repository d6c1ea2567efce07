package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/transcript-refiner/internal/types"
)

// Client is the uniform call contract over generation backends. Callers
// depend only on this interface, never on a concrete backend.
type Client interface {
	// Generate performs one generation call and returns the plain text
	// response. Failures are classified into the package error taxonomy.
	Generate(ctx context.Context, req types.GenerationRequest) (string, error)
	// Name returns the backend identity used in logs and fatal reports.
	Name() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a client for the configured backend.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	case ProviderStub:
		return NewStubClient(config), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
}

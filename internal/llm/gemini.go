package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/transcript-refiner/internal/types"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &AuthError{Backend: string(ProviderGemini), Cause: errors.New("API key is required")}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Name returns the backend identity.
func (c *GeminiClient) Name() string {
	return string(ProviderGemini)
}

// Generate performs one generation call against the configured Gemini model.
func (c *GeminiClient) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	modelName := req.Parameters.Model
	if modelName == "" {
		modelName = c.config.ModelOrDefault(defaultGeminiModel)
	}

	model := c.client.GenerativeModel(modelName)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}
	if t := pick(req.Parameters.Temperature, c.config.Temperature); t != nil {
		model.SetTemperature(*t)
	}
	if p := pick(req.Parameters.TopP, c.config.TopP); p != nil {
		model.SetTopP(*p)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return "", c.classify(err)
	}

	return extractText(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// classify maps SDK errors into the package taxonomy so the retry policy
// can decide what is transient.
func (c *GeminiClient) classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &RateLimitError{Backend: c.Name(), RetryAfter: retryAfterHeader(apiErr.Header), Cause: err}
		case apiErr.Code >= 500:
			return &ConnectionError{Backend: c.Name(), Cause: err}
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusPaymentRequired:
			return &AuthError{Backend: c.Name(), Cause: err}
		}
		return &UnknownError{Backend: c.Name(), Cause: err}
	}
	// The gRPC transport surfaces some conditions as plain errors; fall back
	// to the message-matching the original adapters relied on.
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "rate limit", "resource exhausted", "too many requests", "quota"):
		return &RateLimitError{Backend: c.Name(), Cause: err}
	case containsAny(msg, "deadline exceeded", "timeout", "unavailable", "connection"):
		return &ConnectionError{Backend: c.Name(), Cause: err}
	case containsAny(msg, "unauthenticated", "api key not valid", "permission", "billing"):
		return &AuthError{Backend: c.Name(), Cause: err}
	}
	return &UnknownError{Backend: c.Name(), Cause: err}
}

// extractText flattens a Gemini response into plain text.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

func retryAfterHeader(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	if v := h.Get("Retry-After"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			return d
		}
	}
	return 0
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// pick returns the call-level override when set, else the config default.
func pick(override, fallback *float32) *float32 {
	if override != nil {
		return override
	}
	return fallback
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/transcript-refiner/internal/types"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	openAITimeout         = 90 * time.Second
)

// OpenAIClient implements Client over the OpenAI chat-completions HTTP API.
type OpenAIClient struct {
	client   *http.Client
	config   *Config
	apiKey   string
	endpoint string
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature *float32            `json:"temperature,omitempty"`
	TopP        *float32            `json:"top_p,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a new OpenAI client. BaseURL in the config may
// point at any chat-completions-compatible endpoint.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, &AuthError{Backend: string(ProviderOpenAI), Cause: errors.New("API key is required")}
	}
	return &OpenAIClient{
		client:   &http.Client{Timeout: openAITimeout},
		config:   config,
		apiKey:   apiKey,
		endpoint: resolveEndpoint(config.BaseURL),
	}, nil
}

// Name returns the backend identity.
func (c *OpenAIClient) Name() string {
	return string(ProviderOpenAI)
}

// Generate performs one chat-completions call.
func (c *OpenAIClient) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	model := req.Parameters.Model
	if model == "" {
		model = c.config.ModelOrDefault(defaultOpenAIModel)
	}

	var messages []openAIChatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openAIChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, openAIChatMessage{Role: "user", Content: req.UserPrompt})

	body, err := json.Marshal(openAIChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: pick(req.Parameters.Temperature, c.config.Temperature),
		TopP:        pick(req.Parameters.TopP, c.config.TopP),
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &ConnectionError{Backend: c.Name(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ConnectionError{Backend: c.Name(), Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classifyStatus(resp, payload)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", &UnknownError{Backend: c.Name(), Cause: fmt.Errorf("malformed response body: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Close is a no-op: the HTTP client holds no per-run resources.
func (c *OpenAIClient) Close() error {
	return nil
}

// classifyStatus maps an HTTP error status into the package taxonomy.
func (c *OpenAIClient) classifyStatus(resp *http.Response, payload []byte) error {
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Backend: c.Name(), RetryAfter: parseRetryAfter(resp.Header), Cause: cause}
	case resp.StatusCode >= 500:
		return &ConnectionError{Backend: c.Name(), Cause: cause}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusPaymentRequired:
		return &AuthError{Backend: c.Name(), Cause: cause}
	}
	return &UnknownError{Backend: c.Name(), Cause: cause}
}

func resolveEndpoint(baseURL string) string {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		return defaultOpenAIEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasSuffix(endpoint, "/chat/completions") {
		if strings.HasSuffix(endpoint, "/v1") {
			endpoint += "/chat/completions"
		} else {
			endpoint += "/v1/chat/completions"
		}
	}
	return endpoint
}

func parseRetryAfter(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

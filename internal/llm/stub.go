package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/transcript-refiner/internal/types"
)

// StubClient is a deterministic in-process backend for tests and dry runs.
// With an empty script it echoes the user prompt; a script makes it return
// canned texts and errors in order, which is how retry behavior is exercised
// without a network.
type StubClient struct {
	config *Config

	mu     sync.Mutex
	script []StubResult
	calls  []types.GenerationRequest
}

// StubResult is one scripted call outcome.
type StubResult struct {
	Text string
	Err  error
}

// NewStubClient creates a stub backend.
func NewStubClient(config *Config) *StubClient {
	return &StubClient{config: config}
}

// Name returns the backend identity.
func (c *StubClient) Name() string {
	return string(ProviderStub)
}

// Enqueue appends scripted outcomes consumed by subsequent Generate calls.
func (c *StubClient) Enqueue(results ...StubResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.script = append(c.script, results...)
}

// Calls returns a copy of every request seen so far.
func (c *StubClient) Calls() []types.GenerationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.GenerationRequest(nil), c.calls...)
}

// Generate replays the script, or echoes the user prompt when no script is
// loaded.
func (c *StubClient) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)

	if len(c.script) > 0 {
		next := c.script[0]
		c.script = c.script[1:]
		return next.Text, next.Err
	}

	model := req.Parameters.Model
	if model == "" {
		model = c.config.ModelOrDefault("stub")
	}
	return fmt.Sprintf("[stub:%s] %s", model, req.UserPrompt), nil
}

// Close is a no-op.
func (c *StubClient) Close() error {
	return nil
}

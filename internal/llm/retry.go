package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/transcript-refiner/internal/types"
)

// RetryPolicy controls how transient backend failures are retried.
type RetryPolicy struct {
	// Attempts is the total number of calls made before giving up.
	// 1 means no retry.
	Attempts int
	// Pause is the configured wait added before every retry. The actual
	// wait is the backend-suggested delay plus this pause.
	Pause time.Duration
	// InterCall is an optional fixed delay inserted before every call after
	// the first, independent of retries, to respect external rate limits.
	InterCall time.Duration
}

// Backoff returns the wait before retry number attempt (1-based): the
// backend-suggested delay plus the configured pause when a suggestion
// exists, otherwise the configured pause alone.
func Backoff(attempt int, suggested, pause time.Duration) time.Duration {
	if attempt < 1 {
		return 0
	}
	if suggested > 0 {
		return suggested + pause
	}
	return pause
}

// RetryStats reports what a Generate loop actually did.
type RetryStats struct {
	Attempts int
	Waits    int
}

// GenerateWithRetry calls the client under the policy. Transient failures
// (rate limiting, timeouts, 5xx-class errors) are retried up to
// policy.Attempts total calls; non-transient failures return immediately.
// The sleep between attempts honors context cancellation.
func GenerateWithRetry(ctx context.Context, client Client, req types.GenerationRequest, policy RetryPolicy) (string, RetryStats, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var stats RetryStats
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		stats.Attempts = attempt
		text, err := client.Generate(ctx, req)
		if err == nil {
			return text, stats, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == attempts {
			break
		}
		wait := Backoff(attempt, SuggestedDelay(err), policy.Pause)
		if serr := sleep(ctx, wait); serr != nil {
			return "", stats, serr
		}
		stats.Waits++
	}
	return "", stats, fmt.Errorf("%s call failed after %d attempt(s): %w", client.Name(), stats.Attempts, lastErr)
}

// sleep waits for d unless the context is canceled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PaceCalls sleeps for the policy's inter-call delay. The orchestrator calls
// it between successive units, never before the first.
func PaceCalls(ctx context.Context, policy RetryPolicy) error {
	return sleep(ctx, policy.InterCall)
}

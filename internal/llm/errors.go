package llm

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError reports that the backend refused the call due to rate
// limiting or quota pressure. Transient: the caller may retry after the
// suggested delay, when the backend supplied one.
type RateLimitError struct {
	Backend    string
	RetryAfter time.Duration
	Cause      error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Backend, e.RetryAfter, e.Cause)
	}
	return fmt.Sprintf("%s rate limited: %v", e.Backend, e.Cause)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// ConnectionError reports a transport-level failure (timeout, 5xx-class
// upstream error, unreachable host). Transient: the caller may retry.
type ConnectionError struct {
	Backend string
	Cause   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection error: %v", e.Backend, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// AuthError reports failed authentication or authorization (missing or
// invalid API key, billing problems). Never retried.
type AuthError struct {
	Backend string
	Cause   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth error: %v", e.Backend, e.Cause)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// UnknownError wraps an unclassified backend failure. Treated as
// non-transient by default.
type UnknownError struct {
	Backend string
	Cause   error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s unknown error: %v", e.Backend, e.Cause)
}

func (e *UnknownError) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether the error is worth retrying: rate limiting
// and transport failures are, everything else is not.
func IsTransient(err error) bool {
	var rl *RateLimitError
	var conn *ConnectionError
	return errors.As(err, &rl) || errors.As(err, &conn)
}

// SuggestedDelay returns the backend-suggested wait before a retry, or zero
// when the backend supplied none.
func SuggestedDelay(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}

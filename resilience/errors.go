package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrRateLimited is returned when the upstream call budget is exhausted
	// and a token did not become available within the bounded wait.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when an operation exceeds its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// RateLimitedError reports an exhausted call budget together with a hint
// of how long the caller should wait before trying again. It matches
// ErrRateLimited under errors.Is.
type RateLimitedError struct {
	// RetryAfter is the estimated wait until a token becomes available.
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("resilience: rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Millisecond))
}

// Is reports whether target is ErrRateLimited.
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

package health

import (
	"context"
	"fmt"
)

// TokenSource reports the available tokens in a rate limit bucket.
type TokenSource interface {
	Tokens() float64
}

// RateLimitChecker reports on the token budget guarding openFDA calls.
// An empty bucket is degraded, not unhealthy: requests queue on the
// limiter's bounded wait and the bucket refills on its own.
type RateLimitChecker struct {
	source TokenSource
}

// NewRateLimitChecker creates a rate limit health checker over the
// given token source.
func NewRateLimitChecker(source TokenSource) *RateLimitChecker {
	return &RateLimitChecker{source: source}
}

// Name returns the name of this checker.
func (r *RateLimitChecker) Name() string {
	return "fda_ratelimit"
}

// Check reports the available token budget.
func (r *RateLimitChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	tokens := r.source.Tokens()
	details := map[string]any{
		"available_tokens": tokens,
	}

	if tokens < 1 {
		return Degraded("rate limit budget exhausted").WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("%.0f token(s) available", tokens),
	).WithDetails(details)
}

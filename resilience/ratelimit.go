package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Capacity is the number of calls allowed per Window.
	// Default: 60
	Capacity int

	// Window is the period over which Capacity applies.
	// Default: 1 minute
	Window time.Duration

	// MaxWait is the maximum time Wait blocks for a token.
	// Default: 2 seconds
	MaxWait time.Duration
}

// RateLimiter is a token bucket bounding outbound calls to the external
// data source. The bucket holds at most Capacity tokens and refills
// continuously at Capacity-per-Window.
type RateLimiter struct {
	config RateLimiterConfig
	rate   float64 // tokens per second

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Capacity <= 0 {
		config.Capacity = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.MaxWait <= 0 {
		config.MaxWait = 2 * time.Second
	}

	return &RateLimiter{
		config:     config,
		rate:       float64(config.Capacity) / config.Window.Seconds(),
		tokens:     float64(config.Capacity),
		lastRefill: time.Now(),
	}
}

// Allow takes a token if one is available. It never blocks.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available, the bounded wait elapses, or ctx
// is done. When a token cannot be obtained within MaxWait it fails with a
// *RateLimitedError carrying a retry-after hint; it never retries beyond
// that single bounded wait.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rl.Allow() {
		return nil
	}

	need := rl.timeToNextToken()
	if need > rl.config.MaxWait {
		return &RateLimitedError{RetryAfter: need}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(need):
		if rl.Allow() {
			return nil
		}
		// A concurrent caller took the refilled token.
		return &RateLimitedError{RetryAfter: rl.timeToNextToken()}
	}
}

// timeToNextToken estimates how long until one full token is available.
func (rl *RateLimiter) timeToNextToken() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens >= 1 {
		return 0
	}
	missing := 1 - rl.tokens
	return time.Duration(missing / rl.rate * float64(time.Second))
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	rl.lastRefill = now

	rl.tokens += elapsed.Seconds() * rl.rate
	if rl.tokens > float64(rl.config.Capacity) {
		rl.tokens = float64(rl.config.Capacity)
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket to capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Capacity)
	rl.lastRefill = time.Now()
}

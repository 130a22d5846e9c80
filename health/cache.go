package health

import (
	"context"
	"fmt"
)

// EntryCounter reports the number of live entries in a cache store.
type EntryCounter interface {
	Len() int
}

// CacheCheckerConfig configures the cache health checker.
type CacheCheckerConfig struct {
	// WarnEntries is the entry count that triggers degraded status.
	// The profile cache has no eviction, so a runaway count means
	// something is resolving names it should not. Default: 0 (no limit).
	WarnEntries int
}

// CacheChecker reports on the profile cache.
type CacheChecker struct {
	counter EntryCounter
	config  CacheCheckerConfig
}

// NewCacheChecker creates a cache health checker over the given store.
func NewCacheChecker(counter EntryCounter, config CacheCheckerConfig) *CacheChecker {
	return &CacheChecker{counter: counter, config: config}
}

// Name returns the name of this checker.
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check reports the current entry count, degraded when it exceeds the
// configured warning threshold.
func (c *CacheChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	entries := c.counter.Len()
	details := map[string]any{
		"entries": entries,
	}

	if c.config.WarnEntries > 0 && entries >= c.config.WarnEntries {
		return Degraded(
			fmt.Sprintf("cache entry count high: %d", entries),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("%d cached profile(s)", entries),
	).WithDetails(details)
}

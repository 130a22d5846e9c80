// Package health provides health checking for the drug safety service.
//
// The service depends on an in-memory profile cache, a token bucket
// guarding openFDA calls, and its own process memory. Each concern is a
// Checker; the Aggregator fans the checks out and folds their results
// into an overall status.
//
// # Basic Usage
//
//	// Watch the rate limit budget for openFDA calls.
//	rlCheck := health.NewRateLimitChecker(limiter)
//
//	result := rlCheck.Check(ctx)
//	if result.Status == health.StatusDegraded {
//	    log.Printf("FDA budget exhausted: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite
// check:
//
//	agg := health.NewAggregator()
//	agg.Register("cache", health.NewCacheChecker(store, health.CacheCheckerConfig{}))
//	agg.Register("fda_ratelimit", health.NewRateLimitChecker(limiter))
//	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common probe patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed health status
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health

package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records query, cache, and upstream activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordQuery records one completed query with duration and error status.
	RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error)

	// RecordCacheHit records a profile served from the store.
	RecordCacheHit(ctx context.Context)

	// RecordCacheMiss records a profile that had to be fetched.
	RecordCacheMiss(ctx context.Context)

	// RecordUpstreamCall records one logical fetch against the upstream provider.
	RecordUpstreamCall(ctx context.Context)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	durationHist  metric.Float64Histogram
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	upstreamCalls metric.Int64Counter
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	queryCount, err := meter.Int64Counter(
		"drug.query.total",
		metric.WithDescription("Total number of drug safety queries"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"drug.query.errors",
		metric.WithDescription("Total number of failed drug safety queries"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"drug.query.duration_ms",
		metric.WithDescription("Drug safety query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"drug.cache.hits",
		metric.WithDescription("Profiles served from the cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"drug.cache.misses",
		metric.WithDescription("Profiles that required a fresh fetch"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	upstreamCalls, err := meter.Int64Counter(
		"drug.upstream.calls",
		metric.WithDescription("Logical fetches against the upstream provider"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		queryCount:    queryCount,
		errorCount:    errorCount,
		durationHist:  durationHist,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		upstreamCalls: upstreamCalls,
	}, nil
}

// RecordQuery records metrics for one completed query.
func (m *metricsImpl) RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error) {
	// Drug names stay out of metric labels to keep cardinality bounded;
	// they ride on spans instead.
	opt := metric.WithAttributes(attribute.String("query.tool", meta.Tool))

	m.queryCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

func (m *metricsImpl) RecordCacheMiss(ctx context.Context) {
	m.cacheMisses.Add(ctx, 1)
}

func (m *metricsImpl) RecordUpstreamCall(ctx context.Context) {
	m.upstreamCalls.Add(ctx, 1)
}

// NewNoopMetrics returns a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordCacheHit(ctx context.Context)     {}
func (m *noopMetrics) RecordCacheMiss(ctx context.Context)    {}
func (m *noopMetrics) RecordUpstreamCall(ctx context.Context) {}

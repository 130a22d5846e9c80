package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature for query execution functions.
// This is the standard function signature that Middleware wraps.
type ExecuteFunc func(ctx context.Context, meta QueryMeta, input any) (any, error)

// Middleware wraps query execution with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
//   - Ownership: Input/output values are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an ExecuteFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result, err := fn(ctx, meta, input)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordQuery(ctx, meta, duration, err)

		queryLogger := m.logger.With(Field{Key: "tool", Value: meta.Tool})
		if len(meta.Drugs) > 0 {
			queryLogger = queryLogger.With(Field{Key: "drugs", Value: meta.Drugs})
		}
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			queryLogger.Error(ctx, "query failed", fields...)
		} else {
			queryLogger.Info(ctx, "query completed", fields...)
		}

		return result, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}

package observe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "query completed", Field{Key: "drug", Value: "aspirin"})
	}
}

func BenchmarkLogger_InfoMultipleFields(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "query completed",
			Field{Key: "drug", Value: "aspirin"},
			Field{Key: "cached", Value: true},
			Field{Key: "duration_ms", Value: 12.5},
			Field{Key: "score", Value: 78},
		)
	}
}

func BenchmarkLogger_With(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.With(Field{Key: "tool", Value: "drug_safety_profile"})
	}
}

func BenchmarkLogger_WithThenLog(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		derived := logger.With(Field{Key: "tool", Value: "drug_safety_profile"})
		derived.Info(ctx, "query completed")
	}
}

func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "filtered out", Field{Key: "drug", Value: "aspirin"})
	}
}

func BenchmarkQueryMeta_SpanName(b *testing.B) {
	meta := QueryMeta{Tool: "drug_safety_profile"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.SpanName()
	}
}

func BenchmarkTracer_StartEndSpan(b *testing.B) {
	tracer := newNoopTracer()
	meta := QueryMeta{Tool: "drug_safety_profile", Drugs: []string{"aspirin"}}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, span := tracer.StartSpan(ctx, meta)
		tracer.EndSpan(span, nil)
	}
}

func BenchmarkMetrics_RecordQuery(b *testing.B) {
	m := NewNoopMetrics()
	meta := QueryMeta{Tool: "drug_safety_profile"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordQuery(ctx, meta, 10*time.Millisecond, nil)
	}
}

func BenchmarkMetrics_RecordQueryWithError(b *testing.B) {
	m := NewNoopMetrics()
	meta := QueryMeta{Tool: "drug_safety_profile"}
	ctx := context.Background()
	err := errors.New("upstream unavailable")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordQuery(ctx, meta, 10*time.Millisecond, err)
	}
}

func BenchmarkMetrics_RecordCacheHit(b *testing.B) {
	m := NewNoopMetrics()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordCacheHit(ctx)
	}
}

func BenchmarkMiddleware_Wrap(b *testing.B) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "bench"})
	if err != nil {
		b.Fatalf("NewObserver: %v", err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver: %v", err)
	}

	wrapped := mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return input, nil
	})
	meta := QueryMeta{Tool: "drug_safety_profile"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, meta, nil)
	}
}

func BenchmarkMiddleware_WrapWithLogging(b *testing.B) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "bench"})
	if err != nil {
		b.Fatalf("NewObserver: %v", err)
	}
	obs.(*observer).logger = NewLoggerWithWriter("info", io.Discard)

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver: %v", err)
	}

	wrapped := mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return input, nil
	})
	meta := QueryMeta{Tool: "drug_safety_profile", Drugs: []string{"aspirin"}}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, meta, nil)
	}
}

func BenchmarkConcurrent_Logger(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info(ctx, "query completed", Field{Key: "drug", Value: "aspirin"})
		}
	})
}

func BenchmarkConcurrent_Middleware(b *testing.B) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "bench"})
	if err != nil {
		b.Fatalf("NewObserver: %v", err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver: %v", err)
	}

	wrapped := mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return input, nil
	})
	meta := QueryMeta{Tool: "drug_safety_profile"}
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = wrapped(ctx, meta, nil)
		}
	})
}

func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "drugsafety",
		Tracing: TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "stdout",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}

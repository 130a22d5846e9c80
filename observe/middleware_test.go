package observe

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testMiddleware struct {
	mw       *Middleware
	recorder *tracetest.SpanRecorder
	reader   *sdkmetric.ManualReader
}

// newTestMiddleware wires a middleware to in-memory trace and metric sinks.
func newTestMiddleware(t *testing.T) *testMiddleware {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	traceProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(meterProvider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	mw := NewMiddleware(
		newTracer(traceProvider.Tracer("test")),
		metrics,
		NewLoggerWithWriter("error", io.Discard),
	)
	return &testMiddleware{mw: mw, recorder: recorder, reader: reader}
}

// TestMiddleware_SuccessPath verifies span and counter on a successful query.
func TestMiddleware_SuccessPath(t *testing.T) {
	tm := newTestMiddleware(t)

	wrapped := tm.mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return map[string]any{"drug_name": "Aspirin"}, nil
	})

	meta := QueryMeta{Tool: "drug_safety_profile", Drugs: []string{"aspirin"}}
	result, err := wrapped(context.Background(), meta, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}

	spans := tm.recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "drug.query.drug_safety_profile" {
		t.Errorf("span name = %q, want drug.query.drug_safety_profile", spans[0].Name())
	}

	rm := collect(t, tm.reader)
	total := findMetric(rm, "drug.query.total")
	if total == nil {
		t.Fatal("drug.query.total metric not found")
	}
	if got := sumValue(t, total); got != 1 {
		t.Errorf("drug.query.total = %d, want 1", got)
	}
}

// TestMiddleware_ErrorPath verifies span error marking and the errors counter.
func TestMiddleware_ErrorPath(t *testing.T) {
	tm := newTestMiddleware(t)

	queryErr := errors.New("upstream unavailable")
	wrapped := tm.mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return nil, queryErr
	})

	_, err := wrapped(context.Background(), QueryMeta{Tool: "drug_safety_profile"}, nil)
	if !errors.Is(err, queryErr) {
		t.Fatalf("expected wrapped function error, got: %v", err)
	}

	spans := tm.recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	foundErrAttr := false
	for _, a := range spans[0].Attributes() {
		if a.Key == "query.error" && a.Value.AsBool() {
			foundErrAttr = true
		}
	}
	if !foundErrAttr {
		t.Error("expected query.error=true on failed span")
	}

	rm := collect(t, tm.reader)
	errMetric := findMetric(rm, "drug.query.errors")
	if errMetric == nil {
		t.Fatal("drug.query.errors metric not found")
	}
	if got := sumValue(t, errMetric); got != 1 {
		t.Errorf("drug.query.errors = %d, want 1", got)
	}
}

// TestMiddleware_DoesNotMutateInput verifies input passes through untouched.
func TestMiddleware_DoesNotMutateInput(t *testing.T) {
	tm := newTestMiddleware(t)

	input := map[string]any{"drug_name": "ibuprofen", "limit": 5}
	original := map[string]any{"drug_name": "ibuprofen", "limit": 5}

	wrapped := tm.mw.Wrap(func(ctx context.Context, meta QueryMeta, in any) (any, error) {
		return in, nil
	})

	_, err := wrapped(context.Background(), QueryMeta{Tool: "drug_safety_profile"}, input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !reflect.DeepEqual(input, original) {
		t.Errorf("input was mutated: got %v, want %v", input, original)
	}
}

// TestMiddleware_PropagatesContext verifies values flow through to the wrapped function.
func TestMiddleware_PropagatesContext(t *testing.T) {
	tm := newTestMiddleware(t)

	type ctxKey string
	const requestKey ctxKey = "request_id"

	var seen any
	wrapped := tm.mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		seen = ctx.Value(requestKey)
		return nil, nil
	})

	ctx := context.WithValue(context.Background(), requestKey, "req-42")
	if _, err := wrapped(ctx, QueryMeta{Tool: "drug_recalls"}, nil); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if seen != "req-42" {
		t.Errorf("context value = %v, want req-42", seen)
	}
}

// TestMiddleware_ReturnsOriginalResult verifies the result is returned unmodified.
func TestMiddleware_ReturnsOriginalResult(t *testing.T) {
	tm := newTestMiddleware(t)

	type profile struct {
		DrugName string
		Score    int
	}
	want := &profile{DrugName: "Aspirin", Score: 78}

	wrapped := tm.mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return want, nil
	})

	got, err := wrapped(context.Background(), QueryMeta{Tool: "drug_safety_profile"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != want {
		t.Error("expected identical result pointer")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result = %v, want %v", got, want)
	}
}

// TestMiddleware_MeasuresDuration verifies the histogram captures elapsed time.
func TestMiddleware_MeasuresDuration(t *testing.T) {
	tm := newTestMiddleware(t)

	wrapped := tm.mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		time.Sleep(100 * time.Millisecond)
		return nil, nil
	})

	if _, err := wrapped(context.Background(), QueryMeta{Tool: "drug_safety_profile"}, nil); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	rm := collect(t, tm.reader)
	durMetric := findMetric(rm, "drug.query.duration_ms")
	if durMetric == nil {
		t.Fatal("drug.query.duration_ms metric not found")
	}
	hist, ok := durMetric.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("duration metric is not a float64 histogram")
	}
	if len(hist.DataPoints) != 1 {
		t.Fatalf("expected 1 histogram data point, got %d", len(hist.DataPoints))
	}
	if hist.DataPoints[0].Sum < 90 {
		t.Errorf("histogram sum = %f, want >= 90", hist.DataPoints[0].Sum)
	}
}

// TestMiddlewareFromObserver_Disabled verifies a noop observer yields a working middleware.
func TestMiddlewareFromObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("NewObserver: %v", err)
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver: %v", err)
	}

	wrapped := mw.Wrap(func(ctx context.Context, meta QueryMeta, input any) (any, error) {
		return "ok", nil
	})
	result, err := wrapped(context.Background(), QueryMeta{Tool: "drug_safety_profile"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
}

// TestMiddlewareFromObserver_NilObserver verifies nil observers are rejected.
func TestMiddlewareFromObserver_NilObserver(t *testing.T) {
	_, err := MiddlewareFromObserver(nil)
	if !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver, got: %v", err)
	}
}

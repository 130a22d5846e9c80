package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newRecordingTracer builds a tracer backed by an in-memory span recorder.
func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return newTracer(provider.Tracer("test")), recorder
}

// TestQueryMetaSpanName verifies span names follow the drug.query.<tool> convention.
func TestQueryMetaSpanName(t *testing.T) {
	tests := []struct {
		name string
		meta QueryMeta
		want string
	}{
		{
			name: "profile tool",
			meta: QueryMeta{Tool: "drug_safety_profile"},
			want: "drug.query.drug_safety_profile",
		},
		{
			name: "compare tool",
			meta: QueryMeta{Tool: "compare_drug_safety"},
			want: "drug.query.compare_drug_safety",
		},
		{
			name: "recalls tool",
			meta: QueryMeta{Tool: "drug_recalls"},
			want: "drug.query.drug_recalls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.SpanName(); got != tt.want {
				t.Errorf("SpanName() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestQueryMetaValidate verifies that a tool name is required.
func TestQueryMetaValidate(t *testing.T) {
	tests := []struct {
		name    string
		meta    QueryMeta
		wantErr error
	}{
		{
			name:    "valid",
			meta:    QueryMeta{Tool: "drug_safety_profile"},
			wantErr: nil,
		},
		{
			name:    "valid with drugs",
			meta:    QueryMeta{Tool: "compare_drug_safety", Drugs: []string{"aspirin", "ibuprofen"}},
			wantErr: nil,
		},
		{
			name:    "missing tool",
			meta:    QueryMeta{},
			wantErr: ErrMissingQueryTool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestTracer_StartSpanSetsAttributes verifies the span carries query metadata.
func TestTracer_StartSpanSetsAttributes(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	meta := QueryMeta{
		Tool:  "drug_safety_profile",
		Drugs: []string{"aspirin"},
	}

	ctx, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	got := spans[0]
	if got.Name() != "drug.query.drug_safety_profile" {
		t.Errorf("span name = %q, want %q", got.Name(), "drug.query.drug_safety_profile")
	}

	attrs := got.Attributes()
	assertAttr := func(key attribute.Key, want attribute.Value) {
		t.Helper()
		for _, a := range attrs {
			if a.Key == key {
				if a.Value != want {
					t.Errorf("attribute %s = %v, want %v", key, a.Value, want)
				}
				return
			}
		}
		t.Errorf("attribute %s not found", key)
	}

	assertAttr("query.tool", attribute.StringValue("drug_safety_profile"))
	assertAttr("query.drugs", attribute.StringSliceValue([]string{"aspirin"}))
	assertAttr("query.error", attribute.BoolValue(false))
}

// TestTracer_NoDrugsOmitsDrugsAttribute verifies empty drug lists do not attach the slice attribute.
func TestTracer_NoDrugsOmitsDrugsAttribute(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	_, span := tracer.StartSpan(context.Background(), QueryMeta{Tool: "drug_recalls"})
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	for _, a := range spans[0].Attributes() {
		if a.Key == "query.drugs" {
			t.Errorf("expected no query.drugs attribute, found %v", a.Value)
		}
	}
}

// TestTracer_EndSpanRecordsError verifies failed queries mark the span as errored.
func TestTracer_EndSpanRecordsError(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	_, span := tracer.StartSpan(context.Background(), QueryMeta{Tool: "drug_safety_profile"})
	queryErr := errors.New("upstream unavailable")
	tracer.EndSpan(span, queryErr)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	got := spans[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status code = %v, want %v", got.Status().Code, codes.Error)
	}

	foundErrAttr := false
	for _, a := range got.Attributes() {
		if a.Key == "query.error" && a.Value.AsBool() {
			foundErrAttr = true
		}
	}
	if !foundErrAttr {
		t.Error("expected query.error=true attribute on failed span")
	}

	foundEvent := false
	for _, ev := range got.Events() {
		if ev.Name == "exception" {
			foundEvent = true
		}
	}
	if !foundEvent {
		t.Error("expected exception event recorded on failed span")
	}
}

// TestTracer_EndSpanSuccessSetsOkStatus verifies successful queries end with Ok status.
func TestTracer_EndSpanSuccessSetsOkStatus(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	_, span := tracer.StartSpan(context.Background(), QueryMeta{Tool: "drug_safety_profile"})
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status code = %v, want %v", spans[0].Status().Code, codes.Ok)
	}
}

// TestTracer_ContextPropagation verifies child spans inherit the parent trace.
func TestTracer_ContextPropagation(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	ctx, parent := tracer.StartSpan(context.Background(), QueryMeta{Tool: "compare_drug_safety"})
	_, child := tracer.StartSpan(ctx, QueryMeta{Tool: "drug_safety_profile"})

	tracer.EndSpan(child, nil)
	tracer.EndSpan(parent, nil)

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	// Spans end child-first.
	childSpan, parentSpan := spans[0], spans[1]
	if childSpan.SpanContext().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("child span does not share parent trace ID")
	}
	if childSpan.Parent().SpanID() != parentSpan.SpanContext().SpanID() {
		t.Error("child span parent ID does not match parent span ID")
	}
}

// TestNoopTracer verifies the no-op tracer is safe to use.
func TestNoopTracer(t *testing.T) {
	tracer := newNoopTracer()

	ctx, span := tracer.StartSpan(context.Background(), QueryMeta{Tool: "drug_safety_profile"})
	if ctx == nil {
		t.Error("expected non-nil context from noop tracer")
	}
	tracer.EndSpan(span, nil)
	tracer.EndSpan(span, errors.New("ignored"))
}

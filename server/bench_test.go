package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/drugsafety/fda"
	"github.com/jonwraymond/drugsafety/refdata"
)

func newBenchHandler(b *testing.B, apiKey string) http.Handler {
	b.Helper()

	srv, err := New(Config{
		Resolver:   &fakeResolver{prof: sampleProfile()},
		Comparator: &fakeComparator{result: sampleResult()},
		APIKey:     apiKey,
	})
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	return srv.Handler()
}

func BenchmarkProfileTool(b *testing.B) {
	handler := newBenchHandler(b, "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/tools/drug_safety_profile",
			strings.NewReader(`{"drug_name":"advil"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}

func BenchmarkRecallsTool(b *testing.B) {
	handler := newBenchHandler(b, "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/tools/drug_recalls",
			strings.NewReader(`{"drug_name":"advil"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}

func BenchmarkCompareTool(b *testing.B) {
	handler := newBenchHandler(b, "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/tools/compare_drug_safety",
			strings.NewReader(`{"drugs":["tylenol","advil"]}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}

func BenchmarkProfileTool_WithAPIKey(b *testing.B) {
	handler := newBenchHandler(b, "bench-key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/tools/drug_safety_profile",
			strings.NewReader(`{"drug_name":"advil"}`))
		req.Header.Set(apiKeyHeader, "bench-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}

func BenchmarkHashAPIKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		hashAPIKey("a-reasonably-long-api-key-value")
	}
}

func BenchmarkClassify(b *testing.B) {
	errs := []error{
		fda.ErrUpstreamTimeout,
		fda.ErrNotFound,
		refdata.ErrUnknownDrug,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		classify(errs[i%len(errs)])
	}
}

func BenchmarkConcurrent_ProfileTool(b *testing.B) {
	handler := newBenchHandler(b, "")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodPost, "/v1/tools/drug_safety_profile",
				strings.NewReader(`{"drug_name":"advil"}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
		}
	})
}

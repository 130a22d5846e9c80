package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/drugsafety/safety"
)

// completionBody builds a chat-completions response whose content is
// the given JSON payload.
func completionBody(t *testing.T, content string) string {
	t.Helper()
	quoted, err := json.Marshal(content)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf(`{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %s}, "finish_reason": "stop"}]
	}`, quoted)
}

func sampleRequest() safety.SummaryRequest {
	return safety.SummaryRequest{
		DrugName:      "Ibuprofen",
		TotalEvents:   18000,
		TopEffects:    []string{"Nausea", "Dizziness"},
		Demographics:  []string{"Elderly (65+)"},
		ActiveRecalls: 1,
		SeriousCount:  10,
		SampledEvents: 50,
	}
}

func TestNew_DisabledWithoutKey(t *testing.T) {
	client := New(Config{})

	if client.Enabled() {
		t.Error("Enabled() = true without API key, want false")
	}

	_, err := client.GenerateSummary(context.Background(), sampleRequest())
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("GenerateSummary() error = %v, want ErrDisabled", err)
	}
}

func TestClient_GenerateSummary(t *testing.T) {
	var gotBody []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var err error
		gotBody, err = io.ReadAll(r.Body)
		if err != nil {
			t.Error(err)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody(t,
			`{"summary": "Ibuprofen is generally safe at standard doses.", "top_concern": "GI bleeding in elderly patients"}`))
	}))
	defer ts.Close()

	client := New(Config{APIKey: "test-key", BaseURL: ts.URL})
	if !client.Enabled() {
		t.Fatal("Enabled() = false with API key")
	}

	result, err := client.GenerateSummary(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}

	if result.Summary != "Ibuprofen is generally safe at standard doses." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.TopConcern != "GI bleeding in elderly patients" {
		t.Errorf("TopConcern = %q", result.TopConcern)
	}

	// The request carries the model and the numeric facts.
	body := string(gotBody)
	for _, want := range []string{"gpt-4o-mini", "Ibuprofen", "18000", "Nausea", "Elderly (65+)"} {
		if !strings.Contains(body, want) {
			t.Errorf("request body missing %q", want)
		}
	}
}

func TestClient_GenerateSummary_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "chatcmpl-test", "object": "chat.completion", "choices": []}`)
	}))
	defer ts.Close()

	client := New(Config{APIKey: "test-key", BaseURL: ts.URL})

	_, err := client.GenerateSummary(context.Background(), sampleRequest())
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("GenerateSummary() error = %v, want ErrEmptyCompletion", err)
	}
}

func TestClient_GenerateSummary_MalformedContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody(t, "not json at all"))
	}))
	defer ts.Close()

	client := New(Config{APIKey: "test-key", BaseURL: ts.URL})

	_, err := client.GenerateSummary(context.Background(), sampleRequest())
	if err == nil {
		t.Error("GenerateSummary() error = nil, want parse error")
	}
}

func TestClient_GenerateSummary_ProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := New(Config{APIKey: "test-key", BaseURL: ts.URL})

	_, err := client.GenerateSummary(context.Background(), sampleRequest())
	if err == nil {
		t.Error("GenerateSummary() error = nil, want provider error")
	}
}

func TestUserPrompt(t *testing.T) {
	prompt := userPrompt(sampleRequest())

	for _, want := range []string{
		"Ibuprofen",
		"Total Adverse Events Reported: 18000",
		"Top Side Effects: Nausea, Dizziness",
		"High-Risk Age Groups: Elderly (65+)",
		"Ongoing Recalls: 1",
		"Serious Reports: 10 of 50 sampled",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt: %s", want, prompt)
		}
	}
}

func TestUserPrompt_OmitsEmptySections(t *testing.T) {
	prompt := userPrompt(safety.SummaryRequest{DrugName: "X"})

	if strings.Contains(prompt, "Top Side Effects") {
		t.Error("prompt lists side effects for empty input")
	}
	if strings.Contains(prompt, "High-Risk Age Groups") {
		t.Error("prompt lists age groups for empty input")
	}
	if strings.Contains(prompt, "Serious Reports") {
		t.Error("prompt lists serious share without a sample")
	}
}


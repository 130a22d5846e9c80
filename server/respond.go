package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/jonwraymond/drugsafety/compare"
	"github.com/jonwraymond/drugsafety/fda"
	"github.com/jonwraymond/drugsafety/refdata"
	"github.com/jonwraymond/drugsafety/resilience"
)

// errorResponse is the structured body for failed tool calls.
type errorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind"`
	Drugs []string `json:"drugs,omitempty"`
}

// Failure kinds reported in error bodies.
const (
	kindInvalidInput        = "invalid_input"
	kindUnknownDrug         = "unknown_drug"
	kindNotFound            = "not_found"
	kindRateLimited         = "rate_limited"
	kindUpstreamUnavailable = "upstream_unavailable"
	kindUpstreamTimeout     = "upstream_timeout"
	kindPartialFailure      = "partial_failure"
	kindUnauthorized        = "unauthorized"
	kindInternal            = "internal"
)

// maxBodyBytes bounds tool request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeRequest parses the JSON body into v, answering 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "request body must be valid JSON",
			Kind:  kindInvalidInput,
		})
		return false
	}
	return true
}

// writeToolError maps a tool failure onto a status code and structured
// body. Rate limits carry a Retry-After hint; partial comparison
// failures name the drugs that could not be resolved.
func writeToolError(w http.ResponseWriter, err error, drugs []string) {
	status, kind := classify(err)

	var limited *resilience.RateLimitedError
	if errors.As(err, &limited) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limited.RetryAfter)))
	}

	var partial *compare.PartialFailureError
	if errors.As(err, &partial) {
		drugs = make([]string, 0, len(partial.Failures))
		for _, f := range partial.Failures {
			drugs = append(drugs, f.DrugName)
		}
	}

	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Kind:  kind,
		Drugs: drugs,
	})
}

// classify picks the status code and kind for a tool failure.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, resilience.ErrRateLimited):
		return http.StatusTooManyRequests, kindRateLimited
	case errors.Is(err, fda.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, kindUpstreamTimeout
	case errors.Is(err, fda.ErrUpstreamUnavailable):
		return http.StatusBadGateway, kindUpstreamUnavailable
	case errors.Is(err, refdata.ErrUnknownDrug):
		return http.StatusNotFound, kindUnknownDrug
	case errors.Is(err, fda.ErrNotFound):
		return http.StatusNotFound, kindNotFound
	case errors.Is(err, compare.ErrInvalidInput):
		return http.StatusBadRequest, kindInvalidInput
	case errors.Is(err, compare.ErrPartialFailure):
		return http.StatusUnprocessableEntity, kindPartialFailure
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

// retryAfterSeconds rounds a wait up to whole seconds, at least one.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

package server

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/drugsafety/observe"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// apiKeyHeader carries the client's key on tool requests.
const apiKeyHeader = "X-API-Key"

// RequestIDFromContext returns the ID assigned to the current request,
// or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withRequestID assigns every request an ID, honoring one supplied by
// the caller, and echoes it in the response header.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusWriter captures the response code for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logRequests writes one structured access line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		s.logger.Info(r.Context(), "request handled",
			observe.Field{Key: "request_id", Value: RequestIDFromContext(r.Context())},
			observe.Field{Key: "method", Value: r.Method},
			observe.Field{Key: "path", Value: r.URL.Path},
			observe.Field{Key: "status", Value: sw.status},
			observe.Field{Key: "duration_ms", Value: float64(time.Since(start).Milliseconds())},
		)
	})
}

// requireAPIKey rejects tool calls that do not present the configured
// key. With no key configured every request passes.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKeyHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		presented := strings.TrimSpace(r.Header.Get(apiKeyHeader))
		if presented == "" || !digestsEqual(hashAPIKey(presented), s.apiKeyHash) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error: "invalid or missing API key",
				Kind:  kindUnauthorized,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// hashAPIKey digests a key so the plaintext is never retained.
func hashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// digestsEqual compares two digests without leaking how far they
// match.
func digestsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

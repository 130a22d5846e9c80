// Package resilience bounds calls to the upstream data provider.
//
// It provides two composable pieces:
//
//   - RateLimiter: a token bucket sized as calls-per-window (openFDA allows
//     60 requests per minute without an API key). Wait blocks for a bounded
//     time and fails with a RateLimitedError carrying a retry-after hint;
//     nothing here retries on the caller's behalf.
//
//   - Timeout: runs an operation under a fixed deadline and maps deadline
//     expiry to ErrTimeout so callers can translate it into their own
//     error taxonomy.
package resilience

package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Entry is a stored profile payload with its timing metadata.
// Invariant: ExpiresAt = StoredAt + TTL. An entry is valid only while
// now < ExpiresAt; a read exactly at the boundary counts as expired.
type Entry struct {
	// Payload is the opaque serialized profile.
	Payload []byte

	// StoredAt is when the entry was written.
	StoredAt time.Time

	// ExpiresAt is when the entry stops being served.
	ExpiresAt time.Time
}

// Age returns how old the entry is at the given instant.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Store is the interface for caching drug safety profiles.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (Entry{}, false) on miss or expiry.
// - Ownership: entries are mutated only through Set/Delete; expired entries
//   are removed lazily on read.
type Store interface {
	// Get retrieves a cached entry. Returns (Entry{}, false) if the key is
	// absent or the entry has expired.
	Get(ctx context.Context, key string) (Entry, bool)

	// Set stores a payload with the given TTL. TTL <= 0 means no caching.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes a cached entry. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// Normalize canonicalizes a drug name for use as a cache key: lower-cased,
// trimmed, with inner whitespace runs collapsed to a single space. Two
// spellings of the same drug normalize to the same key.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

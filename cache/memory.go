package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation. It is constructed once
// at process start and passed to its consumers; it holds no global state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Get retrieves an entry. Returns (Entry{}, false) on miss or expiry.
// Expired entries are deleted on read.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return Entry{}, false
	}

	// Exclusive boundary: an entry read exactly at ExpiresAt is stale.
	if !time.Now().Before(entry.ExpiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if current, still := s.entries[key]; still && current.StoredAt.Equal(entry.StoredAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return Entry{}, false
	}

	return entry, true
}

// Set stores a payload with the given TTL. TTL <= 0 means do not cache.
func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	now := time.Now()
	s.mu.Lock()
	s.entries[key] = Entry{
		Payload:   payload,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	s.mu.Unlock()

	return nil
}

// Delete removes an entry. Idempotent - no error on miss.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including any not yet
// lazily expired. Used by health checks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

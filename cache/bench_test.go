package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// BenchmarkMemoryStore_Get_Hit measures cache hit performance.
func BenchmarkMemoryStore_Get_Hit(b *testing.B) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "ibuprofen", []byte("profile"), time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Get(ctx, "ibuprofen")
	}
}

// BenchmarkMemoryStore_Get_Miss measures cache miss performance.
func BenchmarkMemoryStore_Get_Miss(b *testing.B) {
	store := NewMemoryStore()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Get(ctx, "missing")
	}
}

// BenchmarkMemoryStore_Set measures write performance.
func BenchmarkMemoryStore_Set(b *testing.B) {
	store := NewMemoryStore()
	ctx := context.Background()
	payload := []byte("profile payload")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Set(ctx, fmt.Sprintf("drug-%d", i), payload, time.Hour)
	}
}

// BenchmarkMemoryStore_Concurrent_ReadHeavy measures the resolver's dominant
// access pattern: many readers, occasional refresh writes.
func BenchmarkMemoryStore_Concurrent_ReadHeavy(b *testing.B) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_ = store.Set(ctx, fmt.Sprintf("drug-%d", i), []byte("profile"), time.Hour)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("drug-%d", i%100)
			if i%20 == 0 {
				_ = store.Set(ctx, key, []byte("refreshed"), time.Hour)
			} else {
				_, _ = store.Get(ctx, key)
			}
			i++
		}
	})
}

// BenchmarkNormalize measures key normalization.
func BenchmarkNormalize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Normalize("  Acetylsalicylic   Acid ")
	}
}

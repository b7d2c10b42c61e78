package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expiry is wall-clock based and
// checked lazily on Get.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (ms *MemoryStore) Get(_ context.Context, key string) (string, error) {
	ms.mu.RLock()
	entry, ok := ms.entries[key]
	ms.mu.RUnlock()

	if !ok {
		return "", ErrMiss
	}
	if ms.now().After(entry.expiresAt) {
		ms.mu.Lock()
		delete(ms.entries, key)
		ms.mu.Unlock()
		return "", ErrMiss
	}
	return entry.value, nil
}

func (ms *MemoryStore) SetEx(_ context.Context, key string, value string, ttl time.Duration) error {
	ms.mu.Lock()
	ms.entries[key] = memoryEntry{
		value:     value,
		expiresAt: ms.now().Add(ttl),
	}
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) Del(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	for _, key := range keys {
		delete(ms.entries, key)
	}
	ms.mu.Unlock()
	return nil
}

// SetClock overrides the time source, for expiry tests.
func (ms *MemoryStore) SetClock(now func() time.Time) {
	ms.mu.Lock()
	ms.now = now
	ms.mu.Unlock()
}

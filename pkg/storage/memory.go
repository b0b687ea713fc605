package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

// MemoryStore is an in-process KV backed by bigcache with an optional byte
// quota. A write that does not fit is refused; nothing is evicted to make
// room for it.
type MemoryStore struct {
	mu    sync.Mutex
	cache *bigcache.BigCache
	sizes map[string]int
	used  int
	quota int
}

// NewMemoryStore creates an empty store. quota <= 0 disables the limit.
func NewMemoryStore(quota int) (*MemoryStore, error) {
	config := bigcache.Config{
		Shards:             16,
		LifeWindow:         100 * 365 * 24 * time.Hour,
		CleanWindow:        0,
		MaxEntriesInWindow: 64,
		MaxEntrySize:       4096,
		Verbose:            false,
		HardMaxCacheSize:   0,
	}

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory store: %w", err)
	}

	return &MemoryStore{
		cache: cache,
		sizes: make(map[string]int),
		quota: quota,
	}, nil
}

// Get implements KV
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := m.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements KV
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := len(key) + len(value)
	next := m.used - m.sizes[key] + size
	if m.quota > 0 && next > m.quota {
		return fmt.Errorf("failed to write %s: %w", key, ErrQuotaExceeded)
	}

	if err := m.cache.Set(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	m.sizes[key] = size
	m.used = next
	return nil
}

// Used returns the number of bytes currently stored
func (m *MemoryStore) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// Close releases the cache
func (m *MemoryStore) Close() error {
	return m.cache.Close()
}

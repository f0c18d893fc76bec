package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache stores encoded responses under request fingerprints.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	// Clear drops every entry and returns roughly how many were live.
	Clear() int
	Len() int
	Close()
}

// Memory is an in-process cache with a fixed TTL and an entry-count bound.
type Memory struct {
	store *ristretto.Cache[string, []byte]
	ttl   time.Duration
	mu    sync.Mutex // serialises Set so the existence check and the insert agree
	live  atomic.Int64
}

// NewMemory creates a cache holding at most maxEntries values for ttl each.
func NewMemory(maxEntries int64, ttl time.Duration) (*Memory, error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxEntries)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}

	m := &Memory{ttl: ttl}
	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
		OnEvict: func(*ristretto.Item[[]byte]) {
			m.live.Add(-1)
		},
		// buffered inserts can still lose admission after SetWithTTL accepted them
		OnReject: func(*ristretto.Item[[]byte]) {
			m.live.Add(-1)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	m.store = store
	return m, nil
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// Set stores value under key. Each entry costs one slot regardless of size.
func (m *Memory) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.store.Get(key)
	if m.store.SetWithTTL(key, append([]byte(nil), value...), 1, m.ttl) && !exists {
		m.live.Add(1)
	}
	m.store.Wait()
}

// Clear empties the cache. The count it returns carries the same approximation as Len.
func (m *Memory) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.Len()
	m.store.Clear()
	m.live.Store(0)
	return n
}

// Len is approximate: expired entries count until ristretto sweeps them, and an expired entry that
// is overwritten before the sweep may be counted twice.
func (m *Memory) Len() int {
	n := m.live.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

func (m *Memory) Close() {
	m.store.Close()
}

// Noop never stores anything. It is used when caching is disabled.
type Noop struct{}

func (Noop) Get(string) ([]byte, bool) { return nil, false }
func (Noop) Set(string, []byte)        {}
func (Noop) Clear() int                { return 0 }
func (Noop) Len() int                  { return 0 }
func (Noop) Close()                    {}

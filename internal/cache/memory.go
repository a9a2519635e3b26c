package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nvoronin/golab/internal/metrics"
)

// entry is a cached value with its expiration time.
type entry struct {
	value      []byte
	expiration time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expiration)
}

// Memory is an in-process Cache with a background janitor that evicts
// expired entries.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry

	hits      int64
	misses    int64
	sets      int64
	evictions int64

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemory creates an in-memory cache. When cleanupInterval is positive a
// janitor goroutine evicts expired entries on that cadence; call Stop to
// terminate it.
func NewMemory(cleanupInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.janitor(cleanupInterval)
	}
	return m
}

// Get retrieves a value from the cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.entries[key]
	if !found || e.expired(time.Now()) {
		m.misses++
		metrics.CacheMiss("memory")
		return nil, false
	}
	m.hits++
	metrics.CacheHit("memory")
	return e.value, true
}

// Set stores a value in the cache.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = &entry{value: value, expiration: time.Now().Add(ttl)}
	m.sets++
}

// Delete removes a value from the cache.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Stats returns cache statistics.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Hits:      m.hits,
		Misses:    m.misses,
		Sets:      m.sets,
		Evictions: m.evictions,
		Size:      len(m.entries),
	}
}

// Stop terminates the janitor goroutine. Idempotent.
func (m *Memory) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evictExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) evictExpired() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			m.evictions++
		}
	}
}

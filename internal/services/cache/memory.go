package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultTTL = 10 * time.Minute

// MemoryCache is an entry-bounded in-memory TTL cache
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]*entry
	maxEntries int
	now        func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type entry struct {
	value    []byte
	expiry   time.Time
	storedAt time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries values.
// A non-positive maxEntries means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	mc := &MemoryCache{
		items:      make(map[string]*entry),
		maxEntries: maxEntries,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.sweep(time.Minute)

	return mc
}

// Get returns a live value for key
func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, ok := mc.items[key]
	mc.mu.RUnlock()

	if !ok || mc.now().After(item.expiry) {
		mc.misses.Add(1)
		return nil, false
	}

	mc.hits.Add(1)
	return item.value, true
}

// Set stores value under key, evicting the oldest entry when full
func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := mc.now()

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.items[key]; !exists && mc.maxEntries > 0 && len(mc.items) >= mc.maxEntries {
		mc.removeExpiredLocked(now)
		if len(mc.items) >= mc.maxEntries {
			mc.evictOldestLocked()
		}
	}

	mc.items[key] = &entry{value: value, expiry: now.Add(ttl), storedAt: now}
	return nil
}

// Delete removes key
func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, key)
	mc.mu.Unlock()
	return nil
}

// Clear drops every entry
func (mc *MemoryCache) Clear(_ context.Context) error {
	mc.mu.Lock()
	mc.items = make(map[string]*entry)
	mc.mu.Unlock()
	return nil
}

// Stats returns a snapshot of cache counters
func (mc *MemoryCache) Stats() Stats {
	mc.mu.RLock()
	entries := len(mc.items)
	mc.mu.RUnlock()

	return Stats{
		Hits:      mc.hits.Load(),
		Misses:    mc.misses.Load(),
		Evictions: mc.evictions.Load(),
		Entries:   entries,
		Capacity:  mc.maxEntries,
	}
}

// Stop ends the background sweeper. Safe to call more than once.
func (mc *MemoryCache) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	mc.wg.Wait()
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	defer mc.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			mc.removeExpiredLocked(mc.now())
			mc.mu.Unlock()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) removeExpiredLocked(now time.Time) {
	for key, item := range mc.items {
		if now.After(item.expiry) {
			delete(mc.items, key)
			mc.evictions.Add(1)
		}
	}
}

func (mc *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, item := range mc.items {
		if oldestKey == "" || item.storedAt.Before(oldest) {
			oldestKey, oldest = key, item.storedAt
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
		mc.evictions.Add(1)
	}
}

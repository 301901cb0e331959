// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Memory is a thread-safe in-memory cache with TTL support and an optional
// entry-count bound.
type Memory struct {
	data       sync.Map
	defaultTTL time.Duration
	maxEntries int
	stopCh     chan struct{}
	closed     atomic.Bool

	items  atomic.Int64
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an in-memory cache. A cleanupInterval of 0 disables the
// background sweep of expired entries; a maxEntries of 0 leaves the cache
// unbounded.
func NewMemory(defaultTTL, cleanupInterval time.Duration, maxEntries int) *Memory {
	c := &Memory{
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get retrieves a value from the cache.
func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.remove(key)
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	// Copy so callers cannot mutate the stored value.
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if c.maxEntries > 0 && int(c.items.Load()) >= c.maxEntries {
		if _, exists := c.data.Load(key); !exists {
			c.evictOne()
		}
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if _, loaded := c.data.Swap(key, &memoryEntry{
		value:     valueCopy,
		expiresAt: time.Now().Add(ttl),
	}); !loaded {
		c.items.Add(1)
	}
	c.sets.Add(1)
	return nil
}

// evictOne drops expired entries and, when the cache is still full, one
// arbitrary entry. The cache is a lookaside, not an LRU; eviction order does
// not matter for correctness.
func (c *Memory) evictOne() {
	c.removeExpired()
	if int(c.items.Load()) < c.maxEntries {
		return
	}
	c.data.Range(func(key, _ any) bool {
		c.remove(key.(string))
		return false
	})
}

// remove deletes a key and keeps the item count in step.
func (c *Memory) remove(key string) {
	if _, loaded := c.data.LoadAndDelete(key); loaded {
		c.items.Add(-1)
	}
}

// Delete removes a key from the cache.
func (c *Memory) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.remove(key)
	return nil
}

// DeleteByPrefix removes all keys starting with the given prefix.
func (c *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.data.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.remove(key.(string))
		}
		return true
	})
	return nil
}

// Clear removes all entries from the cache.
func (c *Memory) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.data.Range(func(key, _ any) bool {
		c.remove(key.(string))
		return true
	})
	return nil
}

// Close stops the cleanup goroutine.
func (c *Memory) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *Memory) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   int(c.items.Load()),
		HitRate: hitRate,
	}
}

// ResetStats resets the cache statistics.
func (c *Memory) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

func (c *Memory) removeExpired() {
	now := time.Now()
	c.data.Range(func(key, value any) bool {
		if now.After(value.(*memoryEntry).expiresAt) {
			c.remove(key.(string))
		}
		return true
	})
}

func (c *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cache         = (*Memory)(nil)
	_ StatsProvider = (*Memory)(nil)
)

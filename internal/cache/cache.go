// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package cache provides the in-process hot tier of the query cache.
//
// The persistent store (internal/database) is the source of truth; this
// cache only absorbs repeat queries within a process so they skip the DB
// round trip. Entries carry the stored record unchanged: a hot hit
// returns exactly what a store hit would have returned.
package cache

import (
	"sync"
	"time"

	"github.com/askred/askred/internal/models"
)

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 5 * time.Minute

// entry is a cached record with expiration.
type entry struct {
	record    *models.CacheRecord
	expiresAt time.Time
}

// Cache is a thread-safe in-memory query cache with TTL expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	stop    chan struct{}

	statsMu sync.Mutex
	hits    int64
	misses  int64
}

// New creates a cache whose entries expire after ttl. A background
// goroutine sweeps expired entries until Close is called.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached record for an exact query match, or false when
// absent or expired.
func (c *Cache) Get(query string) (*models.CacheRecord, bool) {
	c.mu.RLock()
	e, ok := c.entries[query]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	return e.record, true
}

// Set stores a record under its query key, replacing any previous entry.
func (c *Cache) Set(query string, rec *models.CacheRecord) {
	c.mu.Lock()
	c.entries[query] = entry{record: rec, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len returns the current entry count, including not-yet-swept expired
// entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.hits, c.misses
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	close(c.stop)
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.hits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.misses++
	c.statsMu.Unlock()
}

// cleanupLoop periodically removes expired entries.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

// removeExpired deletes entries whose expiry has passed.
func (c *Cache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

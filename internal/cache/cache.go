// Package cache holds the short-lived in-process caches that shield
// upstream sources from redundant calls. The caches are strictly a
// rate-limiting shim, never the source of truth for price direction.
package cache

import (
	"sync"
	"time"
)

// TTL is a single-value cache valid for a fixed duration. The whole
// value is replaced or cleared wholesale; there is no per-key eviction.
type TTL[T any] struct {
	mu       sync.RWMutex
	value    T
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewTTL creates a TTL cache with the given lifetime.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value and whether it is still fresh.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.storedAt.IsZero() || c.now().Sub(c.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Peek returns the cached value regardless of freshness, for callers
// that prefer stale data over nothing.
func (c *TTL[T]) Peek() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.storedAt.IsZero() {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set replaces the cached value and resets the clock.
func (c *TTL[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	c.storedAt = c.now()
}

// Clear drops the cached value.
func (c *TTL[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.storedAt = time.Time{}
}

// Daily is a single-value cache valid until the local calendar date
// changes, not a rolling TTL. Used for last-close fallback data that
// stays correct for the rest of the trading day.
type Daily[T any] struct {
	mu       sync.RWMutex
	value    T
	storedAt time.Time
	loc      *time.Location
	now      func() time.Time
}

// NewDaily creates a Daily cache anchored to the given timezone.
func NewDaily[T any](loc *time.Location) *Daily[T] {
	if loc == nil {
		loc = time.Local
	}
	return &Daily[T]{loc: loc, now: time.Now}
}

// Get returns the cached value if it was stored on the current
// calendar date.
func (c *Daily[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.storedAt.IsZero() || !sameDate(c.storedAt, c.now(), c.loc) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores the value stamped with the current date.
func (c *Daily[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	c.storedAt = c.now()
}

// Clear drops the cached value.
func (c *Daily[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.storedAt = time.Time{}
}

func sameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Keyed is a per-key TTL cache. Entries share one TTL; Clear drops
// everything wholesale.
type Keyed[T any] struct {
	mu      sync.RWMutex
	entries map[string]keyedEntry[T]
	ttl     time.Duration
	now     func() time.Time
}

type keyedEntry[T any] struct {
	value    T
	storedAt time.Time
}

// NewKeyed creates a Keyed cache with the given entry lifetime.
func NewKeyed[T any](ttl time.Duration) *Keyed[T] {
	return &Keyed[T]{entries: make(map[string]keyedEntry[T]), ttl: ttl, now: time.Now}
}

// Get returns the entry for key if it is still fresh.
func (c *Keyed[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores the entry for key.
func (c *Keyed[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = keyedEntry[T]{value: v, storedAt: c.now()}
}

// Clear drops every entry.
func (c *Keyed[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]keyedEntry[T])
}

// Sweep removes expired entries and reports how many were dropped.
func (c *Keyed[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			count++
		}
	}
	return count
}

// Len returns the number of entries, fresh or not.
func (c *Keyed[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

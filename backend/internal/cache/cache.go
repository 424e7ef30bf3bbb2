// Package cache stores built graph responses. Graph building is a pure function
// of the concept snapshot, so an entry keyed by the snapshot hash never goes stale;
// invalidation only frees space.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const keyPrefix = "graph:"

// Cache holds serialized graphs per user
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// InvalidateUser drops every entry of the user
	InvalidateUser(ctx context.Context, userID string) error
	Close() error
}

// Key returns the cache key of a user's snapshot
func Key(userID string, snapshot []byte) string {
	sum := sha256.Sum256(snapshot)
	return userPrefix(userID) + hex.EncodeToString(sum[:])
}

func userPrefix(userID string) string {
	return keyPrefix + userID + ":"
}

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is the in-process fallback used when no Redis is configured
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]map[string]entry
	now     func() time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl (<= 0 means forever)
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.entries[userOf(key)]
	if !ok {
		return nil, false, nil
	}
	e, ok := user[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(user, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u := userOf(key)
	if c.entries[u] == nil {
		c.entries[u] = make(map[string]entry)
	}
	e := entry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[u][key] = e
	return nil
}

func (c *MemoryCache) InvalidateUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userPrefix(userID))
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// userOf returns the "graph:<user>:" prefix of a key
func userOf(key string) string {
	// the hash suffix has a fixed length
	const hashLen = sha256.Size * 2
	if len(key) <= hashLen {
		return key
	}
	return key[:len(key)-hashLen]
}

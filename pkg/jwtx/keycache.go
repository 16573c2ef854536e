package jwtx

import (
	"crypto/rsa"
	"maps"
	"sync"
	"time"
)

// KeyCache holds the identity provider's RSA verification keys together with
// a single freshness deadline for the whole set. A zero deadline means the
// cache has never been filled.
//
// Every read and write takes the same mutex; critical sections only copy a
// pointer or swap the map, so nothing is ever held across network I/O.
type KeyCache struct {
	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time

	now func() time.Time
}

// NewKeyCache returns an empty (stale) cache using the wall clock.
func NewKeyCache() *KeyCache {
	return NewKeyCacheWithClock(time.Now)
}

// NewKeyCacheWithClock is NewKeyCache with an injectable clock for tests.
func NewKeyCacheWithClock(now func() time.Time) *KeyCache {
	if now == nil {
		now = time.Now
	}
	return &KeyCache{
		keys: make(map[string]*rsa.PublicKey),
		now:  now,
	}
}

// Lookup returns the key for kid only while the cache is fresh. A stale
// cache reports a miss for every kid so the caller knows to refresh.
func (c *KeyCache) Lookup(kid string) (*rsa.PublicKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.freshLocked() {
		return nil, false
	}
	pub, ok := c.keys[kid]
	return pub, ok
}

// Replace discards every cached key and installs keys with a deadline of
// now+ttl. It is the only mutator. A ttl of zero leaves the cache
// immediately stale.
func (c *KeyCache) Replace(keys map[string]*rsa.PublicKey, ttl time.Duration) {
	next := maps.Clone(keys)
	if next == nil {
		next = make(map[string]*rsa.PublicKey)
	}
	deadline := c.now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = next
	c.expiresAt = deadline
}

// ExpiresAt returns the current freshness deadline (zero if never filled).
func (c *KeyCache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

// IsFresh reports whether the deadline is set and still in the future.
func (c *KeyCache) IsFresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freshLocked()
}

// Len returns the number of cached keys, fresh or not.
func (c *KeyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

func (c *KeyCache) freshLocked() bool {
	return !c.expiresAt.IsZero() && c.expiresAt.After(c.now())
}

package jwtx_test

import (
	"crypto/rsa"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCacheStartsStale(t *testing.T) {
	cache := jwtx.NewKeyCache()

	_, ok := cache.Lookup("anything")
	require.False(t, ok)
	require.False(t, cache.IsFresh())
	require.True(t, cache.ExpiresAt().IsZero())
	require.Equal(t, 0, cache.Len())
}

func TestKeyCacheLookupHonoursDeadline(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	cache := jwtx.NewKeyCacheWithClock(clock.Now)
	pub := &testRSAKey(t, "k1").PublicKey

	cache.Replace(map[string]*rsa.PublicKey{"k1": pub}, 2*time.Minute)
	require.Equal(t, clock.Now().Add(2*time.Minute), cache.ExpiresAt())

	got, ok := cache.Lookup("k1")
	require.True(t, ok)
	require.Same(t, pub, got)

	_, ok = cache.Lookup("k2")
	require.False(t, ok)

	// Exactly at the deadline the set is stale
	clock.Advance(2 * time.Minute)
	_, ok = cache.Lookup("k1")
	require.False(t, ok)
	require.False(t, cache.IsFresh())

	// Stale keys are still held, just not served
	require.Equal(t, 1, cache.Len())
}

func TestKeyCacheReplaceDiscardsPreviousKeys(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	cache := jwtx.NewKeyCacheWithClock(clock.Now)

	cache.Replace(map[string]*rsa.PublicKey{
		"old": &testRSAKey(t, "old").PublicKey,
	}, time.Hour)
	cache.Replace(map[string]*rsa.PublicKey{
		"new": &testRSAKey(t, "new").PublicKey,
	}, time.Hour)

	_, ok := cache.Lookup("old")
	require.False(t, ok, "replace must not merge")
	_, ok = cache.Lookup("new")
	require.True(t, ok)
}

func TestKeyCacheZeroTTLIsImmediatelyStale(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	cache := jwtx.NewKeyCacheWithClock(clock.Now)

	cache.Replace(map[string]*rsa.PublicKey{"k1": &testRSAKey(t, "k1").PublicKey}, 0)

	_, ok := cache.Lookup("k1")
	require.False(t, ok)
}

func TestKeyCacheDoesNotAliasCallerMap(t *testing.T) {
	cache := jwtx.NewKeyCache()
	keys := map[string]*rsa.PublicKey{"k1": &testRSAKey(t, "k1").PublicKey}

	cache.Replace(keys, time.Hour)
	keys["k2"] = &testRSAKey(t, "k2").PublicKey

	_, ok := cache.Lookup("k2")
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())
}

func TestKeyCacheConcurrentRefreshLastWriteWins(t *testing.T) {
	cache := jwtx.NewKeyCache()

	const writers = 4
	sets := make([]map[string]*rsa.PublicKey, writers)
	for i := range sets {
		pub := &testRSAKey(t, fmt.Sprintf("gen-%d", i)).PublicKey
		sets[i] = map[string]*rsa.PublicKey{
			"shared":                 pub,
			fmt.Sprintf("own-%d", i): pub,
		}
	}

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				cache.Replace(sets[i], time.Hour)
			}
		}()
	}
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				if pub, ok := cache.Lookup("shared"); ok {
					assert.NotNil(t, pub)
				}
				_ = cache.IsFresh()
				_ = cache.Len()
				_ = cache.ExpiresAt()
			}
		}()
	}
	wg.Wait()

	// whichever writer landed last owns the whole set; nothing is merged
	require.Equal(t, 2, cache.Len())
	shared, ok := cache.Lookup("shared")
	require.True(t, ok)

	owners := 0
	for i := range writers {
		if own, ok := cache.Lookup(fmt.Sprintf("own-%d", i)); ok {
			owners++
			require.Same(t, own, shared)
		}
	}
	require.Equal(t, 1, owners)
}

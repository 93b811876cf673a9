package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"
)

// cacheEntry holds one verified identity with its expiry
type cacheEntry struct {
	verified  VerifiedInstance
	expiresAt time.Time
}

// verifyCache caches successful verifications keyed by a SHA-256
// fingerprint of the raw token. Entries expire after the TTL; a
// background goroutine sweeps stale entries.
type verifyCache struct {
	ttl     time.Duration
	entries sync.Map
	done    chan struct{}

	hits   uint64
	misses uint64
}

func newVerifyCache(ttl time.Duration) *verifyCache {
	c := &verifyCache{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// fingerprint derives the cache key for a raw token. Tokens never
// land in the cache verbatim.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (c *verifyCache) get(token string) (*VerifiedInstance, bool) {
	value, ok := c.entries.Load(fingerprint(token))
	if !ok {
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	entry := value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(fingerprint(token))
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	atomic.AddUint64(&c.hits, 1)
	// Copy so callers cannot mutate the cached identity
	verified := entry.verified
	return &verified, true
}

func (c *verifyCache) put(token string, verified *VerifiedInstance) {
	c.entries.Store(fingerprint(token), &cacheEntry{
		verified:  *verified,
		expiresAt: time.Now().Add(c.ttl),
	})
}

func (c *verifyCache) stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

func (c *verifyCache) cleanup() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.entries.Range(func(key, value interface{}) bool {
				if now.After(value.(*cacheEntry).expiresAt) {
					c.entries.Delete(key)
				}
				return true
			})
		case <-c.done:
			return
		}
	}
}

func (c *verifyCache) stop() {
	close(c.done)
}

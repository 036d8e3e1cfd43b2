package payment

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// nonceCacheSize bounds the in-process replay-nonce cache, grounded on
// the teacher's LedgerCache default sizing.
const nonceCacheSize = 4096

// nonceCache is an in-process LRU of nonces already seen, sitting in
// front of the store's authoritative uniqueness constraint so a
// replayed nonce fails fast without a round trip. A cache miss still
// falls through to the store — the cache only ever narrows traffic, it
// is never itself the source of truth.
type nonceCache struct {
	cache *lru.Cache[string, struct{}]
}

func newNonceCache() *nonceCache {
	c, _ := lru.New[string, struct{}](nonceCacheSize) // size > 0, never errors
	return &nonceCache{cache: c}
}

func nonceCacheKey(equivalent, from, nonce string) string {
	return equivalent + "\x00" + from + "\x00" + nonce
}

// Seen reports whether key is already known to the cache.
func (n *nonceCache) Seen(equivalent, from, nonce string) bool {
	_, ok := n.cache.Get(nonceCacheKey(equivalent, from, nonce))
	return ok
}

// Remember marks key as seen.
func (n *nonceCache) Remember(equivalent, from, nonce string) {
	n.cache.Add(nonceCacheKey(equivalent, from, nonce), struct{}{})
}

// Package cache contains in-memory caches used to avoid hitting the
// disk for data we already read
package cache

import (
	"sync"

	"github.com/Nivl/gini/ginternals"
	lru "github.com/hashicorp/golang-lru"
)

// LRU represents a LRU cache of raw objects, indexed by their ID
type LRU struct {
	cache *lru.Cache
	mu    sync.Mutex
	// maxObjectSize is the size over which an object is not kept
	// in the cache
	maxObjectSize int
}

// NewLRU creates a new LRU Cache that holds up to maxEntries objects.
// Objects bigger than maxObjectSize are never cached, use 0 for
// no limit
func NewLRU(maxEntries, maxObjectSize int) (*LRU, error) {
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &LRU{
		cache:         cache,
		maxObjectSize: maxObjectSize,
	}, nil
}

// Get looks up the content of an object from the cache.
func (c *LRU) Get(oid ginternals.Oid) (data []byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(oid)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Add adds the content of an object to the cache.
// The cache keeps a reference to data, which must not be modified
// afterward
func (c *LRU) Add(oid ginternals.Oid, data []byte) {
	if c.maxObjectSize > 0 && len(data) > c.maxObjectSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(oid, data)
}

// Clear purges all stored items from the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Purge()
}

// Len returns the number of items in the cache.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cache.Len()
}

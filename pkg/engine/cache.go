package engine

import (
	"math/bits"
	"sync"

	"github.com/yourusername/checkers/internal/positionid"
)

// Cache constants
const (
	DefaultCacheSize = 1 << 16 // 64K entries
	CacheHit         = ^uint32(0)
)

// CacheEntry stores a cached root search result
type CacheEntry struct {
	Key     positionid.PositionKey // Position key (8 uint32s)
	Context int32                  // Search context (player, depth)
	Result  Result                 // Root result
}

// SearchCache is a thread-safe root search cache.
// Each slot holds the two most recent results that hashed to it.
type SearchCache struct {
	entries  []cacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.RWMutex
}

// cacheNode holds primary and secondary entries for two-way associative cache
type cacheNode struct {
	primary   CacheEntry
	secondary CacheEntry
}

// NewSearchCache creates a new cache with the given size.
// Size will be adjusted up to a power of 2 (minimum 2).
func NewSearchCache(size uint32) *SearchCache {
	if size > 1<<30 {
		size = 1 << 30
	}

	p := uint32(2)
	for p < size {
		p <<= 1
	}
	size = p

	cache := &SearchCache{
		entries:  make([]cacheNode, size/2),
		size:     size,
		hashMask: (size / 2) - 1,
	}

	cache.Flush()
	return cache
}

// invalidKey can never be produced by a board: every nibble of a valid key is <= 4
var invalidKey = positionid.PositionKey{Data: [8]uint32{^uint32(0)}}

// Flush clears all entries from the cache
func (c *SearchCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].primary.Key = invalidKey
		c.entries[i].secondary.Key = invalidKey
	}
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// keyBytes is the number of bytes hashed per lookup: the eight key words and
// the search context
const keyBytes = len(positionid.PositionKey{}.Data)*4 + 4

// mixWord scrambles one 32-bit word before it is folded into the hash
func mixWord(k uint32) uint32 {
	k *= 0xcc9e2d51
	k = bits.RotateLeft32(k, 15)
	return k * 0x1b873593
}

// hash folds the key words and the context into a slot index (murmur3 body
// and finalizer)
func (c *SearchCache) hash(key positionid.PositionKey, context int32) uint32 {
	var h uint32
	for _, k := range key.Data {
		h ^= mixWord(k)
		h = bits.RotateLeft32(h, 13)*5 + 0xe6546b64
	}
	h ^= mixWord(uint32(context))

	h ^= uint32(keyBytes)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup checks if a search is in the cache.
// Returns CacheHit if found (result filled), otherwise the slot for Add.
func (c *SearchCache) Lookup(key positionid.PositionKey, context int32, result *Result) uint32 {
	slot := c.hash(key, context)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookups++

	node := &c.entries[slot]

	if node.primary.Key == key && node.primary.Context == context {
		*result = node.primary.Result
		c.hits++
		return CacheHit
	}

	if node.secondary.Key == key && node.secondary.Context == context {
		*result = node.secondary.Result
		c.hits++
		return CacheHit
	}

	return slot
}

// Add stores a result. slot should be the value returned by a Lookup miss.
func (c *SearchCache) Add(key positionid.PositionKey, context int32, result Result, slot uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]

	// Move primary to secondary, add new as primary
	node.secondary = node.primary
	node.primary = CacheEntry{
		Key:     key,
		Context: context,
		Result:  result,
	}

	c.adds++
}

// Stats returns cache statistics
func (c *SearchCache) Stats() (lookups, hits, adds uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups, c.hits, c.adds
}

// HitRate returns the cache hit rate as a percentage
func (c *SearchCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}

// MakeSearchContext encodes the side to move and the depth into a cache context.
// Bit 0: player, bits 1-15: depth.
func MakeSearchContext(player Player, depth int) int32 {
	return int32(player&0x1) | int32(depth&0x7FFF)<<1
}

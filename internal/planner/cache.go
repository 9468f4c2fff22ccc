package planner

import (
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"orrery/internal/celestial"
)

const (
	cacheCapacity  = 1024
	depHourBucketS = 3600.0
	dvFracBucket   = 0.05
)

// LegCache memoizes ComputeLeg results, bucketed by (from, to,
// departure-hour, extra-dv-bucket) so nearby queries share a cache
// entry, with a hard 1024-entry LRU cap.
type LegCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Leg]

	hits   int64
	misses int64

	// limiter throttles the expensive porkchop path; leg lookups through
	// Get are not rate-limited since they're O(1) cache hits once warm.
	limiter *rate.Limiter
}

// NewLegCache builds an empty cache. porkchopPerSecond bounds how often
// the (expensive) porkchop grid may be recomputed. capacity overrides the
// LRU size (clamped to the hard 1024-entry cap); a non-positive
// value falls back to that cap.
func NewLegCache(porkchopPerSecond float64, capacity int) *LegCache {
	if capacity <= 0 || capacity > cacheCapacity {
		capacity = cacheCapacity
	}
	c, err := lru.New[string, *Leg](capacity)
	if err != nil {
		panic(fmt.Sprintf("planner: invalid LRU capacity: %v", err))
	}
	return &LegCache{
		cache:   c,
		limiter: rate.NewLimiter(rate.Limit(porkchopPerSecond), 1),
	}
}

func bucketKey(fromBodyID, toBodyID string, depT, extraDvFrac float64) string {
	depBucket := int64(depT / depHourBucketS)
	dvBucket := int64(extraDvFrac / dvFracBucket)
	return fmt.Sprintf("%s|%s|%d|%d", fromBodyID, toBodyID, depBucket, dvBucket)
}

// Get returns a cached Leg for the bucketed key, or computes and stores
// one via ComputeLeg on a miss.
func (c *LegCache) Get(reg *celestial.Registry, fromBodyID, toBodyID string, depT, extraDvFrac float64) (*Leg, error) {
	key := bucketKey(fromBodyID, toBodyID, depT, extraDvFrac)

	c.mu.Lock()
	if leg, ok := c.cache.Get(key); ok {
		atomic.AddInt64(&c.hits, 1)
		c.mu.Unlock()
		return leg, nil
	}
	c.mu.Unlock()

	atomic.AddInt64(&c.misses, 1)
	leg, err := ComputeLeg(reg, fromBodyID, toBodyID, depT, extraDvFrac)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(key, leg)
	c.mu.Unlock()
	return leg, nil
}

// AllowPorkchop reports whether a new porkchop grid computation may
// proceed under the configured rate limit.
func (c *LegCache) AllowPorkchop() bool {
	return c.limiter.Allow()
}

// Stats reports cache hit/miss/size counters.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// Stats returns a snapshot of the cache's hit/miss/size counters.
func (c *LegCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
		Size:   c.cache.Len(),
	}
}

// Clear empties the cache, used when the celestial config is reloaded
// and cached legs would reference stale body data.
func (c *LegCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

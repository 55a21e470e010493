// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package surface

import (
	"context"
	"math"
	"sync"
	"time"
)

// coordPrecision is the precision used to quantize coordinates (0.01 degrees ≈ 1.1 km)
const coordPrecision = 1e-2

type cacheKey struct {
	LatQ int32
	LonQ int32
}

type cacheEntry struct {
	Surface Surface
	Expiry  time.Time
}

// CachedLookup wraps a Lookup with a TTL cache keyed by quantized
// coordinates. Road surfaces rarely change, so hits are kept for a long
// time; misses expire earlier so transient Overpass hiccups heal.
type CachedLookup struct {
	lookup  Lookup
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

// NewCachedLookup returns a caching wrapper around the given Lookup.
func NewCachedLookup(lookup Lookup, ttlHit, ttlMiss time.Duration) *CachedLookup {
	return &CachedLookup{
		lookup:  lookup,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedLookup) Name() string {
	return "surface cache using " + c.lookup.Name()
}

func (c *CachedLookup) Lookup(ctx context.Context, lat, lon float64) (Surface, error) {
	key := newKey(lat, lon)

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.Expiry) {
		return entry.Surface, nil
	}

	surf, err := c.lookup.Lookup(ctx, lat, lon)
	if err != nil {
		return surf, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if surf == NoRoad || surf == Unknown {
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Surface: surf,
		Expiry:  time.Now().Add(ttl),
	}

	return surf, nil
}

func quantizeCoord(val float64) int32 {
	return int32(math.Round(val / coordPrecision))
}

func newKey(lat, lon float64) cacheKey {
	return cacheKey{
		LatQ: quantizeCoord(lat),
		LonQ: quantizeCoord(lon),
	}
}

package articlecache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// VolatileCache is the in-process cache layer, backed by ristretto. It is
// TTL- and capacity-bounded, strictly subordinate to the durable store, and
// disposable: clearing it affects performance only.
type VolatileCache struct {
	rc  *ristretto.Cache[string, string]
	ttl time.Duration
}

// VolatileStats is a snapshot of the volatile layer's counters.
type VolatileStats struct {
	Keys   uint64 `json:"keys"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// NewVolatileCache creates a volatile cache holding at most maxEntries
// articles, each expiring ttl after its write.
func NewVolatileCache(maxEntries int64, ttl time.Duration) (*VolatileCache, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &VolatileCache{rc: rc, ttl: ttl}, nil
}

// Get retrieves an article by key. The boolean indicates a cache hit.
func (v *VolatileCache) Get(key string) (string, bool) {
	return v.rc.Get(key)
}

// Set stores an article under key with the configured TTL. Each entry has a
// cost of 1, so MaxCost bounds the key count.
func (v *VolatileCache) Set(key, text string) {
	v.rc.SetWithTTL(key, text, 1, v.ttl)
	v.rc.Wait()
}

// Clear drops every entry. Safe at any time; the durable store is the source
// of truth.
func (v *VolatileCache) Clear() {
	v.rc.Clear()
}

// Stats returns a snapshot of the layer's counters.
func (v *VolatileCache) Stats() VolatileStats {
	m := v.rc.Metrics
	added, evicted := m.KeysAdded(), m.KeysEvicted()
	var keys uint64
	if added > evicted {
		keys = added - evicted
	}
	return VolatileStats{
		Keys:   keys,
		Hits:   m.Hits(),
		Misses: m.Misses(),
	}
}

// Close releases the cache's resources.
func (v *VolatileCache) Close() {
	v.rc.Close()
}

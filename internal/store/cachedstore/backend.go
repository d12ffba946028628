// Package cachedstore keeps recently loaded collections in memory in
// front of a slower store.
package cachedstore

import (
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

// Backend defines the interface for cache storage backends.
// Implementations handle storage and eviction strategy.
type Backend interface {
	// Get returns the cached collection under key.
	Get(key store.Key) ([]game.Record, bool)

	// Set caches the collection under key.
	Set(key store.Key, records []game.Record)

	// Remove drops key from the cache.
	Remove(key store.Key)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Package lru implements an LRU cache eviction strategy.
package lru

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/cachedstore/cachestrategy"
)

var _ cachestrategy.Strategy = (*Strategy)(nil)

// Strategy evicts the least recently used collection.
type Strategy struct {
	cache *lru.Cache[store.Key, []game.Record]
}

// New creates an LRU strategy holding up to capacity collections.
func New(capacity int) (*Strategy, error) {
	c, err := lru.New[store.Key, []game.Record](capacity)
	if err != nil {
		return nil, err
	}
	return &Strategy{cache: c}, nil
}

// Get retrieves the collection under key.
func (s *Strategy) Get(key store.Key) ([]game.Record, bool) {
	return s.cache.Get(key)
}

// Add caches value and reports whether an eviction occurred.
func (s *Strategy) Add(key store.Key, value []game.Record) bool {
	return s.cache.Add(key, value)
}

// Remove drops key and reports whether it was present.
func (s *Strategy) Remove(key store.Key) bool {
	return s.cache.Remove(key)
}

// Len returns the number of cached collections.
func (s *Strategy) Len() int {
	return s.cache.Len()
}

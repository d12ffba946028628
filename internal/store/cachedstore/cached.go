package cachedstore

import (
	"context"
	"sync"
	"time"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store wraps another Store, caching loaded collections. Writes go
// through to the underlying store and invalidate the cached key.
//
// Every write bumps a per-key generation. A load only fills the cache if
// no write to its key completed while it was reading, so a slow reader can
// never put a collection older than the last write back into the cache.
type Store struct {
	underlying store.Store
	backend    Backend

	mu          sync.Mutex
	generations map[store.Key]uint64
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying:  underlying,
		backend:     backend,
		generations: make(map[store.Key]uint64),
	}
}

// Load returns the collection under key, checking the cache first.
func (s *Store) Load(ctx context.Context, key store.Key) ([]game.Record, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	if records, ok := s.backend.Get(key); ok {
		return clone(records), nil
	}

	gen := s.generation(key)
	records, err := s.underlying.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generations[key] == gen {
		s.backend.Set(key, clone(records))
	}
	s.mu.Unlock()
	return records, nil
}

// Append writes through and invalidates key.
func (s *Store) Append(ctx context.Context, key store.Key, records []game.Record) error {
	defer s.invalidate(key)
	return s.underlying.Append(ctx, key, records)
}

// Clear writes through and invalidates key.
func (s *Store) Clear(ctx context.Context, key store.Key) error {
	defer s.invalidate(key)
	return s.underlying.Clear(ctx, key)
}

func (s *Store) generation(key store.Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[key]
}

// invalidate drops key from the cache and fails any load of key that
// started before the write finished.
func (s *Store) invalidate(key store.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[key]++
	s.backend.Remove(key)
}

// Watermark reads the underlying watermark. Watermarks are not cached.
func (s *Store) Watermark(ctx context.Context, key store.Key) (time.Time, error) {
	return s.underlying.Watermark(ctx, key)
}

// SetWatermark writes the underlying watermark.
func (s *Store) SetWatermark(ctx context.Context, key store.Key, t time.Time) error {
	return s.underlying.SetWatermark(ctx, key, t)
}

// Keys lists the underlying store's keys when it supports listing.
func (s *Store) Keys(ctx context.Context) ([]store.Key, error) {
	if l, ok := s.underlying.(store.Lister); ok {
		return l.Keys(ctx)
	}
	return nil, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}

func clone(records []game.Record) []game.Record {
	return append([]game.Record{}, records...)
}

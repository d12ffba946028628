// Package memstore provides an in-memory store for tests and ephemeral
// sessions.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store keeps every collection in memory.
type Store struct {
	mu         sync.RWMutex
	records    map[store.Key][]game.Record
	watermarks map[store.Key]time.Time
	closed     bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records:    make(map[store.Key][]game.Record),
		watermarks: make(map[store.Key]time.Time),
	}
}

// Load returns a copy of the records under key.
func (s *Store) Load(ctx context.Context, key store.Key) ([]game.Record, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return append([]game.Record{}, s.records[key]...), nil
}

// Append copies records into the collection under key.
func (s *Store) Append(ctx context.Context, key store.Key, records []game.Record) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.records[key] = append(s.records[key], records...)
	return nil
}

// Clear drops the collection and watermark under key.
func (s *Store) Clear(ctx context.Context, key store.Key) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	delete(s.records, key)
	delete(s.watermarks, key)
	return nil
}

// Watermark returns the watermark under key.
func (s *Store) Watermark(ctx context.Context, key store.Key) (time.Time, error) {
	if err := store.CheckContext(ctx); err != nil {
		return time.Time{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return time.Time{}, store.ErrClosed
	}
	t, ok := s.watermarks[key]
	if !ok {
		return time.Time{}, store.ErrNotFound
	}
	return t, nil
}

// SetWatermark replaces the watermark under key.
func (s *Store) SetWatermark(ctx context.Context, key store.Key, t time.Time) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.watermarks[key] = t
	return nil
}

// Keys returns every key with stored records, sorted.
func (s *Store) Keys(ctx context.Context) ([]store.Key, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	keys := make([]store.Key, 0, len(s.records))
	for k, records := range s.records {
		if len(records) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys, nil
}

// Close marks the store closed. Later calls fail with store.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

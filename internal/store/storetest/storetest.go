// Package storetest checks that a store.Store implementation behaves like
// every other backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

// Record returns a distinct test record for day n of January 2021.
func Record(n int, moves string) game.Record {
	date := time.Date(2021, time.January, n, 12, 0, 0, 0, time.UTC)
	return game.Record{
		Event:       "Rated Blitz game",
		Date:        date.Format(game.LayoutUTC),
		White:       "alice",
		Black:       "bob",
		Result:      "1-0",
		Termination: "Normal",
		OpeningName: "Sicilian Defense",
		ECO:         "B20",
		PGN:         moves,
	}
}

// Run exercises a fresh store returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("LoadEmpty", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		got, err := s.Load(context.Background(), store.NewKey("nobody", game.Blitz))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Load() = %d records, want 0", len(got))
		}
	})

	t.Run("AppendLoad", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()
		key := store.NewKey("alice", game.Blitz)

		first := []game.Record{Record(1, "1. e4 c5"), Record(2, "1. d4 d5")}
		if err := s.Append(ctx, key, first); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := s.Append(ctx, key, []game.Record{Record(3, "1. c4 e5")}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		got, err := s.Load(ctx, key)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := []string{"1. e4 c5", "1. d4 d5", "1. c4 e5"}
		if len(got) != len(want) {
			t.Fatalf("Load() = %d records, want %d", len(got), len(want))
		}
		for i, w := range want {
			if got[i].PGN != w {
				t.Errorf("Load()[%d].PGN = %q, want %q", i, got[i].PGN, w)
			}
		}
		if got[0] != first[0] {
			t.Errorf("Load()[0] = %+v, want %+v", got[0], first[0])
		}
	})

	t.Run("KeysIsolated", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		if err := s.Append(ctx, store.NewKey("alice", game.Blitz), []game.Record{Record(1, "1. e4")}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		got, err := s.Load(ctx, store.NewKey("alice", game.Bullet))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Load(bullet) = %d records, want 0", len(got))
		}
	})

	t.Run("Watermark", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()
		key := store.NewKey("alice", game.Rapid)

		if _, err := s.Watermark(ctx, key); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Watermark() error = %v, want %v", err, store.ErrNotFound)
		}

		mark := time.Date(2021, time.January, 10, 12, 0, 0, 0, time.UTC)
		if err := s.SetWatermark(ctx, key, mark); err != nil {
			t.Fatalf("SetWatermark() error = %v", err)
		}
		got, err := s.Watermark(ctx, key)
		if err != nil {
			t.Fatalf("Watermark() error = %v", err)
		}
		if !got.Equal(mark) {
			t.Errorf("Watermark() = %v, want %v", got, mark)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()
		key := store.NewKey("alice", game.Blitz)

		if err := s.Append(ctx, key, []game.Record{Record(1, "1. e4")}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := s.SetWatermark(ctx, key, time.Now()); err != nil {
			t.Fatalf("SetWatermark() error = %v", err)
		}
		if err := s.Clear(ctx, key); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}

		got, err := s.Load(ctx, key)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Load() after Clear() = %d records, want 0", len(got))
		}
		if _, err := s.Watermark(ctx, key); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Watermark() after Clear() error = %v, want %v", err, store.ErrNotFound)
		}
		if err := s.Clear(ctx, key); err != nil {
			t.Errorf("Clear() of empty key error = %v", err)
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := s.Load(ctx, store.NewKey("alice", game.Blitz)); !errors.Is(err, context.Canceled) {
			t.Errorf("Load() error = %v, want %v", err, context.Canceled)
		}
	})
}

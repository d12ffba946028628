package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestStore_Closed(t *testing.T) {
	s := New()
	s.Close()

	_, err := s.Load(context.Background(), store.NewKey("alice", game.Blitz))
	if !errors.Is(err, store.ErrClosed) {
		t.Errorf("Load() error = %v, want %v", err, store.ErrClosed)
	}
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.NewKey("alice", game.Blitz)
	s.Append(ctx, key, []game.Record{storetest.Record(1, "1. e4")})

	got, _ := s.Load(ctx, key)
	got[0].PGN = "changed"

	again, _ := s.Load(ctx, key)
	if again[0].PGN != "1. e4" {
		t.Errorf("Load() exposed internal state: %q", again[0].PGN)
	}
}

func TestStore_Keys(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Append(ctx, store.NewKey("bob", game.Rapid), []game.Record{storetest.Record(1, "1. e4")})
	s.Append(ctx, store.NewKey("alice", game.Blitz), []game.Record{storetest.Record(1, "1. d4")})
	s.Append(ctx, store.NewKey("carol", game.Blitz), []game.Record{storetest.Record(1, "1. c4")})
	s.Clear(ctx, store.NewKey("carol", game.Blitz))

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []store.Key{store.NewKey("alice", game.Blitz), store.NewKey("bob", game.Rapid)}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

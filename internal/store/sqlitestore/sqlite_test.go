package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/storetest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openTemp(t) })
}

func TestStore_IgnoresDuplicates(t *testing.T) {
	s := openTemp(t)
	defer s.Close()
	ctx := context.Background()
	key := store.NewKey("alice", game.Blitz)

	a, b := storetest.Record(1, "1. e4"), storetest.Record(2, "1. d4")
	if err := s.Append(ctx, key, []game.Record{a, b}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Append(ctx, key, []game.Record{b, storetest.Record(3, "1. c4")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := s.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Load() = %d records, want 3", len(got))
	}

	// The same game under another key is a different row.
	other := store.NewKey("bob", game.Blitz)
	if err := s.Append(ctx, other, []game.Record{a}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 keys", keys)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	for i := 0; i < 2; i++ {
		if err := Migrate(path); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i, err)
		}
	}
	v, err := SchemaVersion(path)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if v != 2 {
		t.Errorf("SchemaVersion() = %d, want 2", v)
	}
}

func TestStore_Closed(t *testing.T) {
	s := openTemp(t)
	s.Close()

	ctx := context.Background()
	key := store.NewKey("alice", game.Blitz)

	if _, err := s.Load(ctx, key); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Load() error = %v, want %v", err, store.ErrClosed)
	}
	if err := s.Append(ctx, key, nil); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Append() error = %v, want %v", err, store.ErrClosed)
	}
	if _, err := s.Watermark(ctx, key); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Watermark() error = %v, want %v", err, store.ErrClosed)
	}
	if _, err := s.Keys(ctx); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Keys() error = %v, want %v", err, store.ErrClosed)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

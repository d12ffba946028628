package store

import (
	"context"
	"testing"

	"github.com/discochess/repertoire/internal/game"
)

func TestNewKey(t *testing.T) {
	k := NewKey("  DrNykterstein ", game.Blitz)
	if k.Player != "drnykterstein" {
		t.Errorf("Player = %q, want drnykterstein", k.Player)
	}
	if got := k.String(); got != "drnykterstein/blitz" {
		t.Errorf("String() = %q, want drnykterstein/blitz", got)
	}
}

func TestRowMapping(t *testing.T) {
	rec := game.Record{
		Event:       "Rated Rapid game",
		Date:        "2021.01.10H12:00:00",
		White:       "alice",
		Black:       "bob",
		Result:      "0-1",
		Termination: "Normal",
		OpeningName: "French Defense",
		ECO:         "C00",
		PGN:         "1. e4 e6 0-1",
		Site:        "https://lichess.org/xyz",
	}
	if got := FromRow(ToRow(rec)); got != rec {
		t.Errorf("FromRow(ToRow()) = %+v, want %+v", got, rec)
	}
}

func TestCheckContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if err := CheckContext(ctx); err != nil {
		t.Errorf("CheckContext() error = %v", err)
	}
	cancel()
	if err := CheckContext(ctx); err != context.Canceled {
		t.Errorf("CheckContext() error = %v, want %v", err, context.Canceled)
	}
}

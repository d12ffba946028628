// Package store defines persistence for synced game records. Each
// (player, game type) key owns one record collection and one watermark,
// the date of the newest stored game.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/discochess/repertoire/internal/game"
)

var (
	// ErrNotFound is returned when nothing is stored for a key. Load
	// never returns it; an unknown key loads as an empty set.
	ErrNotFound = errors.New("store: not found")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store: closed")
)

// Key identifies one record collection.
type Key struct {
	Player   string
	GameType game.Type
}

// NewKey returns the key for player and gameType. Player names are case
// insensitive and stored lower case.
func NewKey(player string, gameType game.Type) Key {
	return Key{Player: strings.ToLower(strings.TrimSpace(player)), GameType: gameType}
}

func (k Key) String() string {
	return k.Player + "/" + string(k.GameType)
}

// Store defines the interface for storage backends.
type Store interface {
	// Load returns every record stored under key in insertion order.
	Load(ctx context.Context, key Key) ([]game.Record, error)

	// Append adds records to the collection under key. Callers are
	// responsible for deduplication.
	Append(ctx context.Context, key Key, records []game.Record) error

	// Clear removes the collection and watermark under key.
	Clear(ctx context.Context, key Key) error

	// Watermark returns the stored watermark, or ErrNotFound.
	Watermark(ctx context.Context, key Key) (time.Time, error)

	// SetWatermark replaces the watermark under key.
	SetWatermark(ctx context.Context, key Key, t time.Time) error

	// Close releases any resources held by the store.
	Close() error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// Keys returns every key with a stored collection.
	Keys(ctx context.Context) ([]Key, error)
}

// Row is the persisted form of a game record. Every backend stores
// records through this one mapping.
type Row struct {
	Event       string `json:"event"`
	Date        string `json:"date"`
	White       string `json:"white"`
	Black       string `json:"black"`
	Result      string `json:"result"`
	Termination string `json:"termination"`
	Opening     string `json:"opening"`
	ECO         string `json:"eco"`
	PGN         string `json:"pgn"`
	Site        string `json:"site,omitempty"`
}

// ToRow maps a record to its persisted form.
func ToRow(r game.Record) Row {
	return Row{
		Event:       r.Event,
		Date:        r.Date,
		White:       r.White,
		Black:       r.Black,
		Result:      r.Result,
		Termination: r.Termination,
		Opening:     r.OpeningName,
		ECO:         r.ECO,
		PGN:         r.PGN,
		Site:        r.Site,
	}
}

// FromRow maps a persisted row back to a record.
func FromRow(row Row) game.Record {
	return game.Record{
		Event:       row.Event,
		Date:        row.Date,
		White:       row.White,
		Black:       row.Black,
		Result:      row.Result,
		Termination: row.Termination,
		OpeningName: row.Opening,
		ECO:         row.ECO,
		PGN:         row.PGN,
		Site:        row.Site,
	}
}

// CheckContext returns ctx.Err() if ctx is already done.
func CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

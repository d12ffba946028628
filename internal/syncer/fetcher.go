package syncer

import (
	"context"
	"time"

	"github.com/discochess/repertoire/internal/game"
)

// FetchRequest selects the games a Fetcher returns. Zero fields are
// unbounded.
type FetchRequest struct {
	Player   string
	GameType game.Type
	// Since is inclusive.
	Since time.Time
	Until time.Time
	Max   int
}

// Account summarizes a player's history on the server.
type Account struct {
	Username string
	// Counts holds games played per type. game.All holds the overall count.
	Counts map[game.Type]int
}

// Fetcher retrieves raw game text and account summaries.
type Fetcher interface {
	// FetchGames returns the server's multi-game PGN text.
	FetchGames(ctx context.Context, req FetchRequest) (string, error)

	// FetchAccount returns the account summary for player.
	FetchAccount(ctx context.Context, player string) (Account, error)
}

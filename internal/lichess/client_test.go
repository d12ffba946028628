package lichess

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/syncer"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithRateLimit(rate.Inf, 1)}, opts...)
	return New(opts...)
}

func TestFetchGames_Query(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`[Event "Rated Blitz game"]`))
	}, WithToken("secret"))

	since := time.Date(2021, time.January, 10, 0, 0, 0, 0, time.UTC)
	raw, err := c.FetchGames(context.Background(), syncer.FetchRequest{
		Player:   "alice",
		GameType: game.Blitz,
		Since:    since,
		Max:      50,
	})
	if err != nil {
		t.Fatalf("FetchGames() error = %v", err)
	}
	if raw != `[Event "Rated Blitz game"]` {
		t.Errorf("FetchGames() = %q", raw)
	}

	if got.URL.Path != "/api/games/user/alice" {
		t.Errorf("path = %q, want /api/games/user/alice", got.URL.Path)
	}
	q := got.URL.Query()
	want := url.Values{
		"since":    {"1610236800000"},
		"max":      {"50"},
		"perfType": {"blitz"},
		"rated":    {"true"},
		"opening":  {"true"},
	}
	for k, v := range want {
		if q.Get(k) != v[0] {
			t.Errorf("query %s = %q, want %q", k, q.Get(k), v[0])
		}
	}
	if q.Has("until") {
		t.Errorf("query has until = %q, want none", q.Get("until"))
	}
	if h := got.Header.Get("Authorization"); h != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", h)
	}
	if h := got.Header.Get("Accept"); h != "application/x-chess-pgn" {
		t.Errorf("Accept = %q", h)
	}
}

func TestGamesURL_AllTypes(t *testing.T) {
	c := New(WithBaseURL("https://example.org/"))
	got := c.GamesURL(syncer.FetchRequest{Player: "alice", GameType: game.All})
	want := "https://example.org/api/games/user/alice?opening=true&rated=true"
	if got != want {
		t.Errorf("GamesURL() = %q, want %q", got, want)
	}
}

func TestFetchAccount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/alice" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"username": "Alice",
			"perfs": {"blitz": {"games": 1200}, "bullet": {"games": 30}},
			"count": {"all": 1300}
		}`))
	})

	acct, err := c.FetchAccount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchAccount() error = %v", err)
	}
	if acct.Username != "Alice" {
		t.Errorf("Username = %q, want Alice", acct.Username)
	}
	wantCounts := map[game.Type]int{game.Blitz: 1200, game.Bullet: 30, game.Rapid: 0, game.All: 1300}
	for typ, want := range wantCounts {
		if acct.Counts[typ] != want {
			t.Errorf("Counts[%s] = %d, want %d", typ, acct.Counts[typ], want)
		}
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"unauthorized", http.StatusUnauthorized, func(err error) bool { return errors.Is(err, ErrUnauthorized) }},
		{"rate limited", http.StatusTooManyRequests, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusTooManyRequests && se.Body == "slow down"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "slow down", tt.status)
			})

			_, err := c.FetchGames(context.Background(), syncer.FetchRequest{Player: "alice"})
			if !tt.check(err) {
				t.Errorf("FetchGames() error = %v", err)
			}
			_, err = c.FetchAccount(context.Background(), "alice")
			if !tt.check(err) {
				t.Errorf("FetchAccount() error = %v", err)
			}
		})
	}
}

func TestFetchGames_Canceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.FetchGames(ctx, syncer.FetchRequest{Player: "alice"}); err == nil {
		t.Error("FetchGames() error = nil, want context error")
	}
}

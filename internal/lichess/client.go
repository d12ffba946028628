// Package lichess fetches game exports and account summaries from the
// Lichess HTTP API.
package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/syncer"
)

// DefaultBaseURL is the public Lichess API.
const DefaultBaseURL = "https://lichess.org"

// DefaultRateLimit keeps well inside the API's per-client allowance.
var DefaultRateLimit = rate.Every(time.Second)

const (
	defaultResponseHeaderTimeout = 30 * time.Second
	maxErrorBody                 = 512
)

var (
	// ErrNotFound is returned for an unknown player.
	ErrNotFound = errors.New("lichess: not found")

	// ErrUnauthorized is returned when the token is missing or rejected.
	ErrUnauthorized = errors.New("lichess: unauthorized")
)

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("lichess: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("lichess: unexpected status %d: %s", e.Code, e.Body)
}

var _ syncer.Fetcher = (*Client)(nil)

// Client talks to the Lichess API.
type Client struct {
	baseURL string
	client  *http.Client
	token   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithToken sends a personal API token as a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRateLimit sets the request rate.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client with sensible defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client: &http.Client{
			// Exports stream for as long as they take; only the headers
			// are bounded.
			Transport: &http.Transport{
				ResponseHeaderTimeout: defaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(DefaultRateLimit, 1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("lichess")
	return c
}

// GamesURL returns the export URL for req. Dates are sent as
// milliseconds since the epoch.
func (c *Client) GamesURL(req syncer.FetchRequest) string {
	q := url.Values{}
	q.Set("rated", "true")
	q.Set("opening", "true")
	if req.GameType != "" && req.GameType != game.All {
		q.Set("perfType", string(req.GameType))
	}
	if !req.Since.IsZero() {
		q.Set("since", strconv.FormatInt(req.Since.UnixMilli(), 10))
	}
	if !req.Until.IsZero() {
		q.Set("until", strconv.FormatInt(req.Until.UnixMilli(), 10))
	}
	if req.Max > 0 {
		q.Set("max", strconv.Itoa(req.Max))
	}
	return c.baseURL + "/api/games/user/" + url.PathEscape(req.Player) + "?" + q.Encode()
}

// FetchGames returns the PGN export for req.
func (c *Client) FetchGames(ctx context.Context, req syncer.FetchRequest) (string, error) {
	body, err := c.get(ctx, c.GamesURL(req), "application/x-chess-pgn")
	if err != nil {
		return "", fmt.Errorf("fetching games for %s: %w", req.Player, err)
	}
	return string(body), nil
}

type userResponse struct {
	Username string `json:"username"`
	Perfs    map[string]struct {
		Games int `json:"games"`
	} `json:"perfs"`
	Count struct {
		All int `json:"all"`
	} `json:"count"`
}

// FetchAccount returns the public profile summary of player.
func (c *Client) FetchAccount(ctx context.Context, player string) (syncer.Account, error) {
	body, err := c.get(ctx, c.baseURL+"/api/user/"+url.PathEscape(player), "application/json")
	if err != nil {
		return syncer.Account{}, fmt.Errorf("fetching account %s: %w", player, err)
	}

	var u userResponse
	if err := json.Unmarshal(body, &u); err != nil {
		return syncer.Account{}, fmt.Errorf("decoding account %s: %w", player, err)
	}

	acct := syncer.Account{
		Username: u.Username,
		Counts:   map[game.Type]int{game.All: u.Count.All},
	}
	for _, t := range []game.Type{game.Bullet, game.Blitz, game.Rapid} {
		acct.Counts[t] = u.Perfs[string(t)].Games
	}
	return acct, nil
}

func (c *Client) get(ctx context.Context, u, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("fetched",
		zap.String("url", u),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

// Package repertoire syncs a player's Lichess games and groups them by
// opening, with results scored from the player's side of the board.
//
// Example usage:
//
//	client, err := repertoire.New(
//	    repertoire.WithStore(st),
//	    repertoire.WithFetcher(lichess.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.Sync(ctx, "alice", game.Blitz, syncer.SyncOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := client.Analyze(res.Games, repertoire.NewSession("alice", game.Blitz))
//	for _, o := range report.Openings {
//	    fmt.Printf("%s: %d games, %+d\n", o.Name(), o.Count(), o.Points)
//	}
package repertoire

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/aggregate"
	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/classify"
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/syncer"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrEmpty indicates nothing is stored for the requested player and
	// game type. Callers typically sync, or fetch a preview, in response.
	ErrEmpty = errors.New("repertoire: no games")

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("repertoire: client closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("repertoire: no store provided")

	// ErrNoFetcher indicates a sync was requested without a fetcher.
	ErrNoFetcher = errors.New("repertoire: no fetcher provided")
)

// Client syncs and analyzes games.
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	store      store.Store
	syncer     *syncer.Syncer
	classifier *classify.Classifier
	aggregator *aggregate.Aggregator
	scheme     game.Scheme
	now        func() time.Time
	stats      stats.Collector
	logger     *zap.Logger
	closed     atomic.Bool
}

// New creates a new Client with the given options.
// A store is required. The embedded opening catalog is used unless
// WithCatalog is given.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.store == nil {
		return nil, ErrNoStore
	}
	if cfg.catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		cfg.catalog = cat
	}

	c := &Client{
		store:  cfg.store,
		scheme: cfg.scheme,
		now:    cfg.now,
		stats:  cfg.stats,
		logger: cfg.logger,
	}
	c.classifier = classify.New(cfg.catalog,
		classify.WithLogger(cfg.logger),
		classify.WithStats(cfg.stats),
	)
	c.aggregator = aggregate.New(c.classifier, cfg.scheme)

	if cfg.fetcher != nil {
		c.syncer = syncer.New(cfg.store, cfg.fetcher,
			syncer.WithLogger(cfg.logger),
			syncer.WithStats(cfg.stats),
			syncer.WithPreview(cfg.previewThreshold, cfg.previewSize),
			syncer.WithConcurrency(cfg.concurrency),
		)
	}

	c.logger.Debug("client initialized",
		zap.Int("catalogEntries", cfg.catalog.Len()),
		zap.Bool("canSync", c.syncer != nil),
	)

	return c, nil
}

// Sync fetches new games for player and merges them into the store. On a
// store failure the result is degraded and still holds the fetched games.
func (c *Client) Sync(ctx context.Context, player string, gameType game.Type, opts syncer.SyncOptions) (*syncer.Result, error) {
	if err := c.canSync(); err != nil {
		return nil, err
	}
	return c.syncer.Sync(ctx, store.NewKey(player, gameType), opts)
}

// SyncAll syncs several game types of player concurrently.
func (c *Client) SyncAll(ctx context.Context, player string, types []game.Type, opts syncer.SyncOptions) ([]*syncer.Result, error) {
	if err := c.canSync(); err != nil {
		return nil, err
	}
	return c.syncer.SyncAll(ctx, player, types, opts)
}

func (c *Client) canSync() error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.syncer == nil {
		return ErrNoFetcher
	}
	return nil
}

// Games returns the stored games of player, or ErrEmpty if there are none.
func (c *Client) Games(ctx context.Context, player string, gameType game.Type) ([]game.Record, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	records, err := c.store.Load(ctx, store.NewKey(player, gameType))
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return records, nil
}

// Clear forgets every stored game of player and resets the watermark, so
// the next sync starts from scratch.
func (c *Client) Clear(ctx context.Context, player string, gameType game.Type) error {
	if c.closed.Load() {
		return ErrClosed
	}
	key := store.NewKey(player, gameType)
	if err := c.store.Clear(ctx, key); err != nil {
		return fmt.Errorf("clearing %s: %w", key, err)
	}
	c.logger.Info("cleared", zap.Stringer("key", key))
	return nil
}

// Analyze filters records, groups them by opening and sorts the groups.
// The records are not modified.
func (c *Client) Analyze(records []game.Record, session Session) *Report {
	start := time.Now()
	c.stats.IncCounter(stats.MetricAnalyses, 1)

	filtered := session.Filter.Apply(records, session.Subject, c.now())
	openings := c.aggregator.Aggregate(filtered, session.Subject)

	report := &Report{
		Session:  session,
		Openings: aggregate.SortOpenings(openings, session.Sort),
		Summary:  aggregate.Summarize(filtered, session.Subject, c.scheme),
		Total:    len(records),
	}

	c.stats.ObserveHistogram(stats.MetricAnalyzeDuration, time.Since(start).Seconds())
	c.logger.Debug("analyzed",
		zap.String("subject", session.Subject),
		zap.Int("games", len(records)),
		zap.Int("matching", len(filtered)),
		zap.Int("openings", len(report.Openings)),
	)
	return report
}

// AnalyzeAsync runs Analyze on its own goroutine. The returned channel
// delivers exactly one result and is then closed; a report is only ever
// sent complete. If ctx ends first the result carries ctx.Err().
func (c *Client) AnalyzeAsync(ctx context.Context, records []game.Record, session Session) <-chan AnalysisResult {
	out := make(chan AnalysisResult, 1)
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- AnalysisResult{Err: err}
			return
		}
		report := c.Analyze(records, session)
		if err := ctx.Err(); err != nil {
			out <- AnalysisResult{Err: err}
			return
		}
		out <- AnalysisResult{Report: report}
	}()
	return out
}

// Variations returns the granular groups of opening ordered by s.
func (c *Client) Variations(opening aggregate.Opening, s aggregate.Sort) []aggregate.Variation {
	return aggregate.SortVariations(opening.Variations, s)
}

// Classifier returns the classifier used for grouping.
func (c *Client) Classifier() *classify.Classifier {
	return c.classifier
}

// Store returns the storage backend used by this client.
func (c *Client) Store() store.Store {
	return c.store
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

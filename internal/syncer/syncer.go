// Package syncer brings a player's stored games up to date with the
// server. Each (player, game type) key syncs incrementally from its
// watermark, and merges never store the same game twice.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/pgn"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/store"
)

var (
	// ErrStoreUnavailable is returned when the store cannot be read or
	// written. Sync still returns the fetched games alongside it.
	ErrStoreUnavailable = errors.New("syncer: store unavailable")

	// ErrFetch is returned when the server cannot be reached or answers
	// with an error. Fetches are not retried.
	ErrFetch = errors.New("syncer: fetch failed")
)

// Default preview policy. Players with more games of a type than the
// threshold get a bounded first sync instead of their whole history.
const (
	DefaultPreviewThreshold = 1000
	DefaultPreviewSize      = 200
	DefaultConcurrency      = 3
)

// Status is the outcome of a sync.
type Status int

const (
	// StatusOK means the stored collection is current and non-empty.
	StatusOK Status = iota
	// StatusEmpty means nothing is stored for the key after the sync.
	StatusEmpty
	// StatusDegraded means the store failed; Result.Games holds only the
	// fetched batch.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusDegraded:
		return "degraded"
	}
	return "unknown"
}

// SyncOptions bound a single sync.
type SyncOptions struct {
	// Max caps the fetch. Zero applies the preview policy on first sync.
	Max int
	// Until bounds the fetch, zero for now.
	Until time.Time
	// Full ignores the watermark and refetches everything. Merge still
	// drops games already stored.
	Full bool
}

// Result is the outcome of syncing one key.
type Result struct {
	Key    store.Key
	Status Status
	// Games is the full stored collection, or the fetched batch when
	// Status is StatusDegraded.
	Games []game.Record
	// Fetched counts records parsed from the server response.
	Fetched int
	// Dropped counts blocks the parser rejected.
	Dropped int
	Added   int
	// Preview reports that the fetch was bounded by the preview policy.
	Preview   bool
	Watermark time.Time
}

// Syncer fetches, parses and merges games into a store.
type Syncer struct {
	store   store.Store
	fetcher Fetcher
	parser  *pgn.Parser
	logger  *zap.Logger
	stats   stats.Collector
	locks   *keyLocks

	previewThreshold int
	previewSize      int
	concurrency      int
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithStats sets the stats collector.
func WithStats(collector stats.Collector) Option {
	return func(s *Syncer) {
		s.stats = collector
	}
}

// WithPreview sets the preview policy. A threshold of zero or less
// disables previews.
func WithPreview(threshold, size int) Option {
	return func(s *Syncer) {
		s.previewThreshold = threshold
		s.previewSize = size
	}
}

// WithConcurrency sets how many game types SyncAll fetches at once.
func WithConcurrency(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Syncer over st that fetches with f.
func New(st store.Store, f Fetcher, opts ...Option) *Syncer {
	s := &Syncer{
		store:            st,
		fetcher:          f,
		logger:           zap.NewNop(),
		stats:            stats.NewNoop(),
		locks:            newKeyLocks(),
		previewThreshold: DefaultPreviewThreshold,
		previewSize:      DefaultPreviewSize,
		concurrency:      DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("syncer")
	s.parser = pgn.NewParser(s.logger, s.stats)
	return s
}

// Sync brings the collection under key up to date. Fetch failures
// return ErrFetch and no result. Store failures return a degraded
// result holding the fetched games together with ErrStoreUnavailable.
func (s *Syncer) Sync(ctx context.Context, key store.Key, opts SyncOptions) (*Result, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	s.stats.IncCounter(stats.MetricSyncs, 1)
	logger := s.logger.With(zap.Stringer("key", key))

	req := FetchRequest{
		Player:   key.Player,
		GameType: key.GameType,
		Until:    opts.Until,
		Max:      opts.Max,
	}

	var storeErr error
	if !opts.Full {
		watermark, err := s.store.Watermark(ctx, key)
		switch {
		case err == nil:
			req.Since = watermark
		case errors.Is(err, store.ErrNotFound):
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			storeErr = unavailable("reading watermark", err)
			logger.Warn("store unavailable, fetching without watermark", zap.Error(err))
		}
	}

	var preview bool
	if req.Since.IsZero() && req.Max == 0 && s.previewThreshold > 0 {
		account, err := s.fetcher.FetchAccount(ctx, key.Player)
		if err != nil {
			s.stats.IncCounter(stats.MetricSyncErrors, 1)
			return nil, fmt.Errorf("%w: account %s: %w", ErrFetch, key.Player, err)
		}
		if n := account.Counts[key.GameType]; n > s.previewThreshold {
			req.Max = s.previewSize
			preview = true
			logger.Info("large history, fetching preview",
				zap.Int("games", n),
				zap.Int("max", req.Max),
			)
		}
	}

	start := time.Now()
	raw, err := s.fetcher.FetchGames(ctx, req)
	s.stats.ObserveHistogram(stats.MetricFetchDuration, time.Since(start).Seconds())
	if err != nil {
		s.stats.IncCounter(stats.MetricSyncErrors, 1)
		return nil, fmt.Errorf("%w: games %s: %w", ErrFetch, key, err)
	}

	batch := s.parser.Parse(raw)
	res := &Result{
		Key:     key,
		Fetched: len(batch.Records),
		Dropped: batch.Dropped,
		Preview: preview,
	}

	degrade := func(err error) (*Result, error) {
		s.stats.IncCounter(stats.MetricSyncErrors, 1)
		res.Status = StatusDegraded
		res.Games = batch.Records
		res.Watermark = Newest(batch.Records)
		return res, err
	}
	if storeErr != nil {
		return degrade(storeErr)
	}

	merged, all, err := s.merge(ctx, key, batch.Records)
	if err != nil {
		if !errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		logger.Warn("store unavailable, returning fetched games", zap.Error(err))
		return degrade(err)
	}

	res.Games = all
	res.Added = merged.Added
	res.Watermark = merged.Watermark
	if len(all) == 0 {
		res.Status = StatusEmpty
	}

	logger.Info("synced",
		zap.Stringer("status", res.Status),
		zap.Int("fetched", res.Fetched),
		zap.Int("dropped", res.Dropped),
		zap.Int("added", res.Added),
		zap.Int("total", len(all)),
	)
	return res, nil
}

// SyncAll syncs several game types of one player concurrently. Results
// follow the order of types. A failing type does not stop the others;
// their errors are joined.
func (s *Syncer) SyncAll(ctx context.Context, player string, types []game.Type, opts SyncOptions) ([]*Result, error) {
	results := make([]*Result, len(types))
	errs := make([]error, len(types))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, t := range types {
		g.Go(func() error {
			results[i], errs[i] = s.Sync(ctx, store.NewKey(player, t), opts)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

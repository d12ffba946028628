package repertoire

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/diskstore"
	"github.com/discochess/repertoire/internal/syncer"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store            store.Store
	fetcher          syncer.Fetcher
	catalog          *catalog.Catalog
	scheme           game.Scheme
	previewThreshold int
	previewSize      int
	concurrency      int
	now              func() time.Time
	stats            stats.Collector
	logger           *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		scheme:           game.DefaultScheme,
		previewThreshold: syncer.DefaultPreviewThreshold,
		previewSize:      syncer.DefaultPreviewSize,
		concurrency:      syncer.DefaultConcurrency,
		now:              time.Now,
		stats:            stats.NewNoop(),
		logger:           zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the storage backend to use.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithFetcher sets where games are synced from. Without one the client
// can only analyze stored games.
func WithFetcher(f syncer.Fetcher) Option {
	return optionFunc(func(o *options) {
		o.fetcher = f
	})
}

// WithCatalog sets the opening catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return optionFunc(func(o *options) {
		o.catalog = c
	})
}

// WithScheme sets the points awarded per result.
// Default is game.DefaultScheme.
func WithScheme(s game.Scheme) Option {
	return optionFunc(func(o *options) {
		o.scheme = s
	})
}

// WithPreview sets how large a history must be before the first sync
// fetches only size games. A threshold of zero disables previews.
func WithPreview(threshold, size int) Option {
	return optionFunc(func(o *options) {
		o.previewThreshold = threshold
		o.previewSize = size
	})
}

// WithConcurrency sets how many game types SyncAll fetches at once.
func WithConcurrency(n int) Option {
	return optionFunc(func(o *options) {
		o.concurrency = n
	})
}

// WithClock sets the time source used by recency filters.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(o *options) {
		o.now = now
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithDataDir stores games under dir as zstd-compressed JSONL.
// This is the recommended way to create a client for local use.
func WithDataDir(dir string) (Option, error) {
	st, err := diskstore.New(dir, codec.Zstd())
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return WithStore(st), nil
}

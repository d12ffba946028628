// Package diskrepertoirefx provides an fx module for a disk-backed
// repertoire client that syncs from Lichess.
package diskrepertoirefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/lichess"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/stats/logger"
	"github.com/discochess/repertoire/internal/store/cachedstore"
	"github.com/discochess/repertoire/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/repertoire/internal/store/cachedstore/memory"
	"github.com/discochess/repertoire/internal/store/diskstore"
)

// Config holds configuration for the disk-backed client.
type Config struct {
	// DataDir is the directory synced games are stored in.
	DataDir string

	// Token is an optional Lichess API token.
	Token string

	// CacheSize is the number of collections to cache in memory.
	// Default is 16.
	CacheSize int
}

// Module provides a disk-backed repertoire client.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("diskrepertoire",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("repertoire.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *repertoire.Client
}

func newClient(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = 16
	}

	baseStore, err := diskstore.New(p.Config.DataDir, codec.Zstd())
	if err != nil {
		return Result{}, err
	}

	lruStrategy, err := lru.New(cacheSize)
	if err != nil {
		return Result{}, err
	}

	st := cachedstore.New(baseStore, memory.New(lruStrategy, p.Collector))

	client, err := repertoire.New(
		repertoire.WithStore(st),
		repertoire.WithFetcher(lichess.New(
			lichess.WithToken(p.Config.Token),
			lichess.WithLogger(p.Logger),
		)),
		repertoire.WithStats(p.Collector),
		repertoire.WithLogger(p.Logger.Named("repertoire")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}

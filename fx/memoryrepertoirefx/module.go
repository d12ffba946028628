// Package memoryrepertoirefx provides an fx module for an in-memory
// repertoire client. Useful for testing.
package memoryrepertoirefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/stats/logger"
	"github.com/discochess/repertoire/internal/store/memstore"
	"github.com/discochess/repertoire/internal/syncer"
)

// Module provides an in-memory repertoire client for testing.
// Requires a *zap.Logger to be provided. A syncer.Fetcher is used when
// one is provided.
var Module = fx.Module("memoryrepertoire",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("repertoire.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Fetcher   syncer.Fetcher `optional:"true"`
	Lifecycle fx.Lifecycle
}

// Result holds the provided client and store.
type Result struct {
	fx.Out

	Client *repertoire.Client
	Store  *memstore.Store // Exposed for test setup
}

func newClient(p Params) (Result, error) {
	opts := []repertoire.Option{
		repertoire.WithStore(p.Store),
		repertoire.WithStats(p.Collector),
		repertoire.WithLogger(p.Logger.Named("repertoire")),
	}
	if p.Fetcher != nil {
		opts = append(opts, repertoire.WithFetcher(p.Fetcher))
	}

	client, err := repertoire.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{
		Client: client,
		Store:  p.Store,
	}, nil
}

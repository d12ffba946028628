package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/config"
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/lichess"
	"github.com/discochess/repertoire/internal/stats"
	statslogger "github.com/discochess/repertoire/internal/stats/logger"
	statsprom "github.com/discochess/repertoire/internal/stats/prometheus"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/cachedstore"
	"github.com/discochess/repertoire/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/repertoire/internal/store/cachedstore/memory"
	"github.com/discochess/repertoire/internal/store/diskstore"
	"github.com/discochess/repertoire/internal/store/gcsstore"
	"github.com/discochess/repertoire/internal/store/memstore"
	"github.com/discochess/repertoire/internal/store/s3store"
	"github.com/discochess/repertoire/internal/store/sqlitestore"
)

// nowFunc is the clock used by recency filters.
var nowFunc = time.Now

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	client *repertoire.Client
	store  store.Store
	logger *zap.Logger
	stop   func()
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// setup loads the configuration and builds a client. Callers must call
// close when done.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storeName != "" {
		cfg.Store.Backend = storeName
	}
	if dataDir != "" {
		cfg.Store.Path = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, stop: func() {}}
	collector := a.newCollector()

	st, err := openStore(ctx, cfg.Store, collector)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.store = st

	interval, _ := cfg.Sync.Interval()
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	fetcher := lichess.New(
		lichess.WithBaseURL(cfg.Sync.BaseURL),
		lichess.WithToken(cfg.Sync.Token),
		lichess.WithRateLimit(limit, 1),
		lichess.WithLogger(logger),
	)

	a.client, err = repertoire.New(
		repertoire.WithStore(st),
		repertoire.WithFetcher(fetcher),
		repertoire.WithScheme(cfg.Scoring),
		repertoire.WithPreview(cfg.Sync.PreviewThreshold, cfg.Sync.PreviewSize),
		repertoire.WithConcurrency(cfg.Sync.Concurrency),
		repertoire.WithStats(collector),
		repertoire.WithLogger(logger),
	)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	a.client.Close()
	a.stop()
	a.logger.Sync()
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// newCollector picks where metrics go: Prometheus when an address is
// given, the log when verbose, nowhere otherwise.
func (a *app) newCollector() stats.Collector {
	switch {
	case metricsAddr != "":
		registry := prometheus.NewRegistry()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		a.stop = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}
		a.logger.Info("serving metrics", zap.String("addr", metricsAddr))
		return statsprom.New(registry)
	case verbose:
		return statslogger.New(a.logger)
	}
	return stats.NewNoop()
}

func openStore(ctx context.Context, cfg config.StoreConfig, collector stats.Collector) (store.Store, error) {
	c, err := codec.Lookup(cfg.Codec)
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch cfg.Backend {
	case config.BackendMemory:
		return memstore.New(), nil
	case config.BackendDisk:
		st, err = diskstore.New(cfg.Path, c)
	case config.BackendSQLite:
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "games.db")
		}
		st, err = sqlitestore.Open(ctx, path)
	case config.BackendS3:
		opts := []s3store.Option{s3store.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(cfg.Endpoint))
		}
		st, err = s3store.New(ctx, cfg.Bucket, c, opts...)
	case config.BackendGCS:
		var opts []gcsstore.Option
		if cfg.CredentialsFile != "" {
			opts = append(opts, gcsstore.WithCredentialsFile(cfg.CredentialsFile))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, gcsstore.WithEndpoint(cfg.Endpoint))
		}
		st, err = gcsstore.New(ctx, cfg.Bucket, c, opts...)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize > 0 {
		strategy, err := lru.New(cfg.CacheSize)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("creating LRU strategy: %w", err)
		}
		st = cachedstore.New(st, memory.New(strategy, collector))
	}
	return st, nil
}

// parseTypes parses --type values. "every" expands to bullet, blitz and
// rapid.
func parseTypes(values []string) ([]game.Type, error) {
	var types []game.Type
	for _, v := range values {
		if v == "every" {
			types = append(types, game.Bullet, game.Blitz, game.Rapid)
			continue
		}
		t, ok := game.ParseType(v)
		if !ok {
			return nil, fmt.Errorf("unknown game type %q", v)
		}
		types = append(types, t)
	}
	return types, nil
}

func parseType(v string) (game.Type, error) {
	t, ok := game.ParseType(v)
	if !ok {
		return "", fmt.Errorf("unknown game type %q", v)
	}
	return t, nil
}

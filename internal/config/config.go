// Package config loads the command-line configuration file and the
// saved report preferences.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/game"
)

// EnvToken overrides the Lichess token from the file.
const EnvToken = "LICHESS_TOKEN"

// Store backends.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendGCS    = "gcs"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the contents of the configuration file.
type Config struct {
	Store   StoreConfig `toml:"store"`
	Sync    SyncConfig  `toml:"sync"`
	Scoring game.Scheme `toml:"scoring"`
	Log     LogConfig   `toml:"log"`
}

// StoreConfig selects where synced games live.
type StoreConfig struct {
	Backend string `toml:"backend"`
	// Path is the data directory for disk, or the database file for sqlite.
	Path  string `toml:"path"`
	Codec string `toml:"codec"`
	// Bucket is the bucket name for s3, or a gs:// URL for gcs.
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	CredentialsFile string `toml:"credentials_file"`
	// CacheSize is how many collections to keep in memory, 0 to disable.
	CacheSize int `toml:"cache_size"`
}

// SyncConfig controls fetching from Lichess.
type SyncConfig struct {
	BaseURL          string `toml:"base_url"`
	Token            string `toml:"token"`
	RateInterval     string `toml:"rate_interval"` // e.g. "1s"
	PreviewThreshold int    `toml:"preview_threshold"`
	PreviewSize      int    `toml:"preview_size"`
	Concurrency      int    `toml:"concurrency"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   BackendDisk,
			Path:      filepath.Join(DefaultDir(), "data"),
			Codec:     codec.NameZstd,
			CacheSize: 16,
		},
		Sync: SyncConfig{
			BaseURL:          "https://lichess.org",
			RateInterval:     "1s",
			PreviewThreshold: 1000,
			PreviewSize:      200,
			Concurrency:      3,
		},
		Scoring: game.DefaultScheme,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".repertoire"
	}
	return filepath.Join(dir, "repertoire")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load reads path over the defaults. A missing file yields the defaults.
// The token environment variable wins over the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if token := os.Getenv(EnvToken); token != "" {
		cfg.Sync.Token = token
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendDisk, BackendSQLite:
	case BackendS3, BackendGCS:
		if c.Store.Bucket == "" {
			return fmt.Errorf("%w: store backend %q needs a bucket", ErrInvalid, c.Store.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}
	if _, err := codec.Lookup(c.Store.Codec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Store.CacheSize < 0 {
		return fmt.Errorf("%w: cache size cannot be negative: %d", ErrInvalid, c.Store.CacheSize)
	}
	if _, err := c.Sync.Interval(); err != nil {
		return fmt.Errorf("%w: rate interval %q: %w", ErrInvalid, c.Sync.RateInterval, err)
	}
	if c.Sync.PreviewSize < 0 || c.Sync.Concurrency < 0 {
		return fmt.Errorf("%w: sync sizes cannot be negative", ErrInvalid)
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// Interval returns the minimum time between requests.
func (s SyncConfig) Interval() (time.Duration, error) {
	if s.RateInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(s.RateInterval)
}

// ZapLevel parses Level.
func (l LogConfig) ZapLevel() (zapcore.Level, error) {
	if l.Level == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(l.Level)
}

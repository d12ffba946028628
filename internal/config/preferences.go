package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/discochess/repertoire/internal/aggregate"
	"github.com/discochess/repertoire/internal/filter"
)

// Preferences are the report settings remembered between runs.
type Preferences struct {
	Sort   aggregate.Sort `toml:"sort"`
	Filter filter.Filter  `toml:"filter"`
}

// DefaultPreferences sorts by most played with no filtering.
func DefaultPreferences() Preferences {
	return Preferences{
		Sort:   aggregate.MostPlayed,
		Filter: filter.Default(),
	}
}

// DefaultPreferencesPath returns where preferences are saved.
func DefaultPreferencesPath() string {
	return filepath.Join(DefaultDir(), "preferences.toml")
}

// LoadPreferences reads path. A missing file yields the defaults.
func LoadPreferences(path string) (Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := toml.DecodeFile(path, &prefs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("parse preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences writes prefs to path, replacing it atomically.
func SavePreferences(path string, prefs Preferences) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(prefs); err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close preferences: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

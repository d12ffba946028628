// Package blobstore implements store.Store over any object bucket.
//
// Each collection is one JSON Lines object compressed with a codec, at
// "<prefix>games/<player>/<type>.jsonl[.ext]". Each watermark is an
// RFC 3339 text object at "<prefix>watermarks/<player>/<type>".
package blobstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

// Bucket is a flat namespace of named objects.
type Bucket interface {
	// Get returns the object called name, or store.ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put creates or replaces the object called name.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes the object called name. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of all objects starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Close releases any resources held by the bucket.
	Close() error
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store keeps collections as compressed objects in a bucket.
type Store struct {
	bucket Bucket
	codec  codec.Codec
	prefix string

	// mu serializes read-modify-write cycles on collection objects.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a name prefix for every object.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = NormalizePrefix(prefix)
	}
}

// NormalizePrefix returns prefix with exactly one trailing slash, or ""
// for an empty prefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// New creates a store over bucket. A nil codec stores uncompressed data.
func New(bucket Bucket, c codec.Codec, opts ...Option) *Store {
	if c == nil {
		c = codec.None()
	}
	s := &Store{bucket: bucket, codec: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GamesName returns the object name of the collection under key.
func (s *Store) GamesName(key store.Key) string {
	name := s.prefix + "games/" + key.String() + ".jsonl"
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return name
}

// WatermarkName returns the object name of the watermark under key.
func (s *Store) WatermarkName(key store.Key) string {
	return s.prefix + "watermarks/" + key.String()
}

// Load reads and decodes the collection under key.
func (s *Store) Load(ctx context.Context, key store.Key) ([]game.Record, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	raw, err := s.read(ctx, key)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// Append adds records to the end of the collection under key.
func (s *Store) Append(ctx context.Context, key store.Key, records []game.Record) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read(ctx, key)
	if err != nil {
		return err
	}
	buf := bytes.NewBuffer(raw)
	if err := encode(buf, records); err != nil {
		return err
	}

	var compressed bytes.Buffer
	w, err := s.codec.Writer(&compressed)
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		w.Close()
		return fmt.Errorf("compressing records: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compressing records: %w", err)
	}

	if err := s.bucket.Put(ctx, s.GamesName(key), compressed.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", s.GamesName(key), err)
	}
	return nil
}

// Clear deletes the collection and watermark objects under key.
func (s *Store) Clear(ctx context.Context, key store.Key) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{s.GamesName(key), s.WatermarkName(key)} {
		if err := s.bucket.Delete(ctx, name); err != nil {
			return fmt.Errorf("deleting %s: %w", name, err)
		}
	}
	return nil
}

// Watermark reads the watermark under key.
func (s *Store) Watermark(ctx context.Context, key store.Key) (time.Time, error) {
	if err := store.CheckContext(ctx); err != nil {
		return time.Time{}, err
	}
	data, err := s.bucket.Get(ctx, s.WatermarkName(key))
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark %s: %w", key, err)
	}
	return t, nil
}

// SetWatermark writes the watermark under key.
func (s *Store) SetWatermark(ctx context.Context, key store.Key, t time.Time) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	data := []byte(t.UTC().Format(time.RFC3339))
	if err := s.bucket.Put(ctx, s.WatermarkName(key), data); err != nil {
		return fmt.Errorf("writing watermark %s: %w", key, err)
	}
	return nil
}

// Keys returns every key with a stored collection, sorted.
func (s *Store) Keys(ctx context.Context) ([]store.Key, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	root := s.prefix + "games/"
	names, err := s.bucket.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	var keys []store.Key
	for _, name := range names {
		rest := strings.TrimPrefix(name, root)
		player, file, ok := strings.Cut(rest, "/")
		if !ok {
			continue
		}
		gameType, _, _ := strings.Cut(file, ".")
		keys = append(keys, store.Key{Player: player, GameType: game.Type(gameType)})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys, nil
}

// Close closes the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// read returns the decompressed collection under key, or nil when the
// collection does not exist yet.
func (s *Store) read(ctx context.Context, key store.Key) ([]byte, error) {
	compressed, err := s.bucket.Get(ctx, s.GamesName(key))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.GamesName(key), err)
	}

	r, err := s.codec.Reader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", s.GamesName(key), err)
	}
	return data, nil
}

func encode(w io.Writer, records []game.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(store.ToRow(r)); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}
	return nil
}

func decode(data []byte) ([]game.Record, error) {
	records := []game.Record{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	// Long games with clock comments exceed the default line limit.
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var row store.Row
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, store.FromRow(row))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

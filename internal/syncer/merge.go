package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/store"
)

// MergeResult describes one merge.
type MergeResult struct {
	// Added is the number of records appended.
	Added int
	// Total is the size of the stored collection after the merge.
	Total int
	// Watermark is the newest stored game date, zero if none is known.
	Watermark time.Time
}

// Merge adds the records of batch that are not already stored under
// key. Records are the same game when their Key matches, so merging the
// same batch twice adds nothing the second time.
func (s *Syncer) Merge(ctx context.Context, key store.Key, batch []game.Record) (MergeResult, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	res, _, err := s.merge(ctx, key, batch)
	return res, err
}

// merge must be called with the key lock held. It returns the stored
// collection after the merge.
func (s *Syncer) merge(ctx context.Context, key store.Key, batch []game.Record) (MergeResult, []game.Record, error) {
	if err := store.CheckContext(ctx); err != nil {
		return MergeResult{}, nil, err
	}

	stored, err := s.store.Load(ctx, key)
	if err != nil {
		return MergeResult{}, nil, unavailable("loading stored games", err)
	}

	seen := make(map[game.Key]struct{}, len(stored)+len(batch))
	for _, r := range stored {
		seen[r.Key()] = struct{}{}
	}

	var fresh []game.Record
	for _, r := range batch {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, r)
	}
	duplicates := len(batch) - len(fresh)

	watermark, err := s.store.Watermark(ctx, key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return MergeResult{}, nil, unavailable("reading watermark", err)
	}

	if len(fresh) > 0 {
		if err := s.store.Append(ctx, key, fresh); err != nil {
			return MergeResult{}, nil, unavailable("appending games", err)
		}
		if newest := Newest(fresh); newest.After(watermark) {
			if err := s.store.SetWatermark(ctx, key, newest); err != nil {
				return MergeResult{}, nil, unavailable("advancing watermark", err)
			}
			watermark = newest
		}
	}

	all := append(stored, fresh...)
	s.stats.IncCounter(stats.MetricMergeAdded, int64(len(fresh)))
	s.stats.IncCounter(stats.MetricMergeDuplicate, int64(duplicates))
	s.stats.SetGauge(stats.MetricStoredGames, int64(len(all)))
	s.logger.Debug("merged batch",
		zap.Stringer("key", key),
		zap.Int("added", len(fresh)),
		zap.Int("duplicates", duplicates),
		zap.Int("total", len(all)),
	)

	return MergeResult{Added: len(fresh), Total: len(all), Watermark: watermark}, all, nil
}

// Newest returns the latest valid date among records, or the zero time.
func Newest(records []game.Record) time.Time {
	var newest time.Time
	for _, r := range records {
		if t, ok := r.ValidDate(); ok && t.After(newest) {
			newest = t
		}
	}
	return newest
}

func unavailable(doing string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, doing, err)
}

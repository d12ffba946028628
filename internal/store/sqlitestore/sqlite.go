// Package sqlitestore keeps collections in a SQLite database. The schema
// is managed by embedded migrations, and duplicate games are rejected by
// a uniqueness constraint on (player, game_type, date, pgn).
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store is a SQLite-backed store.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
}

// Open opens the database at path, creating it and applying migrations
// as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	if err := Migrate(path); err != nil {
		return nil, err
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the records under key in insertion order.
func (s *Store) Load(ctx context.Context, key store.Key) ([]game.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT event, date, white, black, result, termination, opening, eco, pgn, site
		FROM games
		WHERE player = ? AND game_type = ?
		ORDER BY id`,
		key.Player, string(key.GameType),
	)
	if err != nil {
		return nil, mapErr("querying games", err)
	}
	defer rows.Close()

	records := []game.Record{}
	for rows.Next() {
		var r store.Row
		if err := rows.Scan(&r.Event, &r.Date, &r.White, &r.Black, &r.Result,
			&r.Termination, &r.Opening, &r.ECO, &r.PGN, &r.Site); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		records = append(records, store.FromRow(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}
	return records, nil
}

// Append inserts records in one transaction. Rows that repeat a stored
// (date, pgn) pair for the key are ignored.
func (s *Store) Append(ctx context.Context, key store.Key, records []game.Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("beginning transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO games
			(player, game_type, event, date, white, black, result, termination, opening, eco, pgn, site)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		r := store.ToRow(rec)
		if _, err := stmt.ExecContext(ctx, key.Player, string(key.GameType),
			r.Event, r.Date, r.White, r.Black, r.Result, r.Termination, r.Opening, r.ECO, r.PGN, r.Site); err != nil {
			return fmt.Errorf("inserting game: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing games: %w", err)
	}
	return nil
}

// Clear deletes the games and watermark under key.
func (s *Store) Clear(ctx context.Context, key store.Key) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("beginning transaction", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM games WHERE player = ? AND game_type = ?`,
		`DELETE FROM watermarks WHERE player = ? AND game_type = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, key.Player, string(key.GameType)); err != nil {
			return fmt.Errorf("clearing %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Watermark returns the watermark under key.
func (s *Store) Watermark(ctx context.Context, key store.Key) (time.Time, error) {
	if err := s.ready(ctx); err != nil {
		return time.Time{}, err
	}
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT watermark FROM watermarks WHERE player = ? AND game_type = ?`,
		key.Player, string(key.GameType),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, store.ErrNotFound
	}
	if err != nil {
		return time.Time{}, mapErr("querying watermark", err)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark %s: %w", key, err)
	}
	return t, nil
}

// SetWatermark upserts the watermark under key.
func (s *Store) SetWatermark(ctx context.Context, key store.Key, t time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watermarks (player, game_type, watermark, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (player, game_type)
		DO UPDATE SET watermark = excluded.watermark, updated_at = excluded.updated_at`,
		key.Player, string(key.GameType), t.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return mapErr("writing watermark", err)
	}
	return nil
}

// Keys returns every key with stored games.
func (s *Store) Keys(ctx context.Context) ([]store.Key, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT player, game_type FROM games ORDER BY player, game_type`)
	if err != nil {
		return nil, mapErr("querying keys", err)
	}
	defer rows.Close()

	var keys []store.Key
	for rows.Next() {
		var player, gameType string
		if err := rows.Scan(&player, &gameType); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, store.Key{Player: player, GameType: game.Type(gameType)})
	}
	return keys, rows.Err()
}

// Close closes the database. Later calls fail with store.ErrClosed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	if s.closed.Load() {
		return store.ErrClosed
	}
	return nil
}

// mapErr passes context errors through and wraps the rest.
func mapErr(doing string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s: %w", doing, err)
}

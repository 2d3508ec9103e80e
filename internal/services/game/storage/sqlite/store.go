// Package sqlite implements storage.GameStore on an embedded SQLite database.
//
// The schema is applied from embedded migrations when the store opens.
// Timestamps are stored as UTC milliseconds.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/chesstactoe/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
	"github.com/louisbranch/chesstactoe/internal/services/game/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Store provides a SQLite-backed game store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", clean+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutGame upserts a game record.
func (s *Store) PutGame(ctx context.Context, r storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	histories, err := encodeHistories(r.Histories)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO games (id, white_id, black_id, meta_fen, histories, last_move, seq, outcome, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    meta_fen   = excluded.meta_fen,
    histories  = excluded.histories,
    last_move  = excluded.last_move,
    seq        = excluded.seq,
    outcome    = excluded.outcome,
    updated_at = excluded.updated_at`,
		r.ID, r.White, r.Black, r.MetaFEN, histories, r.LastMove, int64(r.Seq), r.Outcome,
		toMillis(r.CreatedAt), toMillis(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put game %s: %w", r.ID, err)
	}
	return nil
}

// GetGame fetches a game record by ID.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	row := s.db.QueryRowContext(ctx, selectGames+` WHERE id = ?`, id)
	r, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return r, nil
}

// ListGames returns every game ordered by creation time.
func (s *Store) ListGames(ctx context.Context) ([]storage.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectGames+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var records []storage.GameRecord
	for rows.Next() {
		r, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return records, nil
}

const selectGames = `SELECT id, white_id, black_id, meta_fen, histories, last_move, seq, outcome, created_at, updated_at FROM games`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (storage.GameRecord, error) {
	var (
		r                storage.GameRecord
		histories        string
		seq              int64
		created, updated int64
	)
	if err := row.Scan(&r.ID, &r.White, &r.Black, &r.MetaFEN, &histories, &r.LastMove, &seq, &r.Outcome, &created, &updated); err != nil {
		return storage.GameRecord{}, err
	}
	if err := json.Unmarshal([]byte(histories), &r.Histories); err != nil {
		return storage.GameRecord{}, fmt.Errorf("decode histories of %s: %w", r.ID, err)
	}
	if len(r.Histories) == 0 {
		r.Histories = nil
	}
	r.Seq = uint64(seq)
	r.CreatedAt = fromMillis(created)
	r.UpdatedAt = fromMillis(updated)
	return r, nil
}

func encodeHistories(histories [][]string) (string, error) {
	if histories == nil {
		return "[]", nil
	}
	data, err := json.Marshal(histories)
	if err != nil {
		return "", fmt.Errorf("encode histories: %w", err)
	}
	return string(data), nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Package bbolt stores game records as JSON values in a BoltDB file.
package bbolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
	"go.etcd.io/bbolt"
)

const gamesBucket = "games"

var errNotConfigured = errors.New("storage is not configured")

// Store provides a BoltDB-backed game store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(gamesBucket)); err != nil {
			return fmt.Errorf("create %s bucket: %w", gamesBucket, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutGame persists a game record, replacing any previous version.
func (s *Store) PutGame(ctx context.Context, record storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	if err := record.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(gamesBucket)).Put([]byte(record.ID), payload)
	})
}

// GetGame fetches a game record by ID.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.db == nil {
		return storage.GameRecord{}, errNotConfigured
	}

	var record storage.GameRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(gamesBucket)).Get([]byte(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal game %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return storage.GameRecord{}, err
	}
	return record, nil
}

// ListGames returns every stored game ordered by creation time.
func (s *Store) ListGames(ctx context.Context) ([]storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}

	var records []storage.GameRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(gamesBucket)).ForEach(func(k, v []byte) error {
			var record storage.GameRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshal game %s: %w", k, err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(records, func(a, b storage.GameRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return records, nil
}

// Package memory keeps game records in process memory.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
)

// Store is a map-backed GameStore.
type Store struct {
	mu    sync.RWMutex
	games map[string]storage.GameRecord
}

// New returns an empty store.
func New() *Store {
	return &Store{games: make(map[string]storage.GameRecord)}
}

// PutGame implements storage.GameStore.
func (s *Store) PutGame(ctx context.Context, record storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[record.ID] = record
	return nil
}

// GetGame implements storage.GameStore.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.games[id]
	if !ok {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	return record, nil
}

// ListGames implements storage.GameStore.
func (s *Store) ListGames(ctx context.Context) ([]storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	records := make([]storage.GameRecord, 0, len(s.games))
	for _, record := range s.games {
		records = append(records, record)
	}
	s.mu.RUnlock()
	slices.SortFunc(records, compareCreated)
	return records, nil
}

// Close implements storage.GameStore.
func (s *Store) Close() error { return nil }

func compareCreated(a, b storage.GameRecord) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

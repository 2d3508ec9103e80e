package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
	storagebbolt "github.com/louisbranch/chesstactoe/internal/services/game/storage/bbolt"
	storagememory "github.com/louisbranch/chesstactoe/internal/services/game/storage/memory"
	storagesqlite "github.com/louisbranch/chesstactoe/internal/services/game/storage/sqlite"
)

// Store kinds accepted by Config.Store.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bbolt"
	StoreMemory = "memory"
)

// ValidateStoreKind reports whether kind names a supported store.
func ValidateStoreKind(kind string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case StoreSQLite, StoreBolt, StoreMemory:
		return nil
	default:
		return fmt.Errorf("unknown store %q: want %s, %s or %s", kind, StoreSQLite, StoreBolt, StoreMemory)
	}
}

func openStore(ctx context.Context, kind, path string) (storage.GameStore, error) {
	if err := ValidateStoreKind(kind); err != nil {
		return nil, err
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == StoreMemory {
		return storagememory.New(), nil
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "chesstactoe.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	switch kind {
	case StoreBolt:
		store, err := storagebbolt.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bbolt store: %w", err)
		}
		return store, nil
	default:
		store, err := storagesqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	}
}

// Package storagetest holds behavior tests shared by every GameStore backend.
package storagetest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
)

// Open returns a fresh, empty store for one subtest.
type Open func(t *testing.T) storage.GameStore

// Record returns a valid record with the given id created at the given
// offset from a fixed base time.
func Record(id string, offset time.Duration) storage.GameRecord {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset)
	return storage.GameRecord{
		ID:        id,
		White:     "white-" + id,
		Black:     "black-" + id,
		MetaFEN:   "meta-" + id,
		Seq:       1,
		Outcome:   "undecided",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Run exercises open against the GameStore contract.
func Run(t *testing.T, open Open) {
	t.Run("put and get", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		want := Record("g1", 0)
		want.LastMove = "4 e2e4"
		want.Histories = [][]string{{"8/8/8/8/8/8/8/4K3"}, {"a", "b"}}
		if err := store.PutGame(ctx, want); err != nil {
			t.Fatalf("put: %v", err)
		}
		got, err := store.GetGame(ctx, "g1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		assertEqual(t, got, want)
	})

	t.Run("put replaces", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		first := Record("g1", 0)
		if err := store.PutGame(ctx, first); err != nil {
			t.Fatalf("put: %v", err)
		}
		second := first
		second.Seq = 7
		second.MetaFEN = "later"
		second.UpdatedAt = first.UpdatedAt.Add(time.Minute)
		if err := store.PutGame(ctx, second); err != nil {
			t.Fatalf("put again: %v", err)
		}
		got, err := store.GetGame(ctx, "g1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		assertEqual(t, got, second)
	})

	t.Run("get missing", func(t *testing.T) {
		store := open(t)
		if _, err := store.GetGame(context.Background(), "absent"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list ordered by creation", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		for _, r := range []storage.GameRecord{
			Record("c", 2*time.Minute),
			Record("a", 0),
			Record("b", time.Minute),
		} {
			if err := store.PutGame(ctx, r); err != nil {
				t.Fatalf("put %s: %v", r.ID, err)
			}
		}
		records, err := store.ListGames(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("len = %d, want 3", len(records))
		}
		for i, id := range []string{"a", "b", "c"} {
			if records[i].ID != id {
				t.Fatalf("records[%d] = %s, want %s", i, records[i].ID, id)
			}
		}
	})

	t.Run("list empty", func(t *testing.T) {
		store := open(t)
		records, err := store.ListGames(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(records) != 0 {
			t.Fatalf("len = %d, want 0", len(records))
		}
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		store := open(t)
		bad := Record("g1", 0)
		bad.Black = ""
		if err := store.PutGame(context.Background(), bad); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		store := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := store.PutGame(ctx, Record("g1", 0)); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}

func assertEqual(t *testing.T, got, want storage.GameRecord) {
	t.Helper()
	if got.ID != want.ID || got.White != want.White || got.Black != want.Black ||
		got.MetaFEN != want.MetaFEN || got.LastMove != want.LastMove ||
		got.Seq != want.Seq || got.Outcome != want.Outcome {
		t.Fatalf("record = %+v, want %+v", got, want)
	}
	if len(got.Histories) != len(want.Histories) {
		t.Fatalf("histories = %v, want %v", got.Histories, want.Histories)
	}
	for i := range want.Histories {
		if strings.Join(got.Histories[i], "|") != strings.Join(want.Histories[i], "|") {
			t.Fatalf("histories[%d] = %v, want %v", i, got.Histories[i], want.Histories[i])
		}
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("timestamps = %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
}

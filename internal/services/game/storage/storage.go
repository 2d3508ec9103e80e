package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound indicates a requested game record is missing.
var ErrNotFound = errors.New("record not found")

// GameRecord is the persisted form of one game session.
type GameRecord struct {
	ID    string `json:"id"`
	White string `json:"white"`
	Black string `json:"black"`
	// MetaFEN holds the nine boards and the turn.
	MetaFEN string `json:"meta_fen"`
	// Histories holds each board's repetition history, row-major; FEN does
	// not carry it.
	Histories [][]string `json:"histories,omitempty"`
	LastMove  string     `json:"last_move,omitempty"`
	Seq       uint64     `json:"seq"`
	// Outcome is the tic-tac-toe result over the boards.
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields every backend requires.
func (r GameRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return errors.New("game id is required")
	case r.White == "" || r.Black == "":
		return fmt.Errorf("game %s: both players are required", r.ID)
	case r.MetaFEN == "":
		return fmt.Errorf("game %s: meta fen is required", r.ID)
	}
	return nil
}

// GameStore persists game records.
type GameStore interface {
	// PutGame inserts or replaces the record with the same ID.
	PutGame(ctx context.Context, record GameRecord) error
	GetGame(ctx context.Context, id string) (GameRecord, error)
	// ListGames returns every record ordered by creation time.
	ListGames(ctx context.Context) ([]GameRecord, error)
	Close() error
}

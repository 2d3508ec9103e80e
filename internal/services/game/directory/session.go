package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/louisbranch/chesstactoe/internal/platform/errors"
	"github.com/louisbranch/chesstactoe/internal/services/game/domain/chess"
	"github.com/louisbranch/chesstactoe/internal/services/game/domain/metagame"
	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BoardView is one board as seen in a snapshot.
type BoardView struct {
	// FEN carries the game turn as its active color.
	FEN     string
	Outcome chess.Outcome
}

// Snapshot is the full game state pushed to a subscriber.
type Snapshot struct {
	GameID string
	// Color is the recipient's color.
	Color  chess.Color
	Boards [metagame.Size * metagame.Size]BoardView
	Turn   chess.Color
	// LastMove is "<board> <alg>", empty before the first move.
	LastMove string
	Seq      uint64
	// Outcome scores the grid as tic-tac-toe.
	Outcome chess.Outcome
}

// Session is one paired game. Its game state is guarded by mu.
type Session struct {
	ID        string
	White     string
	Black     string
	CreatedAt time.Time

	mu        sync.Mutex
	game      *metagame.Game
	lastMove  string
	seq       uint64
	updatedAt time.Time
	subs      [2]*Outbox[Snapshot]
}

func (s *Session) colorOf(identity string) (chess.Color, bool) {
	switch identity {
	case s.White:
		return chess.White, true
	case s.Black:
		return chess.Black, true
	}
	return chess.White, false
}

// snapshot must be called with mu held.
func (s *Session) snapshot(color chess.Color) Snapshot {
	snap := Snapshot{
		GameID:   s.ID,
		Color:    color,
		Turn:     s.game.Turn,
		LastMove: s.lastMove,
		Seq:      s.seq,
		Outcome:  s.game.Outcome(),
	}
	for i := range snap.Boards {
		b := s.game.Boards[i/metagame.Size][i%metagame.Size]
		snap.Boards[i] = BoardView{FEN: chess.FormatFEN(b, s.game.Turn), Outcome: b.Outcome}
	}
	return snap
}

// record must be called with mu held.
func (s *Session) record() storage.GameRecord {
	histories := make([][]string, 0, metagame.Size*metagame.Size)
	for row := range metagame.Size {
		for col := range metagame.Size {
			histories = append(histories, append([]string(nil), s.game.Boards[row][col].History...))
		}
	}
	return storage.GameRecord{
		ID:        s.ID,
		White:     s.White,
		Black:     s.Black,
		MetaFEN:   s.game.FEN(),
		Histories: histories,
		LastMove:  s.lastMove,
		Seq:       s.seq,
		Outcome:   s.game.Outcome().String(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}

func sessionFromRecord(r storage.GameRecord) (*Session, error) {
	game, err := metagame.ParseFEN(r.MetaFEN)
	if err != nil {
		return nil, err
	}
	if len(r.Histories) > 0 {
		if len(r.Histories) != metagame.Size*metagame.Size {
			return nil, fmt.Errorf("%w: %d board histories", chess.ErrInvalidFormat, len(r.Histories))
		}
		for i, history := range r.Histories {
			if err := game.Boards[i/metagame.Size][i%metagame.Size].RestoreHistory(history); err != nil {
				return nil, fmt.Errorf("board %d: %w", i, err)
			}
		}
	}
	return &Session{
		ID:        r.ID,
		White:     r.White,
		Black:     r.Black,
		CreatedAt: r.CreatedAt,
		game:      game,
		lastMove:  r.LastMove,
		seq:       r.Seq,
		updatedAt: r.UpdatedAt,
	}, nil
}

// Subscription is an attached snapshot stream.
type Subscription struct {
	Color  chess.Color
	outbox *Outbox[Snapshot]
	detach func()
}

// Updates returns the snapshots for this subscription.
func (s *Subscription) Updates() <-chan Snapshot { return s.outbox.Updates() }

// Done is closed when the subscription is replaced or closed.
func (s *Subscription) Done() <-chan struct{} { return s.outbox.Done() }

// Close detaches the subscription from its session.
func (s *Subscription) Close() { s.detach() }

// Subscribe attaches a snapshot stream for identity and immediately queues
// one snapshot of the current state. A previous subscription for the same
// player is closed.
func (d *Directory) Subscribe(ctx context.Context, identity string) (*Subscription, error) {
	s, err := d.lookup(identity)
	if err != nil {
		return nil, err
	}
	color, ok := s.colorOf(identity)
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotPlayer, "identity is not a player of this game")
	}

	outbox := NewOutbox[Snapshot](d.cfg.StreamBuffer)
	s.mu.Lock()
	if previous := s.subs[color]; previous != nil {
		previous.Close()
	}
	s.subs[color] = outbox
	// The outbox is empty, so this send does not wait; holding mu keeps it
	// ahead of any broadcast.
	err = outbox.Send(ctx, s.snapshot(color), d.cfg.SendTimeout)
	if err != nil {
		s.subs[color] = nil
	}
	s.mu.Unlock()
	if err != nil {
		outbox.Close()
		return nil, err
	}
	d.cfg.Logger.Debug().Str("game_id", s.ID).Stringer("color", color).Msg("subscribed")

	return &Subscription{
		Color:  color,
		outbox: outbox,
		detach: func() {
			s.mu.Lock()
			if s.subs[color] == outbox {
				s.subs[color] = nil
			}
			s.mu.Unlock()
			outbox.Close()
		},
	}, nil
}

// Move plays alg on board (0..8, row-major) for identity. On success both
// subscribers receive a snapshot before Move returns.
func (d *Directory) Move(ctx context.Context, identity string, board int, alg string) (err error) {
	ctx, span := d.cfg.Tracer.Start(ctx, "directory.Move")
	span.SetAttributes(attribute.Int("chesstactoe.board", board), attribute.String("chesstactoe.alg", alg))
	defer func() {
		d.cfg.Metrics.RecordMove(err == nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	s, err := d.lookup(identity)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("chesstactoe.game_id", s.ID))

	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.colorOf(identity)
	if !ok {
		return apperrors.New(apperrors.CodeNotPlayer, "identity is not a player of this game")
	}
	if color != s.game.Turn {
		return apperrors.New(apperrors.CodeNotYourTurn, fmt.Sprintf("%s to move", s.game.Turn))
	}
	row, col, err := metagame.Coordinates(board)
	if err != nil {
		return moveError(err, board, alg)
	}
	if err := s.game.Execute(row, col, alg); err != nil {
		d.cfg.Logger.Debug().Err(err).Str("game_id", s.ID).Int("board", board).Str("alg", alg).Msg("move rejected")
		return moveError(err, board, alg)
	}

	s.lastMove = strconv.Itoa(board) + " " + alg
	s.seq++
	s.updatedAt = d.cfg.Now()
	d.persist(ctx, s)
	d.broadcast(context.WithoutCancel(ctx), s)
	return nil
}

// broadcast must be called with s.mu held.
func (d *Directory) broadcast(ctx context.Context, s *Session) {
	for _, color := range [2]chess.Color{chess.White, chess.Black} {
		outbox := s.subs[color]
		if outbox == nil {
			continue
		}
		if err := outbox.Send(ctx, s.snapshot(color), d.cfg.SendTimeout); err != nil {
			d.cfg.Metrics.RecordBroadcastFailure()
			d.cfg.Logger.Warn().Err(err).Str("game_id", s.ID).Stringer("color", color).Uint64("seq", s.seq).Msg("snapshot not delivered")
		}
	}
}

// persist must be called with s.mu held. Failures are logged only.
func (d *Directory) persist(ctx context.Context, s *Session) {
	if d.cfg.Store == nil {
		return
	}
	if err := d.cfg.Store.PutGame(context.WithoutCancel(ctx), s.record()); err != nil {
		d.cfg.Logger.Error().Err(err).Str("game_id", s.ID).Msg("persist game")
	}
}

func moveError(err error, board int, alg string) error {
	code := apperrors.CodeUnknown
	switch {
	case errors.Is(err, metagame.ErrInvalidCoordinates):
		code = apperrors.CodeInvalidCoordinates
	case errors.Is(err, chess.ErrInvalidFormat):
		code = apperrors.CodeInvalidFormat
	case errors.Is(err, chess.ErrInvalidSquare):
		code = apperrors.CodeInvalidSquare
	case errors.Is(err, chess.ErrGameOver):
		code = apperrors.CodeGameOver
	case errors.Is(err, chess.ErrInvalidMove):
		code = apperrors.CodeInvalidMove
	}
	return apperrors.Wrap(code, "move rejected", err).
		WithMetadata(map[string]string{"Input": alg, "Board": strconv.Itoa(board)})
}

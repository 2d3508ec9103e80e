package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/louisbranch/chesstactoe/internal/platform/errors"
	"github.com/louisbranch/chesstactoe/internal/platform/id"
	"github.com/louisbranch/chesstactoe/internal/services/game/domain/chess"
	"github.com/louisbranch/chesstactoe/internal/services/game/domain/metagame"
	"github.com/louisbranch/chesstactoe/internal/services/game/observability/metrics"
	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/chesstactoe/internal/services/game/directory"

// Pairing modes, also used as metric labels.
const (
	ModeRandom = "random"
	ModeLobby  = "lobby"
)

// Defaults applied by New to zero Config fields.
const (
	DefaultStreamBuffer = 4
	DefaultSendTimeout  = 2 * time.Second
)

// Status is the pairing state reported on join streams.
type Status int

const (
	StatusWaiting Status = iota
	StatusReady
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "waiting"
}

// JoinUpdate is pushed on the outbox of a Membership.
type JoinUpdate struct {
	Status   Status
	Identity string
	// Code is set for lobby hosts.
	Code string
	// GameID and Color are set once Status is StatusReady.
	GameID string
	Color  chess.Color
}

// Config holds the directory's collaborators and limits.
type Config struct {
	// StreamBuffer is the capacity of every outbox.
	StreamBuffer int
	// SendTimeout bounds how long a broadcast waits on a full outbox.
	SendTimeout time.Duration
	// LobbyTTL expires unclaimed lobbies; zero keeps them until the host
	// leaves.
	LobbyTTL time.Duration
	// Store persists sessions; nil keeps them in memory only.
	Store   storage.GameStore
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
	Tracer  trace.Tracer
	// Now defaults to time.Now.
	Now func() time.Time
}

// Directory owns the match queue, the lobby registry and the live sessions.
type Directory struct {
	cfg Config

	// mu guards queue; popping a waiter and registering its session happen
	// under it.
	mu    sync.Mutex
	queue []*waiter

	lobbies  sync.Map // code -> *waiter
	players  sync.Map // identity -> *Session
	sessions sync.Map // session id -> *Session
}

type waiter struct {
	identity string
	outbox   *Outbox[JoinUpdate]
	created  time.Time
	// err is written before outbox is closed by the directory.
	err    error
	expiry *time.Timer
}

// end closes w's outbox on the directory's side, recording why.
func (w *waiter) end(err error) {
	w.err = err
	w.outbox.Close()
}

// Membership is a caller's handle on a join or lobby stream.
type Membership struct {
	Identity string
	// Code is the lobby code for MakeLobby memberships.
	Code   string
	outbox *Outbox[JoinUpdate]
	leave  func()
	owner  *waiter
}

// Updates returns the pairing updates for this membership.
func (m *Membership) Updates() <-chan JoinUpdate { return m.outbox.Updates() }

// Done is closed when the membership ends, including when the directory
// ends it, such as on lobby expiry.
func (m *Membership) Done() <-chan struct{} { return m.outbox.Done() }

// Err reports why the directory ended the membership. It is nil until Done
// is closed and stays nil when the caller closed it.
func (m *Membership) Err() error {
	if m.owner == nil || !m.outbox.Closed() {
		return nil
	}
	return m.owner.err
}

// Close ends the membership. A player still queued or hosting an unclaimed
// lobby is withdrawn; a paired player keeps its session.
func (m *Membership) Close() {
	m.outbox.Close()
	if m.leave != nil {
		m.leave()
	}
}

// New returns an empty directory.
func New(cfg Config) *Directory {
	if cfg.StreamBuffer <= 0 {
		cfg.StreamBuffer = DefaultStreamBuffer
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Directory{cfg: cfg}
}

// JoinRandom enters random matchmaking. The oldest waiting player whose
// stream is still open is paired with the caller, who plays Black;
// otherwise the caller is queued.
func (d *Directory) JoinRandom(ctx context.Context) (*Membership, error) {
	self, err := d.newWaiter()
	if err != nil {
		return nil, err
	}
	m := &Membership{Identity: self.identity, outbox: self.outbox, owner: self}
	m.leave = func() { d.dequeue(self) }

	d.mu.Lock()
	var host *waiter
	for len(d.queue) > 0 {
		head := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		if !head.outbox.Closed() {
			host = head
			break
		}
	}
	if host == nil {
		d.queue = append(d.queue, self)
		depth := len(d.queue)
		d.mu.Unlock()
		d.cfg.Metrics.SetQueueDepth(depth)
		d.cfg.Logger.Debug().Str("identity", self.identity).Int("queue_depth", depth).Msg("player queued")
		d.notify(ctx, self, JoinUpdate{Status: StatusWaiting, Identity: self.identity})
		return m, nil
	}
	s, err := d.register(host.identity, self.identity)
	depth := len(d.queue)
	d.mu.Unlock()
	d.cfg.Metrics.SetQueueDepth(depth)
	if err != nil {
		return nil, err
	}

	d.started(ctx, s, ModeRandom, host, self)
	return m, nil
}

// MakeLobby opens a private lobby and returns its host membership. The
// first update carries the lobby code.
func (d *Directory) MakeLobby(ctx context.Context) (*Membership, error) {
	host, err := d.newWaiter()
	if err != nil {
		return nil, err
	}
	code, err := id.NewCode()
	if err != nil {
		return nil, err
	}
	if ttl := d.cfg.LobbyTTL; ttl > 0 {
		host.expiry = time.AfterFunc(ttl, func() {
			if d.lobbies.CompareAndDelete(code, host) {
				d.expireLobby(code, host)
			}
		})
	}
	d.lobbies.Store(code, host)
	m := &Membership{Identity: host.identity, Code: code, outbox: host.outbox, owner: host}
	m.leave = func() {
		if host.expiry != nil {
			host.expiry.Stop()
		}
		if d.lobbies.CompareAndDelete(code, host) {
			d.cfg.Logger.Debug().Str("code", code).Msg("lobby withdrawn")
		}
	}
	d.cfg.Logger.Info().Str("identity", host.identity).Str("code", code).Msg("lobby created")
	d.notify(ctx, host, JoinUpdate{Status: StatusWaiting, Identity: host.identity, Code: code})
	return m, nil
}

// JoinLobby claims the lobby with code. The host plays White.
func (d *Directory) JoinLobby(ctx context.Context, code string) (*Membership, error) {
	if code == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "lobby code is required").
			WithMetadata(map[string]string{"Field": "code"})
	}
	v, ok := d.lobbies.LoadAndDelete(code)
	if !ok {
		return nil, lobbyNotFound(code)
	}
	host := v.(*waiter)
	if host.expiry != nil {
		host.expiry.Stop()
	}
	if host.outbox.Closed() {
		return nil, lobbyNotFound(code)
	}
	if ttl := d.cfg.LobbyTTL; ttl > 0 && d.cfg.Now().Sub(host.created) > ttl {
		d.expireLobby(code, host)
		return nil, lobbyNotFound(code)
	}

	self, err := d.newWaiter()
	if err != nil {
		return nil, err
	}
	s, err := d.register(host.identity, self.identity)
	if err != nil {
		return nil, err
	}
	d.started(ctx, s, ModeLobby, host, self)
	return &Membership{Identity: self.identity, outbox: self.outbox, owner: self}, nil
}

// expireLobby ends the host's stream of a lobby already removed from the
// registry.
func (d *Directory) expireLobby(code string, host *waiter) {
	host.end(apperrors.New(apperrors.CodeNotFound, "lobby expired").
		WithMetadata(map[string]string{"Code": code}))
	d.cfg.Logger.Info().Str("code", code).Msg("lobby expired")
}

// QueueLen returns the number of queued entries, including ones whose
// stream has ended but that have not been skipped yet.
func (d *Directory) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Restore loads every stored session so their players can subscribe again.
// It returns the number of sessions loaded.
func (d *Directory) Restore(ctx context.Context) (int, error) {
	if d.cfg.Store == nil {
		return 0, nil
	}
	records, err := d.cfg.Store.ListGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}
	for _, record := range records {
		s, err := sessionFromRecord(record)
		if err != nil {
			return 0, fmt.Errorf("restore game %s: %w", record.ID, err)
		}
		d.sessions.Store(s.ID, s)
		d.players.Store(s.White, s)
		d.players.Store(s.Black, s)
		d.cfg.Metrics.RecordSessionRestored()
	}
	if len(records) > 0 {
		d.cfg.Logger.Info().Int("sessions", len(records)).Msg("sessions restored")
	}
	return len(records), nil
}

func (d *Directory) newWaiter() (*waiter, error) {
	identity, err := id.NewID()
	if err != nil {
		return nil, err
	}
	return &waiter{
		identity: identity,
		outbox:   NewOutbox[JoinUpdate](d.cfg.StreamBuffer),
		created:  d.cfg.Now(),
	}, nil
}

func (d *Directory) dequeue(w *waiter) {
	d.mu.Lock()
	for i, queued := range d.queue {
		if queued == w {
			d.queue = append(d.queue[:i], d.queue[i+1:]...)
			break
		}
	}
	depth := len(d.queue)
	d.mu.Unlock()
	d.cfg.Metrics.SetQueueDepth(depth)
}

// register creates a session and indexes it by id and both identities.
func (d *Directory) register(white, black string) (*Session, error) {
	sessionID, err := id.NewID()
	if err != nil {
		return nil, err
	}
	now := d.cfg.Now()
	s := &Session{
		ID:        sessionID,
		White:     white,
		Black:     black,
		CreatedAt: now,
		game:      metagame.New(),
		updatedAt: now,
	}
	d.sessions.Store(s.ID, s)
	d.players.Store(white, s)
	d.players.Store(black, s)
	return s, nil
}

// started records, persists and announces a freshly paired session.
func (d *Directory) started(ctx context.Context, s *Session, mode string, white, black *waiter) {
	d.cfg.Metrics.RecordSessionCreated(mode)
	d.cfg.Logger.Info().
		Str("game_id", s.ID).
		Str("mode", mode).
		Str("white", s.White).
		Str("black", s.Black).
		Msg("players paired")

	s.mu.Lock()
	d.persist(ctx, s)
	s.mu.Unlock()

	d.notify(ctx, white, JoinUpdate{Status: StatusReady, Identity: white.identity, GameID: s.ID, Color: chess.White})
	d.notify(ctx, black, JoinUpdate{Status: StatusReady, Identity: black.identity, GameID: s.ID, Color: chess.Black})
}

func (d *Directory) notify(ctx context.Context, w *waiter, update JoinUpdate) {
	if err := w.outbox.Send(ctx, update, d.cfg.SendTimeout); err != nil {
		d.cfg.Logger.Debug().Err(err).Str("identity", w.identity).Stringer("status", update.Status).Msg("join update not delivered")
	}
}

func (d *Directory) lookup(identity string) (*Session, error) {
	v, ok := d.players.Load(identity)
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotInGame, "identity is not in a game")
	}
	return v.(*Session), nil
}

func lobbyNotFound(code string) error {
	return apperrors.New(apperrors.CodeNotFound, "lobby not found").
		WithMetadata(map[string]string{"Code": code})
}

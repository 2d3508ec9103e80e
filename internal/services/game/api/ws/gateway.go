package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	apperrors "github.com/louisbranch/chesstactoe/internal/platform/errors"
	"github.com/louisbranch/chesstactoe/internal/platform/errors/i18n"
	grpcgame "github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/game"
	"github.com/louisbranch/chesstactoe/internal/services/game/directory"
	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxDecodeErrorsPerConn = 3
	maxFramesPerSecond     = 20
)

// Gateway is the WebSocket endpoint. It tracks live connections so Shutdown
// can end them; http.Server.Shutdown does not wait for hijacked ones.
type Gateway struct {
	dir    *directory.Directory
	logger zerolog.Logger
	server websocket.Server

	mu     sync.Mutex
	conns  map[*conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewGateway returns a gateway serving players from dir.
func NewGateway(dir *directory.Directory, logger zerolog.Logger) *Gateway {
	g := &Gateway{
		dir:    dir,
		logger: logger,
		conns:  make(map[*conn]struct{}),
	}
	g.server = websocket.Server{Handler: g.serveConn}
	return g
}

// ServeHTTP upgrades GET requests.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	g.server.ServeHTTP(w, r)
}

// Shutdown closes every live connection and waits for their handlers to
// return, so nothing touches the directory afterwards. New connections are
// closed as soon as they upgrade.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	for c := range g.conns {
		c.stop()
	}
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) track(c *conn) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.conns[c] = struct{}{}
	g.wg.Add(1)
	return true
}

func (g *Gateway) untrack(c *conn) {
	g.mu.Lock()
	delete(g.conns, c)
	g.mu.Unlock()
	g.wg.Done()
}

// conn is one WebSocket client. Writes are serialized by mu; the goroutines
// forwarding pairing updates and snapshots stop when ctx ends.
type conn struct {
	ws     *websocket.Conn
	dir    *directory.Directory
	logger zerolog.Logger
	locale string

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// stop cancels c and unblocks its pending reads and writes.
func (c *conn) stop() {
	c.cancel()
	_ = c.ws.SetDeadline(time.Now())
}

func (g *Gateway) serveConn(ws *websocket.Conn) {
	ws.MaxPayloadBytes = maxFramePayloadBytes
	ctx, cancel := context.WithCancel(ws.Request().Context())
	c := &conn{
		ws:     ws,
		dir:    g.dir,
		logger: g.logger.With().Str("remote", ws.Request().RemoteAddr).Logger(),
		locale: i18n.MatchLocale(ws.Request().Header.Get("Accept-Language")),
		ctx:    ctx,
		cancel: cancel,
	}
	if !g.track(c) {
		cancel()
		_ = ws.Close()
		return
	}
	defer func() {
		cancel()
		_ = ws.Close()
		c.wg.Wait()
		g.untrack(c)
	}()

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0
	for {
		var frame Frame
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			decodeErrors++
			c.writeCodeError("", apperrors.CodeInvalidArgument, "invalid frame")
			if decodeErrors >= maxDecodeErrorsPerConn {
				c.logger.Debug().Err(err).Msg("closing websocket after decode errors")
				return
			}
			continue
		}
		decodeErrors = 0

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			c.writeError(frame.RequestID, apperrors.New(apperrors.CodeRateLimited, "rate limit exceeded"))
			return
		}

		c.handle(frame)
	}
}

func (c *conn) handle(frame Frame) {
	switch frame.Type {
	case FrameJoin:
		m, err := c.dir.JoinRandom(c.ctx)
		if err != nil {
			c.writeError(frame.RequestID, err)
			return
		}
		c.forwardMembership(frame.RequestID, m, func(u directory.JoinUpdate) any {
			return grpcgame.JoinResponse(u)
		})
	case FrameLobbyCreate:
		m, err := c.dir.MakeLobby(c.ctx)
		if err != nil {
			c.writeError(frame.RequestID, err)
			return
		}
		c.forwardMembership(frame.RequestID, m, func(u directory.JoinUpdate) any {
			return &gamev1.MakeLobbyResponse{RoomId: m.Code, JoinResponse: grpcgame.JoinResponse(u)}
		})
	case FrameLobbyJoin:
		var payload lobbyJoinPayload
		if !c.decode(frame, &payload) {
			return
		}
		m, err := c.dir.JoinLobby(c.ctx, strings.TrimSpace(payload.Code))
		if err != nil {
			c.writeError(frame.RequestID, err)
			return
		}
		c.forwardMembership(frame.RequestID, m, func(u directory.JoinUpdate) any {
			return grpcgame.JoinResponse(u)
		})
	case FrameSubscribe:
		var payload subscribePayload
		if !c.decode(frame, &payload) {
			return
		}
		c.subscribe(frame.RequestID, strings.TrimSpace(payload.Uuid))
	case FrameMove:
		var payload gamev1.MovePieceRequest
		if !c.decode(frame, &payload) {
			return
		}
		if err := c.dir.Move(c.ctx, strings.TrimSpace(payload.Uuid), int(payload.Board), payload.Alg); err != nil {
			c.writeError(frame.RequestID, err)
			return
		}
		c.write(Frame{Type: FrameAck, RequestID: frame.RequestID, Payload: mustJSON(c.logger, &gamev1.MovePieceResponse{Accepted: true})})
	default:
		c.writeCodeError(frame.RequestID, apperrors.CodeInvalidArgument, "unsupported frame type")
	}
}

func (c *conn) decode(frame Frame, target any) bool {
	if len(frame.Payload) == 0 {
		frame.Payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(frame.Payload, target); err != nil {
		c.writeCodeError(frame.RequestID, apperrors.CodeInvalidArgument, "invalid payload")
		return false
	}
	return true
}

// forwardMembership relays pairing updates as status frames until the
// player is paired or the connection ends.
func (c *conn) forwardMembership(requestID string, m *directory.Membership, payload func(directory.JoinUpdate) any) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer m.Close()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-m.Done():
				if err := m.Err(); err != nil {
					c.writeError(requestID, err)
				}
				return
			case u := <-m.Updates():
				if err := c.write(Frame{Type: FrameStatus, RequestID: requestID, Payload: mustJSON(c.logger, payload(u))}); err != nil {
					return
				}
				if u.Status == directory.StatusReady {
					return
				}
			}
		}
	}()
}

func (c *conn) subscribe(requestID, identity string) {
	if identity == "" {
		c.writeError(requestID, apperrors.New(apperrors.CodeInvalidArgument, "uuid is required").
			WithMetadata(map[string]string{"Field": "uuid"}))
		return
	}
	sub, err := c.dir.Subscribe(c.ctx, identity)
	if err != nil {
		c.writeError(requestID, err)
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer sub.Close()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-sub.Done():
				return
			case snap := <-sub.Updates():
				if err := c.write(Frame{Type: FrameSnapshot, RequestID: requestID, Payload: mustJSON(c.logger, grpcgame.SnapshotResponse(snap))}); err != nil {
					return
				}
			}
		}
	}()
}

func (c *conn) write(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := websocket.JSON.Send(c.ws, frame); err != nil {
		c.logger.Debug().Err(err).Str("frame", frame.Type).Msg("websocket write failed")
		return err
	}
	return nil
}

// writeError sends err as an error frame with a localized message.
func (c *conn) writeError(requestID string, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.logger.Error().Err(err).Msg("websocket request failed")
		c.writeCodeError(requestID, apperrors.CodeUnknown, "an unexpected error occurred")
		return
	}
	message := i18n.GetCatalog(c.locale).Format(string(appErr.Code), appErr.Metadata)
	c.writeCodeError(requestID, appErr.Code, message)
}

func (c *conn) writeCodeError(requestID string, code apperrors.Code, message string) {
	_ = c.write(Frame{
		Type:      FrameError,
		RequestID: requestID,
		Payload:   mustJSON(c.logger, errorEnvelope{Error: errorBody{Code: string(code), Message: message}}),
	})
}

func mustJSON(logger zerolog.Logger, v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("marshal websocket payload")
		return nil
	}
	return b
}

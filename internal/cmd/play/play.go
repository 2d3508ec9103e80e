// Package play is a terminal client for the game server.
//
// It joins a game (random matchmaking, a new lobby, or an existing lobby
// code), prints every snapshot it receives and reads moves from standard
// input as "<board> <alg>" lines, such as "4 e2e4".
package play

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	entrypoint "github.com/louisbranch/chesstactoe/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/chesstactoe/internal/platform/grpc"
	"github.com/louisbranch/chesstactoe/internal/platform/logging"
	"github.com/louisbranch/chesstactoe/internal/platform/timeouts"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LobbyNew asks the server for a new private lobby.
const LobbyNew = "new"

// Config holds play command configuration.
type Config struct {
	Addr string `env:"CHESSTACTOE_PLAY_ADDR" envDefault:"localhost:50051" toml:"addr"`
	// Lobby is empty for random matchmaking, LobbyNew, or a lobby code.
	Lobby    string `env:"CHESSTACTOE_PLAY_LOBBY" toml:"lobby"`
	Locale   string `env:"CHESSTACTOE_LOCALE" toml:"locale"`
	LogLevel string `env:"CHESSTACTOE_LOG_LEVEL" envDefault:"warn" toml:"log_level"`
}

// ParseConfig layers defaults, environment and flags.
func ParseConfig(args []string) (Config, error) {
	cfg, err := entrypoint.LoadConfigFromArgs(entrypoint.ServicePlay, args, "", bindFlags)
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return Config{}, errors.New("server address is required")
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config, path *string) {
	fs.StringVar(path, "config", "", "Path to a TOML config file")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Game server address")
	fs.StringVar(&cfg.Lobby, "lobby", cfg.Lobby, `Lobby to join: empty for random matchmaking, "new" to host, or a lobby code`)
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Preferred language for error messages, such as pt-BR")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
}

// Run connects to the server and plays until in is exhausted or ctx ends.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	logger, err := logging.New(entrypoint.ServicePlay, logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	conn, err := platformgrpc.Dial(ctx, platformgrpc.ClientConfig{
		Addr:          cfg.Addr,
		HealthService: gamev1.GameService_ServiceDesc.ServiceName,
		HealthWait:    timeouts.HealthWait,
		Locale:        cfg.Locale,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	return newPlayer(gamev1.NewGameServiceClient(conn), out, logger).play(ctx, cfg.Lobby, in)
}

// player drives one game session. Output lines are serialized by mu.
type player struct {
	client gamev1.GameServiceClient
	logger zerolog.Logger
	mu     sync.Mutex
	out    io.Writer
}

func newPlayer(client gamev1.GameServiceClient, out io.Writer, logger zerolog.Logger) *player {
	return &player{client: client, out: out, logger: logger}
}

func (p *player) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *player) play(ctx context.Context, lobby string, in io.Reader) error {
	identity, err := p.join(ctx, lobby)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream, err := p.client.SubscribeBoard(ctx, &gamev1.SubscribeBoardRequest{Uuid: identity})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The game is over for this client once its snapshot stream ends.
		defer cancel()
		for {
			snap, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) || gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("receive snapshot: %w", err)
			}
			p.mu.Lock()
			renderSnapshot(p.out, snap)
			p.mu.Unlock()
		}
	})
	g.Go(func() error {
		defer cancel()
		return p.readMoves(gctx, identity, in)
	})
	return g.Wait()
}

// join pairs the player and returns its identity once the game is ready.
func (p *player) join(ctx context.Context, lobby string) (string, error) {
	var (
		stream grpc.ServerStreamingClient[gamev1.JoinResponse]
		err    error
	)
	switch lobby = strings.TrimSpace(lobby); lobby {
	case "":
		stream, err = p.client.Join(ctx, &gamev1.JoinRequest{})
	case LobbyNew:
		return p.host(ctx)
	default:
		stream, err = p.client.JoinLobby(ctx, &gamev1.JoinLobbyRequest{Code: lobby})
	}
	if err != nil {
		return "", fmt.Errorf("join: %w", err)
	}
	for {
		resp, err := stream.Recv()
		if err != nil {
			return "", fmt.Errorf("join: %s", describe(err))
		}
		if resp.GetStatus() == gamev1.JoinStatus_READY {
			p.printf("game ready\n")
			return resp.GetUuid(), nil
		}
		p.printf("waiting for an opponent...\n")
	}
}

func (p *player) host(ctx context.Context) (string, error) {
	stream, err := p.client.MakeLobby(ctx, &gamev1.MakeLobbyRequest{})
	if err != nil {
		return "", fmt.Errorf("make lobby: %w", err)
	}
	for {
		resp, err := stream.Recv()
		if err != nil {
			return "", fmt.Errorf("make lobby: %s", describe(err))
		}
		if resp.GetJoinResponse().GetStatus() == gamev1.JoinStatus_READY {
			p.printf("game ready\n")
			return resp.GetJoinResponse().GetUuid(), nil
		}
		p.printf("lobby code: %s\n", resp.GetRoomId())
	}
}

func (p *player) readMoves(ctx context.Context, identity string, in io.Reader) error {
	lines, errc := readLines(ctx, in)
	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("read moves: %w", err)
				}
				return nil
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}
		board, alg, err := ParseMoveLine(line)
		if err != nil {
			p.printf("%v\n", err)
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		_, err = p.client.MovePiece(callCtx, &gamev1.MovePieceRequest{Uuid: identity, Board: board, Alg: alg})
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Debug().Err(err).Int32("board", board).Str("alg", alg).Msg("move rejected")
			p.printf("move rejected: %s\n", describe(err))
		}
	}
}

// readLines scans in on its own goroutine so callers can stop waiting when
// ctx ends. errc receives exactly one value before lines is closed. A Read
// already blocked on in is left behind until it returns.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// ParseMoveLine splits "<board> <alg>" into its parts.
func ParseMoveLine(line string) (int32, string, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("want \"<board> <move>\", got %q", line)
	}
	board, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return 0, "", fmt.Errorf("board %q is not a number", fields[0])
	}
	return int32(board), fields[1], nil
}

func describe(err error) string {
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	return err.Error()
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	"github.com/louisbranch/chesstactoe/internal/platform/timeouts"
	gamegrpc "github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/game"
	"github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/chesstactoe/internal/services/game/api/ws"
	"github.com/louisbranch/chesstactoe/internal/services/game/directory"
	"github.com/louisbranch/chesstactoe/internal/services/game/observability/metrics"
	"github.com/louisbranch/chesstactoe/internal/services/game/storage"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config configures a game server.
type Config struct {
	// Addr is the gRPC listen address.
	Addr string
	// HTTPAddr serves /up, /metrics and /ws. Empty disables the listener.
	HTTPAddr string
	Store    string
	DBPath   string

	StreamBuffer int
	SendTimeout  time.Duration
	LobbyTTL     time.Duration

	Logger zerolog.Logger
	// Metrics defaults to the process-wide registry.
	Metrics *metrics.Metrics
}

// Server hosts the chess-tac-toe game service.
type Server struct {
	listener     net.Listener
	httpListener net.Listener
	grpcServer   *grpc.Server
	httpServer   *http.Server
	gateway      *ws.Gateway
	health       *health.Server
	store        storage.GameStore
	dir          *directory.Directory
	logger       zerolog.Logger
}

// New opens the store, restores saved games and binds both listeners.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Default()
	}
	logger := cfg.Logger

	store, err := openStore(ctx, cfg.Store, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	dir := directory.New(directory.Config{
		StreamBuffer: cfg.StreamBuffer,
		SendTimeout:  cfg.SendTimeout,
		LobbyTTL:     cfg.LobbyTTL,
		Store:        store,
		Metrics:      cfg.Metrics,
		Logger:       logger,
	})
	if _, err := dir.Restore(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore sessions: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.TelemetryInterceptor(logger, cfg.Metrics),
		),
		grpc.ChainStreamInterceptor(
			grpcmeta.StreamServerInterceptor(nil),
			interceptors.StreamTelemetryInterceptor(logger, cfg.Metrics),
		),
	)
	healthServer := health.NewServer()
	gamev1.RegisterGameServiceServer(grpcServer, gamegrpc.NewService(dir, logger))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamev1.GameService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	s := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		dir:        dir,
		logger:     logger,
	}
	if cfg.HTTPAddr != "" {
		httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			_ = listener.Close()
			_ = store.Close()
			return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
		}
		s.httpListener = httpListener
		s.gateway = ws.NewGateway(dir, logger)
		s.httpServer = &http.Server{
			Handler:           newHTTPHandler(s.gateway, cfg.Metrics),
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
	}
	return s, nil
}

func newHTTPHandler(gateway *ws.Gateway, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/ws", gateway)
	return mux
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the HTTP listener address, or "" when it is disabled.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Run creates and serves a game server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	srv, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve runs both listeners until ctx ends or one of them fails, then
// shuts both down.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	s.logger.Info().Str("addr", s.Addr()).Str("http_addr", s.HTTPAddr()).Msg("game server listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	if s.httpServer != nil {
		g.Go(func() error {
			if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		s.shutdown(context.WithoutCancel(ctx))
		return nil
	})
	return g.Wait()
}

func (s *Server) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Shutdown)
	defer cancel()

	s.health.Shutdown()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("http shutdown")
		}
		// Hijacked WebSocket connections outlive the HTTP server; they must
		// be gone before the store closes.
		if err := s.gateway.Shutdown(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("websocket shutdown")
		}
	}

	// Subscription streams stay open until clients leave, so a graceful
	// stop falls back to a hard stop at the deadline.
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
		<-stopped
	}
}

func (s *Server) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("close game store")
	}
}

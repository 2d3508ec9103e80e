// Package game parses game server configuration and starts the server.
package game

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"

	entrypoint "github.com/louisbranch/chesstactoe/internal/platform/cmd"
	"github.com/louisbranch/chesstactoe/internal/platform/logging"
	"github.com/louisbranch/chesstactoe/internal/platform/otel"
	server "github.com/louisbranch/chesstactoe/internal/services/game/app"
)

// ConfigPathEnv names the optional TOML config file.
const ConfigPathEnv = "CHESSTACTOE_CONFIG"

// Config holds game command configuration.
type Config struct {
	Port     int    `env:"CHESSTACTOE_GAME_PORT" envDefault:"50051" toml:"port"`
	Addr     string `env:"CHESSTACTOE_GAME_ADDR"                    toml:"addr"`
	HTTPAddr string `env:"CHESSTACTOE_HTTP_ADDR" envDefault:":8090" toml:"http_addr"`

	Store  string `env:"CHESSTACTOE_STORE"   envDefault:"sqlite"              toml:"store"`
	DBPath string `env:"CHESSTACTOE_DB_PATH" envDefault:"data/chesstactoe.db" toml:"db_path"`

	StreamBuffer int           `env:"CHESSTACTOE_STREAM_BUFFER" envDefault:"4"   toml:"stream_buffer"`
	SendTimeout  time.Duration `env:"CHESSTACTOE_SEND_TIMEOUT"  envDefault:"2s"  toml:"send_timeout"`
	LobbyTTL     time.Duration `env:"CHESSTACTOE_LOBBY_TTL"     envDefault:"30m" toml:"lobby_ttl"`

	LogLevel string `env:"CHESSTACTOE_LOG_LEVEL" envDefault:"info" toml:"log_level"`
	LogJSON  bool   `env:"CHESSTACTOE_LOG_JSON"                    toml:"log_json"`

	OTelEnabled  bool   `env:"CHESSTACTOE_OTEL_ENABLED"  toml:"otel_enabled"`
	OTelEndpoint string `env:"CHESSTACTOE_OTEL_ENDPOINT" toml:"otel_endpoint"`
}

// ParseConfig layers defaults, the config file, environment and flags.
func ParseConfig(args []string) (Config, error) {
	cfg, err := entrypoint.LoadConfigFromArgs(entrypoint.ServiceGame, args, ConfigPathEnv, bindFlags)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config, path *string) {
	fs.StringVar(path, "config", "", "Path to a TOML config file")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "Listen address for /up, /metrics and /ws (empty disables)")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Session store: sqlite, bbolt or memory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Session store file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" && (c.Port < 0 || c.Port > 65535) {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if err := server.ValidateStoreKind(c.Store); err != nil {
		errs = append(errs, err)
	}
	if c.StreamBuffer < 1 {
		errs = append(errs, fmt.Errorf("stream buffer must be positive, got %d", c.StreamBuffer))
	}
	if c.SendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("send timeout must be positive, got %s", c.SendTimeout))
	}
	if c.LobbyTTL < 0 {
		errs = append(errs, fmt.Errorf("lobby ttl must not be negative, got %s", c.LobbyTTL))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ListenAddr returns Addr, or the wildcard address on Port.
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

// Run starts the game server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(entrypoint.ServiceGame, logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return err
	}
	tracing := otel.Config{
		Service:  entrypoint.ServiceGame,
		Enabled:  cfg.OTelEnabled,
		Endpoint: cfg.OTelEndpoint,
	}
	return entrypoint.RunWithTelemetry(ctx, tracing, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:         cfg.ListenAddr(),
			HTTPAddr:     cfg.HTTPAddr,
			Store:        cfg.Store,
			DBPath:       cfg.DBPath,
			StreamBuffer: cfg.StreamBuffer,
			SendTimeout:  cfg.SendTimeout,
			LobbyTTL:     cfg.LobbyTTL,
			Logger:       logger,
		})
	})
}

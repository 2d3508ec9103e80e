package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/chesstactoe/internal/platform/config"
	"github.com/louisbranch/chesstactoe/internal/platform/otel"
	"github.com/rs/zerolog/log"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// Command names used for telemetry and logging.
const (
	ServiceGame = "game"
	ServicePlay = "play"
)

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// BindFunc registers flags for the fields of cfg. path receives the value of
// the config-file flag, if the command has one.
type BindFunc[T any] func(fs *flag.FlagSet, cfg *T, path *string)

// LoadConfigFromArgs layers configuration as defaults, then an optional TOML
// file, then environment variables, then flags. The file path comes from the
// flag bound to path, falling back to the pathEnv variable.
func LoadConfigFromArgs[T any](name string, args []string, pathEnv string, bind BindFunc[T]) (T, error) {
	var cfg T
	if bind == nil {
		return cfg, errors.New("flag binder is required")
	}

	// First pass only discovers the config path.
	var scratch T
	var path string
	probe := flag.NewFlagSet(name, flag.ContinueOnError)
	bind(probe, &scratch, &path)
	if err := ParseArgs(probe, args); err != nil {
		return cfg, err
	}
	if path == "" && pathEnv != "" {
		path = strings.TrimSpace(os.Getenv(pathEnv))
	}

	if _, err := config.Load(path, &cfg); err != nil {
		return cfg, err
	}
	var ignored string
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	bind(fs, &cfg, &ignored)
	if err := ParseArgs(fs, args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RunWithTelemetry configures observability and executes a service run loop.
func RunWithTelemetry(ctx context.Context, tracing otel.Config, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, tracing, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures observability and executes a service run loop.
func RunWithTelemetryAndOptions(ctx context.Context, tracing otel.Config, options RunOptions, run func(context.Context) error) error {
	service := strings.TrimSpace(tracing.Service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Str("service", service).Msg("otel shutdown")
		}
	}()
	return run(ctx)
}

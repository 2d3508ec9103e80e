// Package grpc dials the game server for command-line clients.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// localeHeader carries the caller's preferred language for error messages.
const localeHeader = "accept-language"

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	DialStageConnect DialStage = "connect"
	DialStageHealth  DialStage = "health"
)

// DialError records which stage of Dial failed.
type DialError struct {
	Addr  string
	Stage DialStage
	Err   error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("game server %s: %s: %v", e.Addr, e.Stage, e.Err)
}

func (e *DialError) Unwrap() error { return e.Err }

// ClientConfig describes a connection to the game server.
type ClientConfig struct {
	Addr string
	// HealthService is the name polled before Dial returns. Empty checks the
	// server as a whole.
	HealthService string
	// HealthWait bounds health polling; zero waits until ctx ends.
	HealthWait time.Duration
	// Locale is sent as accept-language on every call when set.
	Locale string
	Logger zerolog.Logger
	// Options are appended after the defaults.
	Options []gogrpc.DialOption
}

// DefaultClientDialOptions returns plaintext credentials and a client stats
// handler so calls carry trace context when a TracerProvider is registered.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Dial connects to the game server and waits until its health service
// reports SERVING. The connection is closed when the wait fails.
func Dial(ctx context.Context, cfg ClientConfig) (*gogrpc.ClientConn, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, &DialError{Stage: DialStageConnect, Err: errors.New("address is required")}
	}

	opts := DefaultClientDialOptions()
	if locale := strings.TrimSpace(cfg.Locale); locale != "" {
		opts = append(opts,
			gogrpc.WithChainUnaryInterceptor(localeUnaryInterceptor(locale)),
			gogrpc.WithChainStreamInterceptor(localeStreamInterceptor(locale)),
		)
	}
	opts = append(opts, cfg.Options...)

	conn, err := gogrpc.NewClient(addr, opts...)
	if err != nil {
		return nil, &DialError{Addr: addr, Stage: DialStageConnect, Err: err}
	}

	waitCtx := ctx
	if cfg.HealthWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.HealthWait)
		defer cancel()
	}
	if err := WaitForHealth(waitCtx, conn, cfg.HealthService, cfg.Logger); err != nil {
		_ = conn.Close()
		return nil, &DialError{Addr: addr, Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}

func localeUnaryInterceptor(locale string) gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn, invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(withLocale(ctx, locale), method, req, reply, cc, opts...)
	}
}

func localeStreamInterceptor(locale string) gogrpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string, streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		return streamer(withLocale(ctx, locale), desc, cc, method, opts...)
	}
}

// withLocale keeps a locale the caller already set on ctx.
func withLocale(ctx context.Context, locale string) context.Context {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(localeHeader)) > 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, localeHeader, locale)
}

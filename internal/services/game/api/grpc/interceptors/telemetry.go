// Package interceptors holds the gRPC server interceptors of the game
// service.
package interceptors

import (
	"context"
	"time"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	grpcmeta "github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/chesstactoe/internal/services/game/observability/metrics"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// TelemetryInterceptor logs one event per unary call and records its
// duration.
func TelemetryInterceptor(logger zerolog.Logger, m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observe(ctx, logger, m, info.FullMethod, start, err)
		return resp, err
	}
}

// StreamTelemetryInterceptor is TelemetryInterceptor for streaming calls.
// The duration covers the whole stream.
func StreamTelemetryInterceptor(logger zerolog.Logger, m *metrics.Metrics) grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, stream)
		observe(stream.Context(), logger, m, info.FullMethod, start, err)
		return err
	}
}

func observe(ctx context.Context, logger zerolog.Logger, m *metrics.Metrics, method string, start time.Time, err error) {
	elapsed := time.Since(start)
	code := status.Code(err)
	m.ObserveRPC(method, code.String(), elapsed)

	event := logger.Info()
	if err != nil {
		event = logger.Warn()
	}
	event = event.
		Str("method", method).
		Str("method_kind", classifyMethodKind(method)).
		Str("code", code.String()).
		Dur("duration", elapsed)
	if requestID := grpcmeta.RequestIDFromContext(ctx); requestID != "" {
		event = event.Str("request_id", requestID)
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		event = event.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("grpc call")
}

func classifyMethodKind(fullMethod string) string {
	switch fullMethod {
	case gamev1.GameService_MovePiece_FullMethodName:
		return "write"
	case gamev1.GameService_SubscribeBoard_FullMethodName:
		return "read"
	case gamev1.GameService_Join_FullMethodName,
		gamev1.GameService_MakeLobby_FullMethodName,
		gamev1.GameService_JoinLobby_FullMethodName:
		return "match"
	default:
		return "other"
	}
}

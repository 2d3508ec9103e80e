package interceptors

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	grpcmeta "github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/chesstactoe/internal/services/game/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyMethodKind(t *testing.T) {
	tests := map[string]string{
		gamev1.GameService_MovePiece_FullMethodName:      "write",
		gamev1.GameService_SubscribeBoard_FullMethodName: "read",
		gamev1.GameService_Join_FullMethodName:           "match",
		gamev1.GameService_JoinLobby_FullMethodName:      "match",
		"/grpc.health.v1.Health/Check":                   "other",
	}
	for method, want := range tests {
		if got := classifyMethodKind(method); got != want {
			t.Fatalf("classifyMethodKind(%s) = %s, want %s", method, got, want)
		}
	}
}

func decodeLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log %q: %v", buf.String(), err)
	}
	return entry
}

func TestTelemetryInterceptorLogsAndObserves(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	interceptor := TelemetryInterceptor(zerolog.New(&buf), m)

	ctx := grpcmeta.WithRequestID(context.Background(), "req-1")
	info := &grpc.UnaryServerInfo{FullMethod: gamev1.GameService_MovePiece_FullMethodName}
	_, err := interceptor(ctx, &gamev1.MovePieceRequest{}, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.PermissionDenied, "not your turn")
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("code = %v, want PermissionDenied", status.Code(err))
	}

	entry := decodeLog(t, &buf)
	if entry["level"] != "warn" {
		t.Fatalf("level = %v, want warn", entry["level"])
	}
	if entry["method"] != gamev1.GameService_MovePiece_FullMethodName || entry["code"] != "PermissionDenied" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["request_id"] != "req-1" || entry["method_kind"] != "write" {
		t.Fatalf("entry = %v", entry)
	}
	if got, err := testutil.GatherAndCount(reg, "chesstactoe_grpc_request_duration_seconds"); err != nil || got != 1 {
		t.Fatalf("duration series = %d, %v; want 1", got, err)
	}
}

type ctxStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s ctxStream) Context() context.Context { return s.ctx }

func TestStreamTelemetryInterceptorLogsSuccess(t *testing.T) {
	var buf bytes.Buffer
	interceptor := StreamTelemetryInterceptor(zerolog.New(&buf), nil)

	info := &grpc.StreamServerInfo{FullMethod: gamev1.GameService_Join_FullMethodName, IsServerStream: true}
	err := interceptor(nil, ctxStream{ctx: context.Background()}, info, func(any, grpc.ServerStream) error {
		return nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	entry := decodeLog(t, &buf)
	if entry["level"] != "info" || entry["code"] != "OK" || entry["method_kind"] != "match" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["request_id"]; ok {
		t.Fatal("expected no request id without metadata")
	}
}

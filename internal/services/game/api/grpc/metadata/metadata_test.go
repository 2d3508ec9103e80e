package metadata

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestRequestIDContextHelpers(t *testing.T) {
	if RequestIDFromContext(nil) != "" {
		t.Fatal("expected empty request id for nil context")
	}

	ctx := WithRequestID(nil, "req-1")
	if RequestIDFromContext(ctx) != "req-1" {
		t.Fatalf("expected request id req-1, got %s", RequestIDFromContext(ctx))
	}
}

func TestIsPrintableASCII(t *testing.T) {
	if IsPrintableASCII("") {
		t.Fatal("expected empty string to be non-printable")
	}
	if !IsPrintableASCII("hello") {
		t.Fatal("expected printable ascii to be accepted")
	}
	if IsPrintableASCII("line\n") {
		t.Fatal("expected newline to be non-printable")
	}
	if IsPrintableASCII(string([]byte{0x7f})) {
		t.Fatal("expected DEL to be non-printable")
	}
}

func TestFirstMetadataValue(t *testing.T) {
	md := metadata.MD{
		"X-Chesstactoe-Request-Id": {"\n", "req-1"},
		"x-chesstactoe-request-id": {"req-2"},
	}

	value := FirstMetadataValue(md, RequestIDHeader)
	if value != "req-1" && value != "req-2" {
		t.Fatalf("expected printable request id, got %s", value)
	}

	if FirstMetadataValue(metadata.MD{}, RequestIDHeader) != "" {
		t.Fatal("expected empty value for empty metadata")
	}
}

func TestLocaleFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"no metadata", context.Background(), "en-US"},
		{"portuguese", metadata.NewIncomingContext(context.Background(), metadata.Pairs(LocaleHeader, "pt-BR,pt;q=0.9")), "pt-BR"},
		{"unsupported", metadata.NewIncomingContext(context.Background(), metadata.Pairs(LocaleHeader, "ja")), "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocaleFromContext(tt.ctx); got != tt.want {
				t.Fatalf("locale = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureRequestIDKeepsIncoming(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-1"))

	updated, requestID, err := ensureRequestID(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request id: %v", err)
	}
	if requestID != "req-1" {
		t.Fatalf("request id = %s, want req-1", requestID)
	}
	if RequestIDFromContext(updated) != "req-1" {
		t.Fatal("expected request id stored in context")
	}
}

func TestEnsureRequestIDGenerates(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

	updated, requestID, err := ensureRequestID(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request id: %v", err)
	}
	if requestID != "generated" || RequestIDFromContext(updated) != "generated" {
		t.Fatalf("request id = %s, want generated", requestID)
	}
}

func TestEnsureRequestIDGeneratorFailure(t *testing.T) {
	_, _, err := ensureRequestID(context.Background(), func() (string, error) {
		return "", errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected generator error")
	}
}

type headerStream struct {
	grpc.ServerStream
	ctx    context.Context
	header metadata.MD
}

func (s *headerStream) Context() context.Context { return s.ctx }

func (s *headerStream) SetHeader(md metadata.MD) error {
	s.header = metadata.Join(s.header, md)
	return nil
}

func TestStreamServerInterceptorSetsRequestID(t *testing.T) {
	stream := &headerStream{ctx: context.Background()}
	interceptor := StreamServerInterceptor(func() (string, error) { return "stream-1", nil })

	var seen string
	err := interceptor(nil, stream, &grpc.StreamServerInfo{FullMethod: "/test/Stream"}, func(srv any, ss grpc.ServerStream) error {
		seen = RequestIDFromContext(ss.Context())
		return nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seen != "stream-1" {
		t.Fatalf("handler request id = %q, want stream-1", seen)
	}
	if got := FirstMetadataValue(stream.header, RequestIDHeader); got != "stream-1" {
		t.Fatalf("response header = %q, want stream-1", got)
	}
}

func TestStreamServerInterceptorGeneratorFailure(t *testing.T) {
	stream := &headerStream{ctx: context.Background()}
	interceptor := StreamServerInterceptor(func() (string, error) { return "", errors.New("boom") })

	err := interceptor(nil, stream, &grpc.StreamServerInfo{}, func(any, grpc.ServerStream) error {
		t.Fatal("handler must not run")
		return nil
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
}

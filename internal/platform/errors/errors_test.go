package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errBoardRule = errors.New("board rule")

func TestErrorUnwrapAndIs(t *testing.T) {
	err := fmt.Errorf("move: %w", Wrap(CodeInvalidMove, "illegal move", errBoardRule))
	if !errors.Is(err, errBoardRule) {
		t.Fatal("expected cause to stay reachable")
	}
	if !errors.Is(err, New(CodeInvalidMove, "")) {
		t.Fatal("expected code match")
	}
	if errors.Is(err, New(CodeGameOver, "")) {
		t.Fatal("expected different code not to match")
	}
	if got := GetCode(err); got != CodeInvalidMove {
		t.Fatalf("code = %s, want %s", got, CodeInvalidMove)
	}
	if got := GetCode(errBoardRule); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
}

func TestGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeInvalidFormat, codes.InvalidArgument},
		{CodeInvalidSquare, codes.InvalidArgument},
		{CodeInvalidCoordinates, codes.InvalidArgument},
		{CodeInvalidArgument, codes.InvalidArgument},
		{CodeInvalidMove, codes.FailedPrecondition},
		{CodeGameOver, codes.FailedPrecondition},
		{CodeNotInGame, codes.PermissionDenied},
		{CodeNotPlayer, codes.PermissionDenied},
		{CodeNotYourTurn, codes.PermissionDenied},
		{CodeNotFound, codes.NotFound},
		{CodeRateLimited, codes.ResourceExhausted},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("%s.GRPCCode() = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestHandleErrorLocalizes(t *testing.T) {
	err := HandleError(New(CodeNotYourTurn, "not your turn"), "pt-BR")
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("code = %v, want PermissionDenied", st.Code())
	}
	if st.Message() != "Não é a sua vez" {
		t.Fatalf("message = %q", st.Message())
	}
	var sawInfo, sawLocalized bool
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			sawInfo = d.GetReason() == string(CodeNotYourTurn) && d.GetDomain() == Domain
		case *errdetails.LocalizedMessage:
			sawLocalized = d.GetLocale() == "pt-BR"
		}
	}
	if !sawInfo || !sawLocalized {
		t.Fatalf("details = %v, want ErrorInfo and LocalizedMessage", st.Details())
	}
	if got := ReasonFromStatus(err); got != CodeNotYourTurn {
		t.Fatalf("reason = %s, want %s", got, CodeNotYourTurn)
	}
}

func TestHandleErrorPassThrough(t *testing.T) {
	if HandleError(nil, "") != nil {
		t.Fatal("expected nil for nil error")
	}
	original := status.Error(codes.Unavailable, "down")
	if got := HandleError(original, ""); got != original {
		t.Fatalf("expected status error to pass through, got %v", got)
	}
	if got := status.Code(HandleError(context.Canceled, "")); got != codes.Canceled {
		t.Fatalf("canceled code = %v, want Canceled", got)
	}
	if got := status.Code(HandleError(errBoardRule, "")); got != codes.Internal {
		t.Fatalf("unknown code = %v, want Internal", got)
	}
}

package game

import (
	"context"
	"strings"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	apperrors "github.com/louisbranch/chesstactoe/internal/platform/errors"
	grpcmeta "github.com/louisbranch/chesstactoe/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/chesstactoe/internal/services/game/directory"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Service implements the chesstactoe.v1.GameService gRPC API.
type Service struct {
	gamev1.UnimplementedGameServiceServer
	dir    *directory.Directory
	logger zerolog.Logger
}

// NewService creates a Service backed by dir.
func NewService(dir *directory.Directory, logger zerolog.Logger) *Service {
	return &Service{dir: dir, logger: logger}
}

// Join enters random matchmaking.
func (s *Service) Join(in *gamev1.JoinRequest, stream grpc.ServerStreamingServer[gamev1.JoinResponse]) error {
	ctx := stream.Context()
	m, err := s.dir.JoinRandom(ctx)
	if err != nil {
		return handleDomainError(ctx, err)
	}
	defer m.Close()
	return forwardUntilReady(ctx, m, func(u directory.JoinUpdate) error {
		return stream.Send(JoinResponse(u))
	})
}

// MakeLobby opens a private lobby. Every message carries the room code.
func (s *Service) MakeLobby(in *gamev1.MakeLobbyRequest, stream grpc.ServerStreamingServer[gamev1.MakeLobbyResponse]) error {
	ctx := stream.Context()
	m, err := s.dir.MakeLobby(ctx)
	if err != nil {
		return handleDomainError(ctx, err)
	}
	defer m.Close()
	return forwardUntilReady(ctx, m, func(u directory.JoinUpdate) error {
		return stream.Send(&gamev1.MakeLobbyResponse{RoomId: m.Code, JoinResponse: JoinResponse(u)})
	})
}

// JoinLobby claims a private lobby by its room code.
func (s *Service) JoinLobby(in *gamev1.JoinLobbyRequest, stream grpc.ServerStreamingServer[gamev1.JoinResponse]) error {
	ctx := stream.Context()
	m, err := s.dir.JoinLobby(ctx, strings.TrimSpace(in.GetCode()))
	if err != nil {
		return handleDomainError(ctx, err)
	}
	defer m.Close()
	return forwardUntilReady(ctx, m, func(u directory.JoinUpdate) error {
		return stream.Send(JoinResponse(u))
	})
}

// SubscribeBoard streams snapshots of the caller's game. The stream ends
// without error when the same player subscribes again.
func (s *Service) SubscribeBoard(in *gamev1.SubscribeBoardRequest, stream grpc.ServerStreamingServer[gamev1.SubscribeBoardResponse]) error {
	ctx := stream.Context()
	identity := strings.TrimSpace(in.GetUuid())
	if identity == "" {
		return handleDomainError(ctx, missingField("uuid"))
	}
	sub, err := s.dir.Subscribe(ctx, identity)
	if err != nil {
		return handleDomainError(ctx, err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case <-sub.Done():
			s.logger.Debug().Str("identity", identity).Msg("subscription replaced")
			return nil
		case snap := <-sub.Updates():
			if err := stream.Send(SnapshotResponse(snap)); err != nil {
				return err
			}
		}
	}
}

// MovePiece plays one move for the caller.
func (s *Service) MovePiece(ctx context.Context, in *gamev1.MovePieceRequest) (*gamev1.MovePieceResponse, error) {
	if in == nil {
		return nil, handleDomainError(ctx, missingField("request"))
	}
	identity := strings.TrimSpace(in.GetUuid())
	if identity == "" {
		return nil, handleDomainError(ctx, missingField("uuid"))
	}
	if err := s.dir.Move(ctx, identity, int(in.GetBoard()), in.GetAlg()); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &gamev1.MovePieceResponse{Accepted: true}, nil
}

// forwardUntilReady relays pairing updates until the Ready update has been
// sent.
func forwardUntilReady(ctx context.Context, m *directory.Membership, send func(directory.JoinUpdate) error) error {
	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case <-m.Done():
			if err := m.Err(); err != nil {
				return handleDomainError(ctx, err)
			}
			return nil
		case u := <-m.Updates():
			if err := send(u); err != nil {
				return err
			}
			if u.Status == directory.StatusReady {
				return nil
			}
		}
	}
}

func missingField(field string) error {
	return apperrors.New(apperrors.CodeInvalidArgument, field+" is required").
		WithMetadata(map[string]string{"Field": field})
}

func handleDomainError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
}

package gamev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Fully qualified method names.
const (
	GameService_Join_FullMethodName           = "/chesstactoe.v1.GameService/Join"
	GameService_MakeLobby_FullMethodName      = "/chesstactoe.v1.GameService/MakeLobby"
	GameService_JoinLobby_FullMethodName      = "/chesstactoe.v1.GameService/JoinLobby"
	GameService_SubscribeBoard_FullMethodName = "/chesstactoe.v1.GameService/SubscribeBoard"
	GameService_MovePiece_FullMethodName      = "/chesstactoe.v1.GameService/MovePiece"
)

// GameServiceServer is the server API for GameService.
type GameServiceServer interface {
	// Join enters random matchmaking.
	Join(*JoinRequest, grpc.ServerStreamingServer[JoinResponse]) error
	// MakeLobby opens a private lobby.
	MakeLobby(*MakeLobbyRequest, grpc.ServerStreamingServer[MakeLobbyResponse]) error
	// JoinLobby claims a private lobby by code.
	JoinLobby(*JoinLobbyRequest, grpc.ServerStreamingServer[JoinResponse]) error
	// SubscribeBoard streams game snapshots to a paired player.
	SubscribeBoard(*SubscribeBoardRequest, grpc.ServerStreamingServer[SubscribeBoardResponse]) error
	// MovePiece plays one move.
	MovePiece(context.Context, *MovePieceRequest) (*MovePieceResponse, error)
}

// UnimplementedGameServiceServer answers every method with Unimplemented.
// Embed it by value.
type UnimplementedGameServiceServer struct{}

func (UnimplementedGameServiceServer) Join(*JoinRequest, grpc.ServerStreamingServer[JoinResponse]) error {
	return status.Error(codes.Unimplemented, "method Join not implemented")
}

func (UnimplementedGameServiceServer) MakeLobby(*MakeLobbyRequest, grpc.ServerStreamingServer[MakeLobbyResponse]) error {
	return status.Error(codes.Unimplemented, "method MakeLobby not implemented")
}

func (UnimplementedGameServiceServer) JoinLobby(*JoinLobbyRequest, grpc.ServerStreamingServer[JoinResponse]) error {
	return status.Error(codes.Unimplemented, "method JoinLobby not implemented")
}

func (UnimplementedGameServiceServer) SubscribeBoard(*SubscribeBoardRequest, grpc.ServerStreamingServer[SubscribeBoardResponse]) error {
	return status.Error(codes.Unimplemented, "method SubscribeBoard not implemented")
}

func (UnimplementedGameServiceServer) MovePiece(context.Context, *MovePieceRequest) (*MovePieceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MovePiece not implemented")
}

// RegisterGameServiceServer registers srv on s.
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameService_ServiceDesc, srv)
}

func _GameService_MovePiece_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MovePieceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServiceServer).MovePiece(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GameService_MovePiece_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServiceServer).MovePiece(ctx, req.(*MovePieceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GameService_Join_Handler(srv any, stream grpc.ServerStream) error {
	m := new(JoinRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(GameServiceServer).Join(m, &grpc.GenericServerStream[JoinRequest, JoinResponse]{ServerStream: stream})
}

func _GameService_MakeLobby_Handler(srv any, stream grpc.ServerStream) error {
	m := new(MakeLobbyRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(GameServiceServer).MakeLobby(m, &grpc.GenericServerStream[MakeLobbyRequest, MakeLobbyResponse]{ServerStream: stream})
}

func _GameService_JoinLobby_Handler(srv any, stream grpc.ServerStream) error {
	m := new(JoinLobbyRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(GameServiceServer).JoinLobby(m, &grpc.GenericServerStream[JoinLobbyRequest, JoinResponse]{ServerStream: stream})
}

func _GameService_SubscribeBoard_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeBoardRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(GameServiceServer).SubscribeBoard(m, &grpc.GenericServerStream[SubscribeBoardRequest, SubscribeBoardResponse]{ServerStream: stream})
}

// GameService_ServiceDesc describes chesstactoe.v1.GameService.
var GameService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chesstactoe.v1.GameService",
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "MovePiece",
			Handler:    _GameService_MovePiece_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Join",
			Handler:       _GameService_Join_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "MakeLobby",
			Handler:       _GameService_MakeLobby_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "JoinLobby",
			Handler:       _GameService_JoinLobby_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "SubscribeBoard",
			Handler:       _GameService_SubscribeBoard_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "chesstactoe/v1/game.proto",
}

// GameServiceClient is the client API for GameService.
type GameServiceClient interface {
	Join(ctx context.Context, in *JoinRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JoinResponse], error)
	MakeLobby(ctx context.Context, in *MakeLobbyRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MakeLobbyResponse], error)
	JoinLobby(ctx context.Context, in *JoinLobbyRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JoinResponse], error)
	SubscribeBoard(ctx context.Context, in *SubscribeBoardRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SubscribeBoardResponse], error)
	MovePiece(ctx context.Context, in *MovePieceRequest, opts ...grpc.CallOption) (*MovePieceResponse, error)
}

type gameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient returns a client that sends JSON-coded messages.
func NewGameServiceClient(cc grpc.ClientConnInterface) GameServiceClient {
	return &gameServiceClient{cc: cc}
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.StaticMethod(), grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *gameServiceClient) MovePiece(ctx context.Context, in *MovePieceRequest, opts ...grpc.CallOption) (*MovePieceResponse, error) {
	out := new(MovePieceResponse)
	if err := c.cc.Invoke(ctx, GameService_MovePiece_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameServiceClient) Join(ctx context.Context, in *JoinRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JoinResponse], error) {
	return openStream[JoinRequest, JoinResponse](ctx, c.cc, 0, GameService_Join_FullMethodName, in, opts)
}

func (c *gameServiceClient) MakeLobby(ctx context.Context, in *MakeLobbyRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MakeLobbyResponse], error) {
	return openStream[MakeLobbyRequest, MakeLobbyResponse](ctx, c.cc, 1, GameService_MakeLobby_FullMethodName, in, opts)
}

func (c *gameServiceClient) JoinLobby(ctx context.Context, in *JoinLobbyRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JoinResponse], error) {
	return openStream[JoinLobbyRequest, JoinResponse](ctx, c.cc, 2, GameService_JoinLobby_FullMethodName, in, opts)
}

func (c *gameServiceClient) SubscribeBoard(ctx context.Context, in *SubscribeBoardRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SubscribeBoardResponse], error) {
	return openStream[SubscribeBoardRequest, SubscribeBoardResponse](ctx, c.cc, 3, GameService_SubscribeBoard_FullMethodName, in, opts)
}

func openStream[Req, Res any](ctx context.Context, cc grpc.ClientConnInterface, index int, method string, in *Req, opts []grpc.CallOption) (grpc.ServerStreamingClient[Res], error) {
	stream, err := cc.NewStream(ctx, &GameService_ServiceDesc.Streams[index], method, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[Req, Res]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

package game

import (
	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
	"github.com/louisbranch/chesstactoe/internal/services/game/directory"
	"github.com/louisbranch/chesstactoe/internal/services/game/domain/chess"
)

// JoinResponse converts a pairing update to its wire form.
func JoinResponse(u directory.JoinUpdate) *gamev1.JoinResponse {
	status := gamev1.JoinStatus_NOT_READY
	if u.Status == directory.StatusReady {
		status = gamev1.JoinStatus_READY
	}
	return &gamev1.JoinResponse{Status: status, Uuid: u.Identity}
}

func colorToProto(c chess.Color) gamev1.Color {
	if c == chess.Black {
		return gamev1.Color_BLACK
	}
	return gamev1.Color_WHITE
}

func endResultToProto(o chess.Outcome) *gamev1.EndResult {
	if o == chess.Draw {
		return &gamev1.EndResult{Kind: gamev1.EndKind_DRAW}
	}
	if winner, ok := o.Winner(); ok {
		return &gamev1.EndResult{Kind: gamev1.EndKind_WINNER, Winner: colorToProto(winner)}
	}
	return &gamev1.EndResult{Kind: gamev1.EndKind_NONE}
}

// SnapshotResponse converts a snapshot to its wire form.
func SnapshotResponse(s directory.Snapshot) *gamev1.SubscribeBoardResponse {
	chesses := make([]*gamev1.Chess, len(s.Boards))
	for i, b := range s.Boards {
		chesses[i] = &gamev1.Chess{Fen: b.FEN, EndResult: endResultToProto(b.Outcome)}
	}
	return &gamev1.SubscribeBoardResponse{
		Color: colorToProto(s.Color),
		Game: &gamev1.TicTacToe{
			Chesses:   chesses,
			Next:      colorToProto(s.Turn),
			LastMove:  s.LastMove,
			Seq:       s.Seq,
			EndResult: endResultToProto(s.Outcome),
		},
	}
}

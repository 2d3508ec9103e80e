package gamev1

// JoinStatus reports whether a player has been paired.
type JoinStatus string

const (
	JoinStatus_NOT_READY JoinStatus = "NOT_READY"
	JoinStatus_READY     JoinStatus = "READY"
)

// Color is a side of the board.
type Color string

const (
	Color_WHITE Color = "WHITE"
	Color_BLACK Color = "BLACK"
)

// EndKind classifies a board or grid result.
type EndKind string

const (
	EndKind_NONE   EndKind = "NONE"
	EndKind_WINNER EndKind = "WINNER"
	EndKind_DRAW   EndKind = "DRAW"
)

type JoinRequest struct{}

type JoinResponse struct {
	Status JoinStatus `json:"status"`
	// Uuid is the caller's identity for every later call.
	Uuid string `json:"uuid"`
}

func (x *JoinResponse) GetStatus() JoinStatus {
	if x == nil {
		return JoinStatus_NOT_READY
	}
	return x.Status
}

func (x *JoinResponse) GetUuid() string {
	if x == nil {
		return ""
	}
	return x.Uuid
}

type MakeLobbyRequest struct{}

type MakeLobbyResponse struct {
	RoomId       string        `json:"room_id"`
	JoinResponse *JoinResponse `json:"join_response"`
}

func (x *MakeLobbyResponse) GetRoomId() string {
	if x == nil {
		return ""
	}
	return x.RoomId
}

func (x *MakeLobbyResponse) GetJoinResponse() *JoinResponse {
	if x == nil {
		return nil
	}
	return x.JoinResponse
}

type JoinLobbyRequest struct {
	Code string `json:"code"`
}

func (x *JoinLobbyRequest) GetCode() string {
	if x == nil {
		return ""
	}
	return x.Code
}

type SubscribeBoardRequest struct {
	Uuid string `json:"uuid"`
}

func (x *SubscribeBoardRequest) GetUuid() string {
	if x == nil {
		return ""
	}
	return x.Uuid
}

type SubscribeBoardResponse struct {
	// Color is the recipient's side.
	Color Color      `json:"color"`
	Game  *TicTacToe `json:"game"`
}

func (x *SubscribeBoardResponse) GetColor() Color {
	if x == nil {
		return ""
	}
	return x.Color
}

func (x *SubscribeBoardResponse) GetGame() *TicTacToe {
	if x == nil {
		return nil
	}
	return x.Game
}

// TicTacToe is the full grid: nine boards in row-major order.
type TicTacToe struct {
	Chesses []*Chess `json:"chesses"`
	Next    Color    `json:"next"`
	// LastMove is "<board> <alg>", empty before the first move.
	LastMove  string     `json:"last_move"`
	Seq       uint64     `json:"seq"`
	EndResult *EndResult `json:"end_result"`
}

func (x *TicTacToe) GetChesses() []*Chess {
	if x == nil {
		return nil
	}
	return x.Chesses
}

func (x *TicTacToe) GetNext() Color {
	if x == nil {
		return ""
	}
	return x.Next
}

func (x *TicTacToe) GetLastMove() string {
	if x == nil {
		return ""
	}
	return x.LastMove
}

func (x *TicTacToe) GetSeq() uint64 {
	if x == nil {
		return 0
	}
	return x.Seq
}

func (x *TicTacToe) GetEndResult() *EndResult {
	if x == nil {
		return nil
	}
	return x.EndResult
}

type Chess struct {
	Fen       string     `json:"fen"`
	EndResult *EndResult `json:"end_result"`
}

func (x *Chess) GetFen() string {
	if x == nil {
		return ""
	}
	return x.Fen
}

func (x *Chess) GetEndResult() *EndResult {
	if x == nil {
		return nil
	}
	return x.EndResult
}

type EndResult struct {
	Kind EndKind `json:"kind"`
	// Winner is set when Kind is WINNER.
	Winner Color `json:"winner,omitempty"`
}

func (x *EndResult) GetKind() EndKind {
	if x == nil {
		return EndKind_NONE
	}
	return x.Kind
}

func (x *EndResult) GetWinner() Color {
	if x == nil {
		return ""
	}
	return x.Winner
}

type MovePieceRequest struct {
	Uuid string `json:"uuid"`
	// Board is 0..8, row-major.
	Board int32  `json:"board"`
	Alg   string `json:"alg"`
}

func (x *MovePieceRequest) GetUuid() string {
	if x == nil {
		return ""
	}
	return x.Uuid
}

func (x *MovePieceRequest) GetBoard() int32 {
	if x == nil {
		return 0
	}
	return x.Board
}

func (x *MovePieceRequest) GetAlg() string {
	if x == nil {
		return ""
	}
	return x.Alg
}

type MovePieceResponse struct {
	Accepted bool `json:"accepted"`
}

func (x *MovePieceResponse) GetAccepted() bool {
	if x == nil {
		return false
	}
	return x.Accepted
}

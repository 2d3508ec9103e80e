package ws

import "encoding/json"

// Client frame types.
const (
	FrameJoin        = "game.join"
	FrameLobbyCreate = "game.lobby.create"
	FrameLobbyJoin   = "game.lobby.join"
	FrameSubscribe   = "game.subscribe"
	FrameMove        = "game.move"
)

// Server frame types.
const (
	FrameStatus   = "game.status"
	FrameSnapshot = "game.snapshot"
	FrameAck      = "game.ack"
	FrameError    = "error"
)

// Frame is one WebSocket message in either direction.
type Frame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type lobbyJoinPayload struct {
	Code string `json:"code"`
}

type subscribePayload struct {
	Uuid string `json:"uuid"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Package ws binds the game service to WebSocket connections.
//
// Clients exchange JSON frames of the form
// {"type": ..., "request_id": ..., "payload": ...}. Client frames are
// game.join, game.lobby.create, game.lobby.join, game.subscribe and
// game.move. The server answers with game.status, game.snapshot, game.ack
// and error frames. Payloads use the same JSON shapes as the gRPC service.
package ws

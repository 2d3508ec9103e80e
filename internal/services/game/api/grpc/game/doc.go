// Package game implements chesstactoe.v1.GameService on top of the session
// directory.
//
// Join, MakeLobby and JoinLobby stream pairing updates and end once the
// caller is paired. SubscribeBoard streams snapshots until the client goes
// away or subscribes again elsewhere. MovePiece is the only call that
// changes a game.
package game

// Package directory pairs players into chess-tac-toe sessions and fans out
// board snapshots to them.
//
// Players enter through the random queue (JoinRandom) or a private lobby
// (MakeLobby, JoinLobby). Either path hands back a Membership whose outbox
// reports "waiting" and then "ready". Once paired, a player addresses the
// session by identity: Subscribe attaches a snapshot outbox and Move plays on
// one of the nine boards.
//
// Moves on one session are serialized by the session's mutex and each
// accepted move is broadcast to both subscribers before the lock is released,
// so every subscriber sees snapshots in move order. Broadcast failures are
// logged and counted; they never fail the move.
package directory

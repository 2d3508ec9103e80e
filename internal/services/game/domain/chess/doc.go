// Package chess models a single board of chess-tac-toe.
//
// The rules are standard chess movement with one deliberate difference: a
// game ends when a king is captured, not on checkmate. Moves that leave the
// mover's own king attacked are legal. Attack detection is only consulted
// when castling, which may not start from, pass through, or land on an
// attacked square.
//
// Positions round-trip through FEN (see ParseFEN and FormatFEN). A board
// that reaches the same piece placement three times is drawn.
package chess

package chess

import "errors"

var (
	// ErrInvalidFormat reports malformed move or FEN text.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidSquare reports a square name outside a1..h8.
	ErrInvalidSquare = errors.New("invalid square")
	// ErrGameOver reports a move attempted on a decided board.
	ErrGameOver = errors.New("game over")
	// ErrInvalidMove reports a well-formed move that the rules reject.
	ErrInvalidMove = errors.New("invalid move")
)

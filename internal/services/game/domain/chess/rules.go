package chess

import "fmt"

// Validate reports whether mover may play alg on the board. Malformed input
// fails with ErrInvalidFormat and a decided board fails with ErrGameOver;
// an illegal but well-formed move returns false without an error.
func (b *Board) Validate(alg string, mover Color) (bool, error) {
	_, ok, err := b.check(alg, mover)
	return ok, err
}

// Execute validates alg and applies it for mover. An illegal move fails
// with ErrInvalidMove. The board is left untouched on any error.
func (b *Board) Execute(alg string, mover Color) error {
	mv, ok, err := b.check(alg, mover)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidMove, alg)
	}

	if mv.Castle {
		b.castle(mv.Side, mover)
	} else {
		b.move(mv, mover)
	}
	if mover == Black {
		b.Fullmove++
	}
	b.recordPosition()
	return nil
}

func (b *Board) check(alg string, mover Color) (Move, bool, error) {
	mv, err := ParseMove(alg)
	if err != nil {
		return Move{}, false, err
	}
	if b.Outcome.Decided() {
		return Move{}, false, fmt.Errorf("%w: board is %s", ErrGameOver, b.Outcome)
	}
	if mv.Castle {
		return mv, b.canCastle(mv.Side, mover), nil
	}
	return mv, b.legal(mv, mover), nil
}

func (b *Board) legal(mv Move, mover Color) bool {
	moving := b.At(mv.From)
	if !moving.Is(mover, mv.Piece) {
		return false
	}
	target := b.At(mv.To)
	if mv.Capture {
		opponent := !target.IsEmpty() && target.Color != mover
		enPassant := mv.Piece == Pawn && target.IsEmpty() && mv.To == b.EnPassant
		if !opponent && !enPassant {
			return false
		}
	} else if !target.IsEmpty() {
		return false
	}

	dr, dc := mv.To.Row-mv.From.Row, mv.To.Col-mv.From.Col
	switch mv.Piece {
	case Pawn:
		if !b.pawnReaches(mv, mover, dr, dc) {
			return false
		}
		if mv.To.Row == mover.Opponent().homeRow() && !promotionKinds[mv.Promotion] {
			return false
		}
		return true
	case Knight:
		return (abs(dr) == 1 && abs(dc) == 2) || (abs(dr) == 2 && abs(dc) == 1)
	case Bishop:
		return b.diagonalClear(mv.From, dr, dc)
	case Rook:
		return b.straightClear(mv.From, dr, dc)
	case Queen:
		return b.diagonalClear(mv.From, dr, dc) || b.straightClear(mv.From, dr, dc)
	case King:
		return abs(dr) <= 1 && abs(dc) <= 1 && (dr != 0 || dc != 0)
	default:
		return false
	}
}

// pawnReaches checks pawn geometry. Diagonal steps require the capture
// marker and straight steps forbid it; occupancy of the destination has
// already been checked against the marker.
func (b *Board) pawnReaches(mv Move, mover Color, dr, dc int) bool {
	fwd := mover.forward()
	if mv.Capture {
		return dr == fwd && abs(dc) == 1
	}
	if dc != 0 {
		return false
	}
	switch dr {
	case fwd:
		return true
	case 2 * fwd:
		passed := Square{Row: mv.From.Row + fwd, Col: mv.From.Col}
		return mv.From.Row == mover.pawnRow() && b.At(passed).IsEmpty()
	default:
		return false
	}
}

func (b *Board) diagonalClear(from Square, dr, dc int) bool {
	if dr == 0 || abs(dr) != abs(dc) {
		return false
	}
	return b.pathClear(from, dr, dc)
}

func (b *Board) straightClear(from Square, dr, dc int) bool {
	if (dr == 0) == (dc == 0) {
		return false
	}
	return b.pathClear(from, dr, dc)
}

// pathClear reports whether every square strictly between from and
// from+(dr,dc) is empty. The delta must be straight or diagonal.
func (b *Board) pathClear(from Square, dr, dc int) bool {
	stepR, stepC := sign(dr), sign(dc)
	steps := max(abs(dr), abs(dc))
	for i := 1; i < steps; i++ {
		sq := Square{Row: from.Row + i*stepR, Col: from.Col + i*stepC}
		if !b.At(sq).IsEmpty() {
			return false
		}
	}
	return true
}

type castleLayout struct {
	rookFrom, rookTo int
	kingTo           int
	between          []int
	kingPath         []int
}

var castleLayouts = [2]castleLayout{
	KingSide: {
		rookFrom: 7, rookTo: 5, kingTo: 6,
		between:  []int{5, 6},
		kingPath: []int{5, 6},
	},
	QueenSide: {
		rookFrom: 0, rookTo: 3, kingTo: 2,
		between:  []int{1, 2, 3},
		kingPath: []int{3, 2},
	},
}

const kingCol = 4

func (b *Board) canCastle(side CastleSide, mover Color) bool {
	if !b.Castling[mover][side] {
		return false
	}
	row := mover.homeRow()
	layout := castleLayouts[side]
	if !b.At(Square{Row: row, Col: kingCol}).Is(mover, King) {
		return false
	}
	if !b.At(Square{Row: row, Col: layout.rookFrom}).Is(mover, Rook) {
		return false
	}
	for _, col := range layout.between {
		if !b.At(Square{Row: row, Col: col}).IsEmpty() {
			return false
		}
	}
	attacker := mover.Opponent()
	if IsAttacked(b, Square{Row: row, Col: kingCol}, attacker) {
		return false
	}
	for _, col := range layout.kingPath {
		if IsAttacked(b, Square{Row: row, Col: col}, attacker) {
			return false
		}
	}
	return true
}

func (b *Board) castle(side CastleSide, mover Color) {
	row := mover.homeRow()
	layout := castleLayouts[side]
	king := b.At(Square{Row: row, Col: kingCol})
	rook := b.At(Square{Row: row, Col: layout.rookFrom})
	b.set(Square{Row: row, Col: kingCol}, Piece{})
	b.set(Square{Row: row, Col: layout.rookFrom}, Piece{})
	b.set(Square{Row: row, Col: layout.kingTo}, king)
	b.set(Square{Row: row, Col: layout.rookTo}, rook)

	b.Castling[mover] = [2]bool{}
	b.EnPassant = NoSquare
	b.Halfmove++
}

func (b *Board) move(mv Move, mover Color) {
	moving := b.At(mv.From)
	captured := b.At(mv.To)

	if mv.Piece == Pawn && mv.Capture && captured.IsEmpty() && mv.To == b.EnPassant {
		b.set(Square{Row: mv.To.Row - mover.forward(), Col: mv.To.Col}, Piece{})
	}
	b.set(mv.From, Piece{})
	b.set(mv.To, moving)

	if captured.Is(mover.Opponent(), King) {
		b.Outcome = WonBy(mover)
	}
	b.revokeCastling(mv.From, moving)
	if !captured.IsEmpty() {
		b.revokeCastling(mv.To, captured)
	}

	b.EnPassant = NoSquare
	if mv.Piece == Pawn && abs(mv.To.Row-mv.From.Row) == 2 {
		b.EnPassant = Square{Row: mv.From.Row + mover.forward(), Col: mv.From.Col}
	}

	if mv.Piece == Pawn || mv.Capture {
		b.Halfmove = 0
	} else {
		b.Halfmove++
	}

	if mv.Piece == Pawn && mv.To.Row == mover.Opponent().homeRow() {
		b.set(mv.To, Piece{Kind: mv.Promotion, Color: mover})
	}
}

// revokeCastling clears the rights tied to a king or home-square rook that
// left (or was captured on) sq.
func (b *Board) revokeCastling(sq Square, p Piece) {
	if sq.Row != p.Color.homeRow() {
		return
	}
	switch {
	case p.Kind == King && sq.Col == kingCol:
		b.Castling[p.Color] = [2]bool{}
	case p.Kind == Rook && sq.Col == castleLayouts[KingSide].rookFrom:
		b.Castling[p.Color][KingSide] = false
	case p.Kind == Rook && sq.Col == castleLayouts[QueenSide].rookFrom:
		b.Castling[p.Color][QueenSide] = false
	}
}

// recordPosition appends the current placement and declares a draw on its
// third occurrence.
func (b *Board) recordPosition() {
	placement := formatPlacement(b)
	seen := 0
	for _, prior := range b.History {
		if prior == placement {
			seen++
		}
	}
	b.History = append(b.History, placement)
	if seen >= 2 && !b.Outcome.Decided() {
		b.Outcome = Draw
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

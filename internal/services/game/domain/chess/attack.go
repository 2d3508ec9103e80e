package chess

var (
	diagonalRays   = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonalRays = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	knightOffsets  = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// IsAttacked reports whether a piece of attacker's color attacks sq through
// a sliding ray, a pawn diagonal or a knight jump. Kings are not counted.
func IsAttacked(b *Board, sq Square, attacker Color) bool {
	for _, ray := range diagonalRays {
		p := firstOnRay(b, sq, ray)
		if p.Color == attacker && (p.Kind == Bishop || p.Kind == Queen) {
			return true
		}
	}
	for _, ray := range orthogonalRays {
		p := firstOnRay(b, sq, ray)
		if p.Color == attacker && (p.Kind == Rook || p.Kind == Queen) {
			return true
		}
	}

	// A pawn attacks one row ahead of itself, so look one row behind sq
	// from the attacker's point of view.
	pawnRow := sq.Row - attacker.forward()
	for _, dc := range [2]int{-1, 1} {
		from := Square{Row: pawnRow, Col: sq.Col + dc}
		if from.Valid() && b.At(from).Is(attacker, Pawn) {
			return true
		}
	}

	for _, off := range knightOffsets {
		from := Square{Row: sq.Row + off[0], Col: sq.Col + off[1]}
		if from.Valid() && b.At(from).Is(attacker, Knight) {
			return true
		}
	}
	return false
}

func firstOnRay(b *Board, sq Square, ray [2]int) Piece {
	cur := Square{Row: sq.Row + ray[0], Col: sq.Col + ray[1]}
	for cur.Valid() {
		if p := b.At(cur); !p.IsEmpty() {
			return p
		}
		cur = Square{Row: cur.Row + ray[0], Col: cur.Col + ray[1]}
	}
	return Piece{}
}

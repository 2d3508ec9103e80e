package chess

import "fmt"

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// String returns the lowercase color name.
func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Letter returns the FEN active-color letter.
func (c Color) Letter() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// forward is the row delta a pawn of this color advances by.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// homeRow is the back rank for the color's pieces.
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return 7
}

// pawnRow is the rank pawns of this color start on.
func (c Color) pawnRow() int {
	if c == White {
		return 1
	}
	return 6
}

// Kind is a piece type. The zero value marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is a colored piece. A Piece with Kind NoKind is an empty square.
type Piece struct {
	Kind  Kind
	Color Color
}

// IsEmpty reports whether the square holds no piece.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Is reports whether p is a piece of the given color and kind.
func (p Piece) Is(color Color, kind Kind) bool {
	return p.Kind == kind && p.Color == color
}

// Square addresses a cell. Row 0 is rank 1 and Col 0 is file a.
type Square struct {
	Row int
	Col int
}

// NoSquare is the sentinel for an absent square, e.g. no en-passant target.
var NoSquare = Square{Row: -1, Col: -1}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// String returns the algebraic name, or "-" for an off-board square.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return FormatSquare(s)
}

// CastleSide selects kingside or queenside castling.
type CastleSide uint8

const (
	KingSide CastleSide = iota
	QueenSide
)

// CastlingRights holds the FEN castling flags indexed by color then side.
type CastlingRights [2][2]bool

// Outcome is the terminal state of a board. Undecided is the only
// non-terminal value.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWon
	BlackWon
	Draw
)

// WonBy returns the outcome where color won.
func WonBy(color Color) Outcome {
	if color == White {
		return WhiteWon
	}
	return BlackWon
}

// Decided reports whether the outcome is terminal.
func (o Outcome) Decided() bool {
	return o != Undecided
}

// Winner returns the winning color when the outcome is a win.
func (o Outcome) Winner() (Color, bool) {
	switch o {
	case WhiteWon:
		return White, true
	case BlackWon:
		return Black, true
	default:
		return White, false
	}
}

func (o Outcome) String() string {
	switch o {
	case WhiteWon:
		return "white_won"
	case BlackWon:
		return "black_won"
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

// Board is the full state of one chess board. It is mutated only by Execute.
type Board struct {
	Cells     [8][8]Piece
	Castling  CastlingRights
	EnPassant Square
	Halfmove  int
	Fullmove  int
	Outcome   Outcome
	// History holds the placement field of every position reached,
	// starting with the position the board was created from.
	History []string
}

// NewBoard returns a board in the standard initial position.
func NewBoard() *Board {
	b, err := ParseFEN(InitialFEN)
	if err != nil {
		panic("chess: initial position does not parse: " + err.Error())
	}
	return b
}

// At returns the piece on sq.
func (b *Board) At(sq Square) Piece {
	return b.Cells[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b.Cells[sq.Row][sq.Col] = p
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := *b
	out.History = append([]string(nil), b.History...)
	return &out
}

// RestoreHistory replaces the repetition history of a board decoded from
// FEN, which only knows its current placement. The history must end at the
// current placement. A placement seen three times marks the board drawn.
func (b *Board) RestoreHistory(history []string) error {
	placement := formatPlacement(b)
	if len(history) == 0 || history[len(history)-1] != placement {
		return fmt.Errorf("%w: history does not end at %s", ErrInvalidFormat, placement)
	}
	seen := 0
	for _, prior := range history {
		if prior == placement {
			seen++
		}
	}
	b.History = append([]string(nil), history...)
	if seen >= 3 && !b.Outcome.Decided() {
		b.Outcome = Draw
	}
	return nil
}

// Placement returns the FEN piece-placement field for the board.
func (b *Board) Placement() string {
	return formatPlacement(b)
}

// countKings returns the number of kings of color on the board.
func (b *Board) countKings(color Color) int {
	n := 0
	for row := range 8 {
		for col := range 8 {
			if b.Cells[row][col].Is(color, King) {
				n++
			}
		}
	}
	return n
}

// hasKing reports whether a king of color is on the board.
func (b *Board) hasKing(color Color) bool {
	for row := range 8 {
		for col := range 8 {
			if b.Cells[row][col].Is(color, King) {
				return true
			}
		}
	}
	return false
}

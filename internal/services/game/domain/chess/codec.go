package chess

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// InitialFEN is the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var moveGrammar = regexp.MustCompile(`^(?:(O-O-O)|(O-O)|([RNBQK]?)([a-h][1-8])(x?)([a-h][1-8])([RNBQK]?))$`)

// promotionKinds are the letters accepted after a pawn reaches the last rank.
// King is accepted for compatibility with existing clients.
var promotionKinds = map[Kind]bool{
	Queen:  true,
	Rook:   true,
	Bishop: true,
	Knight: true,
	King:   true,
}

// Move is a decoded algebraic move.
type Move struct {
	// Castle is set for O-O and O-O-O; Side then selects the rook.
	Castle bool
	Side   CastleSide

	Piece     Kind
	From      Square
	To        Square
	Capture   bool
	Promotion Kind
}

// ParseSquare decodes a square name such as "e4".
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
	}
	file, rank := text[0], text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
	}
	return Square{Row: int(rank - '1'), Col: int(file - 'a')}, nil
}

// FormatSquare encodes sq as its algebraic name. It panics on an off-board
// square.
func FormatSquare(sq Square) string {
	if !sq.Valid() {
		panic(fmt.Sprintf("chess: format square out of range: %d,%d", sq.Row, sq.Col))
	}
	return string([]byte{byte('a' + sq.Col), byte('1' + sq.Row)})
}

// ParseMove decodes the compact algebraic notation used on the wire:
// "O-O", "O-O-O" or an optional piece letter, a start square, an optional
// "x", an end square and an optional promotion letter. A missing piece
// letter means a pawn.
func ParseMove(alg string) (Move, error) {
	m := moveGrammar.FindStringSubmatch(alg)
	if m == nil {
		return Move{}, fmt.Errorf("%w: move %q", ErrInvalidFormat, alg)
	}
	switch {
	case m[1] != "":
		return Move{Castle: true, Side: QueenSide}, nil
	case m[2] != "":
		return Move{Castle: true, Side: KingSide}, nil
	}

	mv := Move{Piece: Pawn, Capture: m[5] == "x"}
	if m[3] != "" {
		mv.Piece = kindFromLetter(m[3][0])
	}
	if m[7] != "" {
		mv.Promotion = kindFromLetter(m[7][0])
	}
	// The grammar only admits valid squares here.
	mv.From, _ = ParseSquare(m[4])
	mv.To, _ = ParseSquare(m[6])
	return mv, nil
}

// ParseFEN decodes a six-field FEN record. The active color is checked but
// not stored, since the side to move is owned by the meta game. The outcome
// is derived from king presence and the history is seeded with the parsed
// placement. A color may have at most one king.
func ParseFEN(fen string) (*Board, error) {
	return parseFEN(fen, false)
}

// ParseSavedFEN is ParseFEN for boards this package produced. It accepts a
// second king of one color, which promotion to King can leave behind.
func ParseSavedFEN(fen string) (*Board, error) {
	return parseFEN(fen, true)
}

func parseFEN(fen string, extraKings bool) (*Board, error) {
	fields := strings.Split(fen, " ")
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: fen has %d fields, want 6", ErrInvalidFormat, len(fields))
	}

	b := &Board{EnPassant: NoSquare}
	if err := parsePlacement(b, fields[0]); err != nil {
		return nil, err
	}
	if !extraKings {
		for _, color := range [2]Color{White, Black} {
			if n := b.countKings(color); n > 1 {
				return nil, fmt.Errorf("%w: %s has %d kings", ErrInvalidFormat, color, n)
			}
		}
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("%w: active color %q", ErrInvalidFormat, fields[1])
	}
	if err := parseCastling(b, fields[2]); err != nil {
		return nil, err
	}
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %w", ErrInvalidFormat, err)
		}
		b.EnPassant = sq
	}
	halfmove, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFormat, fields[4])
	}
	fullmove, err := strconv.ParseUint(fields[5], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFormat, fields[5])
	}
	b.Halfmove = int(halfmove)
	b.Fullmove = int(fullmove)

	switch {
	case !b.hasKing(Black):
		b.Outcome = WhiteWon
	case !b.hasKing(White):
		b.Outcome = BlackWon
	}
	b.History = []string{fields[0]}
	return b, nil
}

// FormatFEN encodes the board with turn as the active color.
func FormatFEN(b *Board, turn Color) string {
	var sb strings.Builder
	sb.WriteString(formatPlacement(b))
	sb.WriteByte(' ')
	sb.WriteByte(turn.Letter())
	sb.WriteByte(' ')
	sb.WriteString(formatCastling(b.Castling))
	sb.WriteByte(' ')
	sb.WriteString(b.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.Halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.Fullmove))
	return sb.String()
}

func parsePlacement(b *Board, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: placement has %d ranks, want 8", ErrInvalidFormat, len(ranks))
	}
	for i, rank := range ranks {
		row := 7 - i
		col := 0
		for j := 0; j < len(rank); j++ {
			c := rank[j]
			if c >= '1' && c <= '8' {
				if j > 0 && rank[j-1] >= '1' && rank[j-1] <= '8' {
					return fmt.Errorf("%w: rank %d has adjacent digits", ErrInvalidFormat, row+1)
				}
				col += int(c - '0')
				if col > 8 {
					return fmt.Errorf("%w: rank %d is too long", ErrInvalidFormat, row+1)
				}
				continue
			}
			piece, ok := pieceFromLetter(c)
			if !ok {
				return fmt.Errorf("%w: unknown piece %q", ErrInvalidFormat, c)
			}
			if col >= 8 {
				return fmt.Errorf("%w: rank %d is too long", ErrInvalidFormat, row+1)
			}
			b.Cells[row][col] = piece
			col++
		}
		if col != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFormat, row+1, col)
		}
	}
	return nil
}

func formatPlacement(b *Board) string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := range 8 {
			p := b.Cells[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceLetter(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func parseCastling(b *Board, field string) error {
	if field == "-" {
		return nil
	}
	if field == "" {
		return fmt.Errorf("%w: empty castling field", ErrInvalidFormat)
	}
	for i := 0; i < len(field); i++ {
		var color Color
		var side CastleSide
		switch field[i] {
		case 'K':
			color, side = White, KingSide
		case 'Q':
			color, side = White, QueenSide
		case 'k':
			color, side = Black, KingSide
		case 'q':
			color, side = Black, QueenSide
		default:
			return fmt.Errorf("%w: castling flag %q", ErrInvalidFormat, field[i])
		}
		if b.Castling[color][side] {
			return fmt.Errorf("%w: repeated castling flag %q", ErrInvalidFormat, field[i])
		}
		b.Castling[color][side] = true
	}
	return nil
}

func formatCastling(r CastlingRights) string {
	var sb strings.Builder
	if r[White][KingSide] {
		sb.WriteByte('K')
	}
	if r[White][QueenSide] {
		sb.WriteByte('Q')
	}
	if r[Black][KingSide] {
		sb.WriteByte('k')
	}
	if r[Black][QueenSide] {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func kindFromLetter(c byte) Kind {
	switch c {
	case 'P':
		return Pawn
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	default:
		return NoKind
	}
}

func pieceFromLetter(c byte) (Piece, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	kind := kindFromLetter(c)
	if kind == NoKind {
		return Piece{}, false
	}
	return Piece{Kind: kind, Color: color}, true
}

func pieceLetter(p Piece) byte {
	var c byte
	switch p.Kind {
	case Pawn:
		c = 'P'
	case Knight:
		c = 'N'
	case Bishop:
		c = 'B'
	case Rook:
		c = 'R'
	case Queen:
		c = 'Q'
	case King:
		c = 'K'
	default:
		panic(fmt.Sprintf("chess: no letter for piece kind %d", p.Kind))
	}
	if p.Color == Black {
		c += 'a' - 'A'
	}
	return c
}

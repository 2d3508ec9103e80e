// Package metagame arranges nine chess boards in a tic-tac-toe grid that
// share a single turn.
package metagame

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/chesstactoe/internal/services/game/domain/chess"
)

// Size is the number of rows and columns in the grid.
const Size = 3

// ErrInvalidCoordinates reports a board address outside the grid.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

const (
	boardSeparator = `\`
	turnSeparator  = "+"
)

// Game is the 3x3 grid of boards plus the side to move on every board.
type Game struct {
	Boards [Size][Size]*chess.Board
	Turn   chess.Color
}

// New returns a game with nine boards in the initial position and White to
// move.
func New() *Game {
	g := &Game{Turn: chess.White}
	for row := range Size {
		for col := range Size {
			g.Boards[row][col] = chess.NewBoard()
		}
	}
	return g
}

// Coordinates converts a board index 0..8 into grid coordinates, row-major.
func Coordinates(index int) (row, col int, err error) {
	if index < 0 || index >= Size*Size {
		return 0, 0, fmt.Errorf("%w: board %d", ErrInvalidCoordinates, index)
	}
	return index / Size, index % Size, nil
}

// Board returns the board at row, col.
func (g *Game) Board(row, col int) (*chess.Board, error) {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrInvalidCoordinates, row, col)
	}
	return g.Boards[row][col], nil
}

// Validate reports whether the side to move may play alg on the board at
// row, col.
func (g *Game) Validate(row, col int, alg string) (bool, error) {
	b, err := g.Board(row, col)
	if err != nil {
		return false, err
	}
	return b.Validate(alg, g.Turn)
}

// Execute plays alg for the side to move on the board at row, col and passes
// the turn. The turn only passes when the move is applied.
func (g *Game) Execute(row, col int, alg string) error {
	b, err := g.Board(row, col)
	if err != nil {
		return err
	}
	if err := b.Execute(alg, g.Turn); err != nil {
		return err
	}
	g.Turn = g.Turn.Opponent()
	return nil
}

// Outcome scores the grid as tic-tac-toe: a line of three boards won by the
// same color wins, and a grid with every board decided and no such line is a
// draw. It is informational and does not stop play.
func (g *Game) Outcome() chess.Outcome {
	for _, line := range lines {
		first := g.cell(line[0]).Outcome
		if first != chess.WhiteWon && first != chess.BlackWon {
			continue
		}
		if g.cell(line[1]).Outcome == first && g.cell(line[2]).Outcome == first {
			return first
		}
	}
	for row := range Size {
		for col := range Size {
			if !g.Boards[row][col].Outcome.Decided() {
				return chess.Undecided
			}
		}
	}
	return chess.Draw
}

var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func (g *Game) cell(at [2]int) *chess.Board {
	return g.Boards[at[0]][at[1]]
}

// FEN encodes the game as nine board FENs joined by a backslash, then "+"
// and the turn letter. Every board FEN carries the game turn.
func (g *Game) FEN() string {
	return FormatFEN(g)
}

// FormatFEN encodes g; see Game.FEN.
func FormatFEN(g *Game) string {
	fens := make([]string, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			fens = append(fens, chess.FormatFEN(g.Boards[row][col], g.Turn))
		}
	}
	return strings.Join(fens, boardSeparator) + turnSeparator + string(g.Turn.Letter())
}

// ParseFEN decodes the format produced by FormatFEN.
func ParseFEN(text string) (*Game, error) {
	boardsPart, turnPart, ok := strings.Cut(text, turnSeparator)
	if !ok || strings.Contains(turnPart, turnSeparator) {
		return nil, fmt.Errorf("%w: meta fen needs one %q", chess.ErrInvalidFormat, turnSeparator)
	}

	g := &Game{}
	switch turnPart {
	case "w":
		g.Turn = chess.White
	case "b":
		g.Turn = chess.Black
	default:
		return nil, fmt.Errorf("%w: meta turn %q", chess.ErrInvalidFormat, turnPart)
	}

	fens := strings.Split(boardsPart, boardSeparator)
	if len(fens) != Size*Size {
		return nil, fmt.Errorf("%w: meta fen has %d boards, want %d", chess.ErrInvalidFormat, len(fens), Size*Size)
	}
	for i, fen := range fens {
		b, err := chess.ParseSavedFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("board %d: %w", i, err)
		}
		g.Boards[i/Size][i%Size] = b
	}
	return g, nil
}

package play

import (
	"fmt"
	"io"
	"strings"

	gamev1 "github.com/louisbranch/chesstactoe/api/game/v1"
)

const gridSize = 3

// renderSnapshot draws the nine boards as a 3x3 grid, rank 8 on top.
func renderSnapshot(w io.Writer, snap *gamev1.SubscribeBoardResponse) {
	game := snap.GetGame()
	fmt.Fprintf(w, "\nyou: %s  next: %s  seq: %d", snap.GetColor(), game.GetNext(), game.GetSeq())
	if last := game.GetLastMove(); last != "" {
		fmt.Fprintf(w, "  last: %s", last)
	}
	fmt.Fprintln(w)

	boards := game.GetChesses()
	for row := range gridSize {
		var labels []string
		ranks := make([][]string, gridSize)
		for col := range gridSize {
			index := row*gridSize + col
			var board *gamev1.Chess
			if index < len(boards) {
				board = boards[index]
			}
			labels = append(labels, fmt.Sprintf("%-8s", fmt.Sprintf("%d %s", index, resultMark(board.GetEndResult()))))
			ranks[col] = expandPlacement(board.GetFen())
		}
		fmt.Fprintln(w, strings.Join(labels, "  "))
		for rank := range 8 {
			line := make([]string, gridSize)
			for col := range gridSize {
				line[col] = ranks[col][rank]
			}
			fmt.Fprintln(w, strings.Join(line, "  "))
		}
		fmt.Fprintln(w)
	}
	if result := game.GetEndResult(); result.GetKind() != gamev1.EndKind_NONE {
		fmt.Fprintf(w, "grid result: %s\n", resultMark(result))
	}
}

func resultMark(r *gamev1.EndResult) string {
	switch r.GetKind() {
	case gamev1.EndKind_WINNER:
		return strings.ToLower(string(r.GetWinner()))
	case gamev1.EndKind_DRAW:
		return "draw"
	default:
		return ""
	}
}

// expandPlacement returns the eight ranks of a FEN placement with '.' for
// empty squares. Malformed input renders as blank ranks.
func expandPlacement(fen string) []string {
	out := make([]string, 8)
	for i := range out {
		out[i] = strings.Repeat(" ", 8)
	}
	placement, _, _ := strings.Cut(fen, " ")
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return out
	}
	for i, rank := range ranks {
		var b strings.Builder
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				b.WriteString(strings.Repeat(".", int(r-'0')))
				continue
			}
			b.WriteRune(r)
		}
		if b.Len() == 8 {
			out[i] = b.String()
		}
	}
	return out
}

package chess

import (
	"errors"
	"testing"
)

type step struct {
	alg string
	fen string
}

// openingWithCastlesAndEnPassant is a legal game covering both castles, a
// double step answered by en passant, and a recapture.
var openingWithCastlesAndEnPassant = []step{
	{"e2e4", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
	{"e7e5", "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"},
	{"Ng1f3", "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"},
	{"Nb8c6", "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"},
	{"Bf1c4", "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3"},
	{"Bf8c5", "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"},
	{"O-O", "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 b kq - 5 4"},
	{"Ng8f6", "r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 w kq - 6 5"},
	{"d2d3", "r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/3P1N2/PPP2PPP/RNBQ1RK1 b kq - 0 5"},
	{"O-O", "r1bq1rk1/pppp1ppp/2n2n2/2b1p3/2B1P3/3P1N2/PPP2PPP/RNBQ1RK1 w - - 1 6"},
	{"a2a4", "r1bq1rk1/pppp1ppp/2n2n2/2b1p3/P1B1P3/3P1N2/1PP2PPP/RNBQ1RK1 b - a3 0 6"},
	{"h7h6", "r1bq1rk1/pppp1pp1/2n2n1p/2b1p3/P1B1P3/3P1N2/1PP2PPP/RNBQ1RK1 w - - 0 7"},
	{"a4a5", "r1bq1rk1/pppp1pp1/2n2n1p/P1b1p3/2B1P3/3P1N2/1PP2PPP/RNBQ1RK1 b - - 0 7"},
	{"b7b5", "r1bq1rk1/p1pp1pp1/2n2n1p/Ppb1p3/2B1P3/3P1N2/1PP2PPP/RNBQ1RK1 w - b6 0 8"},
	{"a5xb6", "r1bq1rk1/p1pp1pp1/1Pn2n1p/2b1p3/2B1P3/3P1N2/1PP2PPP/RNBQ1RK1 b - - 0 8"},
	{"c7xb6", "r1bq1rk1/p2p1pp1/1pn2n1p/2b1p3/2B1P3/3P1N2/1PP2PPP/RNBQ1RK1 w - - 0 9"},
}

// play applies steps alternately from White and checks the FEN after each.
func play(t *testing.T, b *Board, first Color, steps []step) Color {
	t.Helper()
	mover := first
	for i, s := range steps {
		ok, err := b.Validate(s.alg, mover)
		if err != nil {
			t.Fatalf("step %d validate %s: %v", i, s.alg, err)
		}
		if !ok {
			t.Fatalf("step %d: %s rejected for %s", i, s.alg, mover)
		}
		if err := b.Execute(s.alg, mover); err != nil {
			t.Fatalf("step %d execute %s: %v", i, s.alg, err)
		}
		mover = mover.Opponent()
		if s.fen == "" {
			continue
		}
		if got := FormatFEN(b, mover); got != s.fen {
			t.Fatalf("step %d %s fen = %q, want %q", i, s.alg, got, s.fen)
		}
	}
	return mover
}

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return b
}

func TestExecuteTranscript(t *testing.T) {
	b := NewBoard()
	play(t, b, White, openingWithCastlesAndEnPassant)
	if b.Outcome != Undecided {
		t.Fatalf("outcome = %v, want undecided", b.Outcome)
	}
}

func TestRoundTripAlongTranscript(t *testing.T) {
	b := NewBoard()
	mover := White
	for _, s := range openingWithCastlesAndEnPassant {
		if err := b.Execute(s.alg, mover); err != nil {
			t.Fatalf("execute %s: %v", s.alg, err)
		}
		mover = mover.Opponent()
		back := mustParse(t, FormatFEN(b, mover))
		if back.Cells != b.Cells || back.Castling != b.Castling || back.EnPassant != b.EnPassant ||
			back.Halfmove != b.Halfmove || back.Fullmove != b.Fullmove {
			t.Fatalf("round trip after %s lost state: %q", s.alg, FormatFEN(back, mover))
		}
	}
}

func TestEnPassantTargetOnlyAfterDoubleStep(t *testing.T) {
	b := NewBoard()
	if err := b.Execute("d2d4", White); err != nil {
		t.Fatalf("d2d4: %v", err)
	}
	if b.EnPassant != (Square{Row: 2, Col: 3}) {
		t.Fatalf("en passant = %v, want d3", b.EnPassant)
	}
	if err := b.Execute("e7e6", Black); err != nil {
		t.Fatalf("e7e6: %v", err)
	}
	if b.EnPassant != NoSquare {
		t.Fatalf("en passant after single step = %v, want none", b.EnPassant)
	}
	if err := b.Execute("Ng1f3", White); err != nil {
		t.Fatalf("Ng1f3: %v", err)
	}
	if b.EnPassant != NoSquare {
		t.Fatalf("en passant after knight move = %v, want none", b.EnPassant)
	}
}

func TestEnPassantCaptureRemovesPassedPawn(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	if err := b.Execute("e2e4", White); err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if err := b.Execute("d4xe3", Black); err != nil {
		t.Fatalf("d4xe3: %v", err)
	}
	if got := FormatFEN(b, White); got != "4k3/8/8/8/8/4p3/8/4K3 w - - 0 2" {
		t.Fatalf("fen = %q", got)
	}
}

func TestEnPassantExpiresAfterOneMove(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	steps := []struct {
		alg   string
		mover Color
	}{{"e2e4", White}, {"Ke8e7", Black}, {"Ke1e2", White}}
	for _, s := range steps {
		if err := b.Execute(s.alg, s.mover); err != nil {
			t.Fatalf("%s: %v", s.alg, err)
		}
	}
	ok, err := b.Validate("d4xe3", Black)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok {
		t.Fatal("expected stale en passant capture to be rejected")
	}
}

func TestThreefoldRepetitionDraws(t *testing.T) {
	cycle := []step{
		{"Ng1f3", "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1"},
		{"Ng8f6", "rnbqkb1r/pppppppp/5n2/8/8/5N2/PPPPPPPP/RNBQKB1R w KQkq - 2 2"},
		{"Nf3g1", "rnbqkb1r/pppppppp/5n2/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 3 2"},
		{"Nf6g8", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 4 3"},
		{"Ng1f3", "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 5 3"},
		{"Ng8f6", "rnbqkb1r/pppppppp/5n2/8/8/5N2/PPPPPPPP/RNBQKB1R w KQkq - 6 4"},
		{"Nf3g1", "rnbqkb1r/pppppppp/5n2/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 7 4"},
		{"Nf6g8", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 8 5"},
	}
	b := NewBoard()
	play(t, b, White, cycle[:4])
	if b.Outcome != Undecided {
		t.Fatalf("outcome after second occurrence = %v, want undecided", b.Outcome)
	}
	play(t, b, White, cycle[4:])
	if b.Outcome != Draw {
		t.Fatalf("outcome = %v, want draw", b.Outcome)
	}
	if err := b.Execute("e2e4", White); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after draw error = %v, want ErrGameOver", err)
	}
}

func TestRestoreHistoryKeepsRepetitionCount(t *testing.T) {
	b := NewBoard()
	play(t, b, White, []step{{alg: "Ng1f3"}, {alg: "Ng8f6"}, {alg: "Nf3g1"}, {alg: "Nf6g8"}})

	restored := mustParse(t, FormatFEN(b, White))
	if err := restored.RestoreHistory(b.History); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Outcome != Undecided {
		t.Fatalf("outcome = %v, want undecided", restored.Outcome)
	}
	play(t, restored, White, []step{
		{"Ng1f3", "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 5 3"},
		{"Ng8f6", "rnbqkb1r/pppppppp/5n2/8/8/5N2/PPPPPPPP/RNBQKB1R w KQkq - 6 4"},
		{"Nf3g1", "rnbqkb1r/pppppppp/5n2/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 7 4"},
		{"Nf6g8", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 8 5"},
	})
	if restored.Outcome != Draw {
		t.Fatalf("outcome = %v, want draw", restored.Outcome)
	}

	drawn := mustParse(t, FormatFEN(restored, White))
	if err := drawn.RestoreHistory(restored.History); err != nil {
		t.Fatalf("restore drawn: %v", err)
	}
	if drawn.Outcome != Draw {
		t.Fatalf("restored outcome = %v, want draw", drawn.Outcome)
	}
}

func TestRestoreHistoryRejectsMismatch(t *testing.T) {
	b := NewBoard()
	for _, history := range [][]string{nil, {"8/8/8/8/8/8/8/8"}} {
		if err := b.RestoreHistory(history); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("RestoreHistory(%v) error = %v, want ErrInvalidFormat", history, err)
		}
	}
}

func TestKingCaptureWins(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/4R1K1 w - - 0 1")
	if err := b.Execute("Re1xe8", White); err != nil {
		t.Fatalf("Re1xe8: %v", err)
	}
	if b.Outcome != WhiteWon {
		t.Fatalf("outcome = %v, want white_won", b.Outcome)
	}
	if _, err := b.Validate("Kg1g2", Black); !errors.Is(err, ErrGameOver) {
		t.Fatalf("validate after win error = %v, want ErrGameOver", err)
	}
}

func TestMovingIntoAttackIsAllowed(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1")
	ok, err := b.Validate("Ke1e2", White)
	if err != nil || !ok {
		t.Fatalf("Ke1e2 = %v, %v; want legal", ok, err)
	}
}

func TestCastlingKingside(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if err := b.Execute("O-O", White); err != nil {
		t.Fatalf("O-O: %v", err)
	}
	if got := FormatFEN(b, Black); got != "4k3/8/8/8/8/8/8/5RK1 b - - 1 1" {
		t.Fatalf("fen = %q", got)
	}
}

func TestCastlingQueensideBlack(t *testing.T) {
	b := mustParse(t, "r3k3/8/8/8/8/8/8/4K3 b q - 0 1")
	if err := b.Execute("O-O-O", Black); err != nil {
		t.Fatalf("O-O-O: %v", err)
	}
	if got := FormatFEN(b, White); got != "2kr4/8/8/8/8/8/8/4K3 w - - 1 2" {
		t.Fatalf("fen = %q", got)
	}
}

func TestCastlingRejected(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		alg  string
	}{
		{"piece between", "4k3/8/8/8/8/8/8/4KB1R w K - 0 1", "O-O"},
		{"knight on b1", "4k3/8/8/8/8/8/8/RN2K3 w Q - 0 1", "O-O-O"},
		{"king attacked", "4k3/8/8/8/8/8/8/r3K2R w K - 0 1", "O-O"},
		{"passes attacked square", "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1", "O-O"},
		{"lands on attacked square", "4k3/8/8/8/8/8/6r1/4K2R w K - 0 1", "O-O"},
		{"queenside d1 attacked", "3rk3/8/8/8/8/8/8/R3K3 w Q - 0 1", "O-O-O"},
		{"knight covers f1", "4k3/8/8/8/8/8/3n4/4K2R w K - 0 1", "O-O"},
		{"pawn covers g1", "4k3/8/8/8/8/8/7p/4K2R w K - 0 1", "O-O"},
		{"no right", "4k3/8/8/8/8/8/8/4K2R w - - 0 1", "O-O"},
		{"rook missing", "4k3/8/8/8/8/8/8/4K3 w K - 0 1", "O-O"},
		{"king off square", "4k3/8/8/8/8/8/8/3K3R w K - 0 1", "O-O"},
		{"wrong color rook", "4k3/8/8/8/8/8/8/4K2r w K - 0 1", "O-O"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			ok, err := b.Validate(tc.alg, White)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if ok {
				t.Fatalf("%s accepted on %q", tc.alg, tc.fen)
			}
			if err := b.Execute(tc.alg, White); !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("execute error = %v, want ErrInvalidMove", err)
			}
		})
	}
}

func TestCastlingQueensideIgnoresAttackOnB1(t *testing.T) {
	b := mustParse(t, "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	if err := b.Execute("O-O-O", White); err != nil {
		t.Fatalf("O-O-O: %v", err)
	}
	if got := FormatFEN(b, Black); got != "1r2k3/8/8/8/8/8/8/2KR4 b - - 1 1" {
		t.Fatalf("fen = %q", got)
	}
}

func TestCastlingLostAfterKingMoves(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	for _, s := range []struct {
		alg   string
		mover Color
	}{{"Ke1e2", White}, {"Ke8e7", Black}, {"Ke2e1", White}, {"Ke7e8", Black}} {
		if err := b.Execute(s.alg, s.mover); err != nil {
			t.Fatalf("%s: %v", s.alg, err)
		}
	}
	if ok, _ := b.Validate("O-O", White); ok {
		t.Fatal("expected castling to be rejected after the king moved")
	}
}

func TestCastlingLostAfterRookMoves(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err := b.Execute("Rh1h2", White); err != nil {
		t.Fatalf("Rh1h2: %v", err)
	}
	if b.Castling[White][KingSide] || !b.Castling[White][QueenSide] {
		t.Fatalf("castling = %v, want queenside only", b.Castling)
	}
}

func TestCastlingLostWhenRookCaptured(t *testing.T) {
	b := mustParse(t, "4k2r/8/8/8/8/8/8/R3K2R b KQk - 0 1")
	if err := b.Execute("Rh8xh1", Black); err != nil {
		t.Fatalf("Rh8xh1: %v", err)
	}
	if got := FormatFEN(b, White); got != "4k3/8/8/8/8/8/8/R3K2r w Q - 0 2" {
		t.Fatalf("fen = %q", got)
	}
}

func TestPromotion(t *testing.T) {
	b := mustParse(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	ok, err := b.Validate("a7a8", White)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok {
		t.Fatal("expected promotion without a letter to be rejected")
	}
	if err := b.Execute("a7a8Q", White); err != nil {
		t.Fatalf("a7a8Q: %v", err)
	}
	if got := FormatFEN(b, Black); got != "Q7/7k/8/8/8/8/8/K7 b - - 0 1" {
		t.Fatalf("fen = %q", got)
	}
}

func TestPromotionToKingAccepted(t *testing.T) {
	b := mustParse(t, "8/7k/8/8/8/8/p7/7K b - - 0 1")
	if err := b.Execute("a2a1K", Black); err != nil {
		t.Fatalf("a2a1K: %v", err)
	}
	if !b.At(Square{Row: 0, Col: 0}).Is(Black, King) {
		t.Fatal("expected black king on a1")
	}
}

func TestPieceGeometry(t *testing.T) {
	const fen = "4k3/8/8/8/3Q4/8/8/R3K1N1 w - - 0 1"
	tests := []struct {
		alg  string
		want bool
	}{
		{"Qd4h8", true},
		{"Qd4a7", true},
		{"Qd4d8", true},
		{"Qd4e6", false},
		{"Ra1a8", true},
		{"Ra1b2", false},
		{"Ra1f1", false},
		{"Ng1f3", true},
		{"Ng1e2", true},
		{"Ng1g3", false},
		{"Ke1d2", true},
		{"Ke1e3", false},
		{"Nd4e6", false},
		{"d4d5", false},
		{"Qd4xe4", false},
	}
	for _, tc := range tests {
		b := mustParse(t, fen)
		got, err := b.Validate(tc.alg, White)
		if err != nil {
			t.Fatalf("Validate(%s): %v", tc.alg, err)
		}
		if got != tc.want {
			t.Fatalf("Validate(%s) = %v, want %v", tc.alg, got, tc.want)
		}
	}
}

func TestPawnGeometry(t *testing.T) {
	const fen = "4k3/8/8/8/8/p1n5/1P5P/4K3 w - - 0 1"
	tests := []struct {
		alg  string
		want bool
	}{
		{"b2b3", true},
		{"b2b4", true},
		{"b2xa3", true},
		{"b2xc3", true},
		{"b2a3", false},
		{"b2xb3", false},
		{"b2b1", false},
		{"h2h4", true},
		{"h2h5", false},
		{"h2xg3", false},
	}
	for _, tc := range tests {
		b := mustParse(t, fen)
		got, err := b.Validate(tc.alg, White)
		if err != nil {
			t.Fatalf("Validate(%s): %v", tc.alg, err)
		}
		if got != tc.want {
			t.Fatalf("Validate(%s) = %v, want %v", tc.alg, got, tc.want)
		}
	}
}

func TestDoubleStepBlocked(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1")
	if ok, _ := b.Validate("e2e4", White); ok {
		t.Fatal("expected double step through a piece to be rejected")
	}
}

func TestValidateRejectsWrongOwnerAndKind(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		alg   string
		mover Color
	}{
		{"e7e5", White},
		{"e2e4", Black},
		{"g1f3", White},
		{"Bg1f3", White},
		{"e3e4", White},
		{"Ra1a3", White},
		{"Nb1d2", White},
	}
	for _, tc := range tests {
		ok, err := b.Validate(tc.alg, tc.mover)
		if err != nil {
			t.Fatalf("Validate(%s): %v", tc.alg, err)
		}
		if ok {
			t.Fatalf("Validate(%s, %s) = true, want false", tc.alg, tc.mover)
		}
	}
}

func TestCaptureMarkerMustMatchTarget(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/2p5/8/2R1K3 w - - 0 1")
	if ok, _ := b.Validate("Rc1c3", White); ok {
		t.Fatal("expected capture without marker to be rejected")
	}
	if ok, _ := b.Validate("Rc1xc2", White); ok {
		t.Fatal("expected capture marker on empty square to be rejected")
	}
	if ok, _ := b.Validate("Rc1xc3", White); !ok {
		t.Fatal("expected marked capture to be accepted")
	}
}

func TestInvalidFormatLeavesBoardUnchanged(t *testing.T) {
	b := NewBoard()
	before := FormatFEN(b, White)
	if err := b.Execute("e2-e4", White); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("error = %v, want ErrInvalidFormat", err)
	}
	if err := b.Execute("e2e5", White); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("error = %v, want ErrInvalidMove", err)
	}
	if got := FormatFEN(b, White); got != before {
		t.Fatalf("fen = %q, want %q", got, before)
	}
	if len(b.History) != 1 {
		t.Fatalf("history len = %d, want 1", len(b.History))
	}
}

func TestQueenCannotJumpToCorner(t *testing.T) {
	b := mustParse(t, "2bqkb1r/ppp2ppp/2n1pn2/3p4/2PP1B2/2R1P3/rP3ppp/1N1QKBN1 w KQkq - 0 0")
	ok, err := b.Validate("Qd1a1", White)
	if err == nil && ok {
		t.Fatal("expected Qd1a1 to be rejected")
	}
}

func TestCloneDoesNotAliasHistory(t *testing.T) {
	b := NewBoard()
	c := b.Clone()
	if err := c.Execute("e2e4", White); err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if len(b.History) != 1 {
		t.Fatalf("original history len = %d, want 1", len(b.History))
	}
}

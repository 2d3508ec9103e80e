package chess

import (
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Square
	}{
		{"a1", Square{Row: 0, Col: 0}},
		{"h8", Square{Row: 7, Col: 7}},
		{"e4", Square{Row: 3, Col: 4}},
		{"c7", Square{Row: 6, Col: 2}},
	}
	for _, tc := range tests {
		got, err := ParseSquare(tc.in)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSquare(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if back := FormatSquare(got); back != tc.in {
			t.Fatalf("FormatSquare(%+v) = %q, want %q", got, back, tc.in)
		}
	}
}

func TestParseSquareRejects(t *testing.T) {
	for _, in := range []string{"", "a", "i1", "a0", "a9", "A1", "a10", "11"} {
		if _, err := ParseSquare(in); !errors.Is(err, ErrInvalidSquare) {
			t.Fatalf("ParseSquare(%q) error = %v, want ErrInvalidSquare", in, err)
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		alg  string
		want Move
	}{
		{"O-O", Move{Castle: true, Side: KingSide}},
		{"O-O-O", Move{Castle: true, Side: QueenSide}},
		{"e2e4", Move{Piece: Pawn, From: Square{1, 4}, To: Square{3, 4}}},
		{"Ng1f3", Move{Piece: Knight, From: Square{0, 6}, To: Square{2, 5}}},
		{"a5xb6", Move{Piece: Pawn, From: Square{4, 0}, To: Square{5, 1}, Capture: true}},
		{"Qd1xd8", Move{Piece: Queen, From: Square{0, 3}, To: Square{7, 3}, Capture: true}},
		{"e7e8Q", Move{Piece: Pawn, From: Square{6, 4}, To: Square{7, 4}, Promotion: Queen}},
		{"b2xa1N", Move{Piece: Pawn, From: Square{1, 1}, To: Square{0, 0}, Capture: true, Promotion: Knight}},
	}
	for _, tc := range tests {
		got, err := ParseMove(tc.alg)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tc.alg, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMove(%q) = %+v, want %+v", tc.alg, got, tc.want)
		}
	}
}

func TestParseMoveRejects(t *testing.T) {
	for _, alg := range []string{"", "e4", "Nf3", "e2-e4", "Pe2e4", "o-o", "O-O-O-O", "e9e4", "e2e4q", "Ng1f3 ", "e2xxe4"} {
		if _, err := ParseMove(alg); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("ParseMove(%q) error = %v, want ErrInvalidFormat", alg, err)
		}
	}
}

func TestInitialBoard(t *testing.T) {
	b := NewBoard()
	if got := FormatFEN(b, White); got != InitialFEN {
		t.Fatalf("initial fen = %q, want %q", got, InitialFEN)
	}
	if b.Outcome != Undecided {
		t.Fatalf("outcome = %v, want undecided", b.Outcome)
	}
	if len(b.History) != 1 || b.History[0] != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("history = %v, want initial placement only", b.History)
	}
}

func TestParseFENFields(t *testing.T) {
	b, err := ParseFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w Kq d6 12 40")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	if !b.At(Square{Row: 4, Col: 3}).Is(Black, Pawn) {
		t.Fatal("expected black pawn on d5")
	}
	if !b.At(Square{Row: 0, Col: 7}).Is(White, Rook) {
		t.Fatal("expected white rook on h1")
	}
	want := CastlingRights{White: {KingSide: true}, Black: {QueenSide: true}}
	if b.Castling != want {
		t.Fatalf("castling = %v, want %v", b.Castling, want)
	}
	if b.EnPassant != (Square{Row: 5, Col: 3}) {
		t.Fatalf("en passant = %v, want d6", b.EnPassant)
	}
	if b.Halfmove != 12 || b.Fullmove != 40 {
		t.Fatalf("clocks = %d/%d, want 12/40", b.Halfmove, b.Fullmove)
	}
}

func TestParseFENOutcomeFromKings(t *testing.T) {
	tests := []struct {
		fen  string
		want Outcome
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", Undecided},
		{"8/8/8/8/8/8/8/4K3 w - - 0 1", WhiteWon},
		{"4k3/8/8/8/8/8/8/8 b - - 0 1", BlackWon},
	}
	for _, tc := range tests {
		b, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.fen, err)
		}
		if b.Outcome != tc.want {
			t.Fatalf("outcome(%q) = %v, want %v", tc.fen, b.Outcome, tc.want)
		}
	}
}

func TestParseFENRejects(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 extra",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR  w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KK - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 one",
		"4k3/8/8/8/8/8/8/44 w - - 0 1",
		"4k3/8/8/8/8/8/8/17 w - - 0 1",
		"4k3/8/8/8/8/8/8/K3K3 w - - 0 1",
		"k6k/8/8/8/8/8/8/4K3 b - - 0 1",
	}
	for _, fen := range tests {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("ParseFEN(%q) error = %v, want ErrInvalidFormat", fen, err)
		}
	}
}

func TestParseSavedFENAllowsPromotedKing(t *testing.T) {
	b := mustParse(t, "8/7k/8/8/8/8/p7/7K b - - 0 1")
	if err := b.Execute("a2a1K", Black); err != nil {
		t.Fatalf("a2a1K: %v", err)
	}
	fen := FormatFEN(b, White)
	if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("ParseFEN(%q) error = %v, want ErrInvalidFormat", fen, err)
	}
	saved, err := ParseSavedFEN(fen)
	if err != nil {
		t.Fatalf("ParseSavedFEN(%q): %v", fen, err)
	}
	if got := FormatFEN(saved, White); got != fen {
		t.Fatalf("round trip = %q, want %q", got, fen)
	}
	if saved.Outcome != Undecided {
		t.Fatalf("outcome = %v, want undecided", saved.Outcome)
	}
	if _, err := ParseSavedFEN("4k3/8/8/8/8/8/8/44 w - - 0 1"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("ParseSavedFEN accepted adjacent digits: %v", err)
	}
}

func TestFormatFENRoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"r3k2r/8/8/3pP3/8/8/8/R3K2R w Kq d6 12 40",
		"8/P6k/8/8/8/8/8/K7 b - - 0 1",
		"2bqkb1r/ppp2ppp/2n1pn2/3p4/2PP1B2/2R1P3/rP3ppp/1N1QKBN1 w KQkq - 0 0",
	}
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("parse %q: %v", fen, err)
		}
		turn := White
		if fen[len(b.Placement())+1] == 'b' {
			turn = Black
		}
		if got := FormatFEN(b, turn); got != fen {
			t.Fatalf("FormatFEN(ParseFEN(%q)) = %q", fen, got)
		}
	}
}

package position

import (
	"errors"
	"testing"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{DefaultFEN, DefaultFEN},
		{"8/8/8/8/8/8/8/8 w - -", "8/8/8/8/8/8/8/8 w - - 0 1"},
		{"8/8/8/8/8/8/8/8 w - - ", "8/8/8/8/8/8/8/8 w - - 0 1"},
		{"\t8/8/8/8/8/8/8/8 w - - 7 3\n", "8/8/8/8/8/8/8/8 w - - 7 3"},
		{"8/8/8/8/8/8/8/8 b - - 5", "8/8/8/8/8/8/8/8 b - - 5 1"},
		{"  rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR   b  KQkq  E3 0 1 ", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"8/8/8/8/8/8/8/8 w qkQK - 0 1", "8/8/8/8/8/8/8/8 w KQkq - 0 1"},
		{"8/8/8/8/8/8/8/8 w Kx - 0 1", "8/8/8/8/8/8/8/8 w K - 0 1"},
		{"8/8/8/8/8/8/8/8 w K- - 0 1", "8/8/8/8/8/8/8/8 w K - 0 1"},
		{"44/8/8/8/8/8/8/8 w - - 0 1", "8/8/8/8/8/8/8/8 w - - 0 1"},
		{"......../8/8/8/8/8/8/8 w - - 0 1", "8/8/8/8/8/8/8/8 w - - 0 1"},
		{"3.K.2/8/8/8/8/8/8/8 w - - 0 1", "4K3/8/8/8/8/8/8/8 w - - 0 1"},
		{"KKKKKKKK/8/8/8/8/8/8/pppppppp w - - 0 1", "KKKKKKKK/8/8/8/8/8/8/pppppppp w - - 0 1"},
		{"8/8/8/8/8/8/8/8 w - a6 99 250", "8/8/8/8/8/8/8/8 w - a6 99 250"},
		{"8/8/8/8/8/8/8/8 w - - 0 1 extra", "8/8/8/8/8/8/8/8 w - - 0 1"},
	}
	for _, tc := range cases {
		p, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got := p.FEN(); got != tc.want {
			t.Errorf("Parse(%q).FEN() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"8/8/8/8/8/8/8/8 w -",
		"7/8/8/8/8/8/8/8 w - - 0 1",
		"9/8/8/8/8/8/8/8 w - - 0 1",
		"8/8/8/8/8/8/8 w - - 0 1",
		"8/8/8/8/8/8/8/8/8 w - - 0 1",
		"8/8/8/8/8/8/8/8/ w - - 0 1",
		"rnbqkbnrp/8/8/8/8/8/8/8 w - - 0 1",
		"8p/8/8/8/8/8/8/8 w - - 0 1",
		"x7/8/8/8/8/8/8/8 w - - 0 1",
		"........./8/8/8/8/8/8/8 w - - 0 1",
		"8/8/8/8/8/8/8/8 W - - 0 1",
		"8/8/8/8/8/8/8/8 white - - 0 1",
		"8/8/8/8/8/8/8/8 w - e4 0 1",
		"8/8/8/8/8/8/8/8 w - z3 0 1",
		"8/8/8/8/8/8/8/8 w - e 0 1",
		"8/8/8/8/8/8/8/8 w - - -1 1",
		"8/8/8/8/8/8/8/8 w - - x 1",
		"8/8/8/8/8/8/8/8 w - - 0 0",
		"8/8/8/8/8/8/8/8 w - - 0 -4",
		"8/8/8/8/8/8/8/8 w - - 0 one",
		"8/8/8/8/8/8/8/8\tw - - 0 1",
		"8/8/8/8/8/8/8/8 w - -\n0 1",
		"8/8/8/8/8/8/8/8 w\t- - 0 1",
	}
	for _, in := range cases {
		p, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) succeeded with %q", in, p.FEN())
			continue
		}
		if !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("Parse(%q) error %v does not wrap ErrInvalidFEN", in, err)
		}
		var fe *FENError
		if !errors.As(err, &fe) || fe.Field == "" {
			t.Errorf("Parse(%q) error %v is not a FENError", in, err)
		}
	}
}

func TestApplyFENFailureLeavesStateUntouched(t *testing.T) {
	p := New()
	p.SetSquare(4, 4, WhiteQueen)
	p.SideToMove = Black
	p.SetEnPassant("c6")
	p.SetHalfmove(3)
	p.SetFullmove(9)
	before := p.FEN()

	for _, in := range []string{
		"8/8/8/8/8/8/8/8 w - - 0 0",
		"8/8/8/8/8/8/8/8 b Kq e4 0 1",
		"8/8/8/8/8/8/8/7 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 x - - 0 1",
	} {
		if err := p.ApplyFEN(in); err == nil {
			t.Fatalf("ApplyFEN(%q) succeeded", in)
		}
		if got := p.FEN(); got != before {
			t.Fatalf("ApplyFEN(%q) mutated state: %q -> %q", in, before, got)
		}
	}
}

func TestApplyFENReplacesWholeState(t *testing.T) {
	p := New()
	if err := p.ApplyFEN("4k3/8/8/8/8/8/8/4K3 b - - 12 40"); err != nil {
		t.Fatalf("ApplyFEN: %v", err)
	}
	if p.SquareAt(0, 0) != Empty || p.SquareAt(0, 4) != BlackKing || p.SquareAt(7, 4) != WhiteKing {
		t.Fatalf("board not replaced: %q", p.FEN())
	}
	if p.SideToMove != Black || p.Castling != (Castling{}) || p.EnPassant() != "-" {
		t.Fatalf("fields not replaced: %q", p.FEN())
	}
	if p.Halfmove() != 12 || p.Fullmove() != 40 {
		t.Fatalf("clocks = %d/%d", p.Halfmove(), p.Fullmove())
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		DefaultFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"KKKK4/8/8/8/8/8/8/P7 b kQ h3 77 1000",
		"8/8/8/8/8/8/8/8 w - -",
	}
	for _, in := range inputs {
		p, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		first := p.FEN()
		q, err := Parse(first)
		if err != nil {
			t.Fatalf("Parse(%q): %v", first, err)
		}
		if second := q.FEN(); second != first {
			t.Fatalf("round trip mismatch: %q -> %q", first, second)
		}
		if !p.Equal(q) {
			t.Fatalf("round trip produced a different position for %q", first)
		}
	}
}

func TestRoundTripAfterEdits(t *testing.T) {
	p := NewEmpty()
	p.SetSquare(0, 7, BlackKing)
	p.SetSquare(2, 3, WhitePawn)
	p.SetSquare(7, 0, WhiteKing)
	p.Castling.Set(CastleBlackKingside, true)
	p.SetEnPassant("D6")
	p.SetHalfmove(4)
	p.SetFullmove(21)
	fen := p.FEN()
	if want := "7k/8/3P4/8/8/8/8/K7 w k d6 4 21"; fen != want {
		t.Fatalf("fen = %q, want %q", fen, want)
	}
	q, err := Parse(fen)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.FEN() != fen {
		t.Fatalf("round trip = %q", q.FEN())
	}
}

package position

import "testing"

func TestResetMatchesDefaultFEN(t *testing.T) {
	p := NewEmpty()
	p.Reset()
	if got := p.FEN(); got != DefaultFEN {
		t.Fatalf("reset fen = %q, want %q", got, DefaultFEN)
	}
	if got := New().FEN(); got != DefaultFEN {
		t.Fatalf("New fen = %q", got)
	}
}

func TestClearBoardKeepsOtherFields(t *testing.T) {
	p := New()
	p.SideToMove = Black
	p.SetEnPassant("e3")
	p.SetHalfmove(7)
	p.SetFullmove(12)
	p.ClearBoard()
	if got, want := p.FEN(), "8/8/8/8/8/8/8/8 b KQkq e3 7 12"; got != want {
		t.Fatalf("fen = %q, want %q", got, want)
	}
}

func TestSetSquareCoercesUnknownSymbols(t *testing.T) {
	p := New()
	for _, sym := range []Symbol{'x', 'Z', '1', ' ', 0, '/'} {
		p.SetSquare(0, 0, WhiteQueen)
		p.SetSquare(0, 0, sym)
		if got := p.SquareAt(0, 0); got != Empty {
			t.Fatalf("SetSquare(%q) stored %q, want empty", sym, got)
		}
	}
	for _, sym := range Symbols {
		p.SetSquare(3, 4, sym)
		if got := p.SquareAt(3, 4); got != sym {
			t.Fatalf("SetSquare(%q) stored %q", sym, got)
		}
	}
}

func TestSetSquareOutOfRangeIgnored(t *testing.T) {
	p := New()
	before := p.FEN()
	p.SetSquare(-1, 0, WhiteKing)
	p.SetSquare(0, 8, WhiteKing)
	p.SetSquare(8, 8, WhiteKing)
	if p.FEN() != before {
		t.Fatalf("out of range write changed the board: %q", p.FEN())
	}
	if got := p.SquareAt(9, 0); got != Empty {
		t.Fatalf("out of range read = %q", got)
	}
}

func TestSquareOrientation(t *testing.T) {
	p := New()
	if got := p.SquareAt(0, 0); got != BlackRook {
		t.Fatalf("a8 = %q", got)
	}
	if got := p.SquareAt(7, 4); got != WhiteKing {
		t.Fatalf("e1 = %q", got)
	}
	if name := SquareName(7, 4); name != "e1" {
		t.Fatalf("SquareName(7,4) = %q", name)
	}
	row, col, ok := ParseSquare("E4")
	if !ok || row != 4 || col != 4 {
		t.Fatalf("ParseSquare(E4) = %d,%d,%v", row, col, ok)
	}
	if _, _, ok := ParseSquare("i9"); ok {
		t.Fatalf("ParseSquare(i9) should fail")
	}
}

func TestNormalizeEnPassant(t *testing.T) {
	cases := map[string]string{
		"":     "-",
		" - ":  "-",
		"E3":   "e3",
		" h6 ": "h6",
		"e4":   "-",
		"z3":   "-",
		"e33":  "-",
	}
	for in, want := range cases {
		if got := NormalizeEnPassant(in); got != want {
			t.Errorf("NormalizeEnPassant(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClockClamping(t *testing.T) {
	p := New()
	p.SetHalfmove(-3)
	p.SetFullmove(0)
	if p.Halfmove() != 0 || p.Fullmove() != 1 {
		t.Fatalf("clocks = %d/%d", p.Halfmove(), p.Fullmove())
	}
}

func TestCastlingString(t *testing.T) {
	var c Castling
	if c.String() != "-" {
		t.Fatalf("empty castling = %q", c.String())
	}
	c.Set(CastleBlackQueenside, true)
	c.Set(CastleWhiteKingside, true)
	c.Set(CastlingFlag('x'), true)
	if c.String() != "Kq" {
		t.Fatalf("castling = %q", c.String())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := New()
	c := p.Clone()
	c.SetSquare(0, 0, Empty)
	if p.SquareAt(0, 0) != BlackRook {
		t.Fatalf("clone shares board storage")
	}
	if p.Equal(c) {
		t.Fatalf("positions should differ")
	}
}

func TestZeroValueIsEmptyPosition(t *testing.T) {
	var p Position
	want := "8/8/8/8/8/8/8/8 w - - 0 1"
	if got := p.FEN(); got != want { t.Fatalf("zero fen = %q, want %q", got, want) }
	if sym := p.SquareAt(3, 3); sym != Empty { t.Fatalf("SquareAt = %q", sym) }
	for _, rank := range p.Board() {
		for _, sym := range rank {
			if sym != Empty { t.Fatalf("board cell %q", sym) }
		}
	}
	if p.EnPassant() != NoEnPassant || p.Fullmove() != 1 { t.Fatalf("ep=%q fullmove=%d", p.EnPassant(), p.Fullmove()) }
	if !p.Equal(NewEmpty()) { t.Fatalf("zero value differs from NewEmpty") }

	back, err := Parse(p.FEN())
	if err != nil { t.Fatalf("reparse: %v", err) }
	if !back.Equal(&p) { t.Fatalf("round trip changed %q", back.FEN()) }

	p.SetSquare(0, 4, BlackKing)
	if got := p.FEN(); got != "4k3/8/8/8/8/8/8/8 w - - 0 1" { t.Fatalf("after edit %q", got) }
}

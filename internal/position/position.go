// Package position holds the editable chess position and its FEN codec.
//
// The model only enforces structure: an 8x8 grid of known symbols, a side to
// move, four castling flags, an en-passant square on rank 3 or 6 and the two
// move clocks. It does not check whether the position is reachable or legal.
package position

import "strings"

// Symbol is the content of one board cell.
type Symbol byte

const (
	Empty Symbol = '.'

	WhiteKing   Symbol = 'K'
	WhiteQueen  Symbol = 'Q'
	WhiteRook   Symbol = 'R'
	WhiteBishop Symbol = 'B'
	WhiteKnight Symbol = 'N'
	WhitePawn   Symbol = 'P'
	BlackKing   Symbol = 'k'
	BlackQueen  Symbol = 'q'
	BlackRook   Symbol = 'r'
	BlackBishop Symbol = 'b'
	BlackKnight Symbol = 'n'
	BlackPawn   Symbol = 'p'
)

const (
	Size = 8

	// NoEnPassant is stored when there is no en-passant target.
	NoEnPassant = "-"

	DefaultFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

const validSymbols = ".KQRBNPkqrbnp"

// Symbols lists every placeable value in selector order, Empty first.
var Symbols = []Symbol{
	Empty,
	WhiteKing, WhiteQueen, WhiteRook, WhiteBishop, WhiteKnight, WhitePawn,
	BlackKing, BlackQueen, BlackRook, BlackBishop, BlackKnight, BlackPawn,
}

func IsValidSymbol(s Symbol) bool {
	return strings.IndexByte(validSymbols, byte(s)) >= 0
}

func (s Symbol) IsPiece() bool { return s != Empty && IsValidSymbol(s) }

// IsWhite reports whether s is an upper-case (white) piece.
func (s Symbol) IsWhite() bool { return s >= 'A' && s <= 'Z' && s.IsPiece() }

func (s Symbol) String() string { return string(rune(s)) }

// Side is the side to move.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) Letter() string {
	if s == Black {
		return "b"
	}
	return "w"
}

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Castling holds the four independent castling availability flags.
type Castling struct {
	WhiteKingside  bool
	WhiteQueenside bool
	BlackKingside  bool
	BlackQueenside bool
}

// CastlingFlag names one of the four flags by its FEN letter.
type CastlingFlag byte

const (
	CastleWhiteKingside  CastlingFlag = 'K'
	CastleWhiteQueenside CastlingFlag = 'Q'
	CastleBlackKingside  CastlingFlag = 'k'
	CastleBlackQueenside CastlingFlag = 'q'
)

var castlingOrder = []CastlingFlag{CastleWhiteKingside, CastleWhiteQueenside, CastleBlackKingside, CastleBlackQueenside}

func AllCastling() Castling {
	return Castling{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
}

func (c *Castling) ptr(f CastlingFlag) *bool {
	switch f {
	case CastleWhiteKingside:
		return &c.WhiteKingside
	case CastleWhiteQueenside:
		return &c.WhiteQueenside
	case CastleBlackKingside:
		return &c.BlackKingside
	case CastleBlackQueenside:
		return &c.BlackQueenside
	}
	return nil
}

// Has reports the flag value. Unknown flags are never set.
func (c Castling) Has(f CastlingFlag) bool {
	if p := c.ptr(f); p != nil {
		return *p
	}
	return false
}

// Set updates one flag and ignores unknown flags.
func (c *Castling) Set(f CastlingFlag, on bool) {
	if p := c.ptr(f); p != nil {
		*p = on
	}
}

// String returns the FEN castling field: present flags in KQkq order or "-".
func (c Castling) String() string {
	var b strings.Builder
	for _, f := range castlingOrder {
		if c.Has(f) {
			b.WriteByte(byte(f))
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// Position is one editable chess position. Row 0 is rank 8, column 0 is file a.
//
// The zero value reads as an empty board, white to move, no castling, no en
// passant and clocks 0 and 1. New and NewEmpty return the same states explicitly.
type Position struct {
	board      [Size][Size]Symbol
	SideToMove Side
	Castling   Castling
	enPassant  string
	halfmove   int
	fullmove   int
}

// New returns the standard starting position.
func New() *Position {
	p := &Position{}
	p.Reset()
	return p
}

// NewEmpty returns a position with no pieces, white to move and no castling rights.
func NewEmpty() *Position {
	p := &Position{}
	p.ClearBoard()
	p.SideToMove = White
	p.enPassant = NoEnPassant
	p.fullmove = 1
	return p
}

var startRanks = [Size]string{
	"rnbqkbnr",
	"pppppppp",
	"........",
	"........",
	"........",
	"........",
	"PPPPPPPP",
	"RNBQKBNR",
}

// Reset restores the standard starting position.
func (p *Position) Reset() {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p.board[row][col] = Symbol(startRanks[row][col])
		}
	}
	p.SideToMove = White
	p.Castling = AllCastling()
	p.enPassant = NoEnPassant
	p.halfmove = 0
	p.fullmove = 1
}

// ClearBoard empties every square and leaves the other fields alone.
func (p *Position) ClearBoard() {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p.board[row][col] = Empty
		}
	}
}

func inRange(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// SetSquare places sym at (row, col). Unknown symbols are stored as Empty;
// coordinates outside the board are ignored.
func (p *Position) SetSquare(row, col int, sym Symbol) {
	if !inRange(row, col) {
		return
	}
	if !IsValidSymbol(sym) {
		sym = Empty
	}
	p.board[row][col] = sym
}

func (p *Position) SquareAt(row, col int) Symbol {
	if !inRange(row, col) {
		return Empty
	}
	if sym := p.board[row][col]; sym != 0 {
		return sym
	}
	return Empty
}

// Board returns a copy of the grid.
func (p *Position) Board() [Size][Size]Symbol {
	var out [Size][Size]Symbol
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out[row][col] = p.SquareAt(row, col)
		}
	}
	return out
}

func (p *Position) EnPassant() string {
	if p.enPassant == "" {
		return NoEnPassant
	}
	return p.enPassant
}

// SetEnPassant stores a normalized en-passant square. Blank, "-" and
// anything that is not a file a-h followed by rank 3 or 6 become "-".
func (p *Position) SetEnPassant(text string) {
	p.enPassant = NormalizeEnPassant(text)
}

func (p *Position) Halfmove() int { return p.halfmove }

// SetHalfmove clamps negative values to zero.
func (p *Position) SetHalfmove(n int) {
	if n < 0 {
		n = 0
	}
	p.halfmove = n
}

func (p *Position) Fullmove() int {
	if p.fullmove < 1 {
		return 1
	}
	return p.fullmove
}

// SetFullmove clamps values below one to one.
func (p *Position) SetFullmove(n int) {
	if n < 1 {
		n = 1
	}
	p.fullmove = n
}

func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// Equal compares observable state, so a zero Position equals NewEmpty().
func (p *Position) Equal(o *Position) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Board() == o.Board() &&
		p.SideToMove == o.SideToMove &&
		p.Castling == o.Castling &&
		p.EnPassant() == o.EnPassant() &&
		p.halfmove == o.halfmove &&
		p.Fullmove() == o.Fullmove()
}

// NormalizeEnPassant lower-cases and trims text and maps invalid squares to "-".
func NormalizeEnPassant(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || s == NoEnPassant || !IsValidEnPassant(s) {
		return NoEnPassant
	}
	return s
}

// IsValidEnPassant accepts a file a-h (any case) followed by '3' or '6'.
func IsValidEnPassant(square string) bool {
	if len(square) != 2 {
		return false
	}
	file := square[0] | 0x20
	rank := square[1]
	return file >= 'a' && file <= 'h' && (rank == '3' || rank == '6')
}

// SquareName converts board coordinates to algebraic notation ("e4").
func SquareName(row, col int) string {
	if !inRange(row, col) {
		return ""
	}
	return string([]byte{byte('a' + col), byte('8' - row)})
}

// ParseSquare converts "e4" to (row, col).
func ParseSquare(name string) (row, col int, ok bool) {
	if len(name) != 2 {
		return 0, 0, false
	}
	f := name[0] | 0x20
	r := name[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return 0, 0, false
	}
	return int('8' - r), int(f - 'a'), true
}

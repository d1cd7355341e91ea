package render

import (
	nchess "github.com/corentings/chess/v2"
	"github.com/park285/Cheese-PositionSetup/internal/position"
)

var symbolPieces = map[position.Symbol]nchess.Piece{
	position.WhiteKing:   nchess.WhiteKing,
	position.WhiteQueen:  nchess.WhiteQueen,
	position.WhiteRook:   nchess.WhiteRook,
	position.WhiteBishop: nchess.WhiteBishop,
	position.WhiteKnight: nchess.WhiteKnight,
	position.WhitePawn:   nchess.WhitePawn,
	position.BlackKing:   nchess.BlackKing,
	position.BlackQueen:  nchess.BlackQueen,
	position.BlackRook:   nchess.BlackRook,
	position.BlackBishop: nchess.BlackBishop,
	position.BlackKnight: nchess.BlackKnight,
	position.BlackPawn:   nchess.BlackPawn,
}

var (
	ranksTopDown   = []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
	filesLeftRight = []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
)

// squareOf maps model coordinates (row 0 = rank 8) to a library square.
func squareOf(row, col int) nchess.Square {
	return nchess.NewSquare(filesLeftRight[col], ranksTopDown[row])
}

// toBoard builds a library board from the model grid. The library board is
// only a container here; no legality is checked, so positions with missing
// or extra kings still convert.
func toBoard(p *position.Position) *nchess.Board {
	m := make(map[nchess.Square]nchess.Piece, 32)
	grid := p.Board()
	for row := 0; row < position.Size; row++ {
		for col := 0; col < position.Size; col++ {
			if piece, ok := symbolPieces[grid[row][col]]; ok {
				m[squareOf(row, col)] = piece
			}
		}
	}
	return nchess.NewBoard(m)
}

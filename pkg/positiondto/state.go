package positiondto

import "time"

type CastlingRights struct {
	WhiteKingside  bool `json:"white_kingside"`
	WhiteQueenside bool `json:"white_queenside"`
	BlackKingside  bool `json:"black_kingside"`
	BlackQueenside bool `json:"black_queenside"`
}

// Warning mirrors a message box the desktop editor would have shown.
type Warning struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type SessionState struct {
	SessionID  string         `json:"session_id"`
	FEN        string         `json:"fen"`
	Board      []string       `json:"board"` // rank 8 first, '.' for empty
	SideToMove string         `json:"side_to_move"`
	Castling   CastlingRights `json:"castling"`
	EnPassant  string         `json:"en_passant"`
	Halfmove   int            `json:"halfmove"`
	Fullmove   int            `json:"fullmove"`
	Selected   string         `json:"selected"`
	LastSquare string         `json:"last_square,omitempty"`
	Reference  string         `json:"reference,omitempty"`
	Warnings   []Warning      `json:"warnings,omitempty"`
}

type PieceChoice struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

type SavedPosition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FEN       string    `json:"fen"`
	CreatedAt time.Time `json:"created_at"`
}

package positiondto

type FENRequest struct {
	FEN string `json:"fen"`
}

// SquareRequest names a square either as "e4" or as row/col indices.
type SquareRequest struct {
	Square string `json:"square,omitempty"`
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
}

type SelectPieceRequest struct {
	Piece string `json:"piece"`
}

type SideRequest struct {
	Side string `json:"side"`
}

type CastlingRequest struct {
	Flag string `json:"flag"`
	On   bool   `json:"on"`
}

type EnPassantRequest struct {
	Square string `json:"square"`
}

type ClockRequest struct {
	Value int `json:"value"`
}

type ImageRequest struct {
	Path string `json:"path"`
}

type SaveRequest struct {
	Name string `json:"name"`
}

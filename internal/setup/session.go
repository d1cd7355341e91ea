// Package setup is the board editor session: one position plus the editing
// state around it (selected piece, last touched square, reference image).
//
// A presentation layer forwards user input to the Session mutators and
// re-reads Snapshot to refresh its controls. Sessions are not safe for
// concurrent use.
package setup

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/park285/Cheese-PositionSetup/internal/clipboard"
	"github.com/park285/Cheese-PositionSetup/internal/msgcat"
	"github.com/park285/Cheese-PositionSetup/internal/position"
	"github.com/park285/Cheese-PositionSetup/internal/refimage"
	"go.uber.org/zap"
)

var ErrNoClipboard = errors.New("clipboard not configured")

// Notifier shows warnings to the user (message box, toast, HTTP error body).
type Notifier interface {
	Warn(title, body string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string)

func (f NotifierFunc) Warn(title, body string) { f(title, body) }

type nopNotifier struct{}

func (nopNotifier) Warn(string, string) {}

// Square is a board coordinate; row 0 is rank 8.
type Square struct {
	Row int
	Col int
}

func (s Square) Name() string { return position.SquareName(s.Row, s.Col) }

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	FEN        string
	Board      [position.Size][position.Size]position.Symbol
	SideToMove position.Side
	Castling   position.Castling
	EnPassant  string
	Halfmove   int
	Fullmove   int
	Selected   position.Symbol
	LastSquare *Square
	Reference  string
}

// EnPassantText is the en-passant square as shown in an input box: "" for none.
func (s Snapshot) EnPassantText() string {
	if s.EnPassant == position.NoEnPassant {
		return ""
	}
	return s.EnPassant
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *Session) { s.clip = c }
}

func WithCatalog(c *msgcat.Catalog) Option {
	return func(s *Session) { s.cat = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

type Session struct {
	pos      position.Position
	selected position.Symbol
	last     *Square
	ref      *refimage.Image

	clip     clipboard.Clipboard
	cat      *msgcat.Catalog
	notifier Notifier
	logger   *zap.Logger

	observers []func(Snapshot)
	muted     int
	notifying bool
}

// NewSession starts at the standard position with an empty square selected.
func NewSession(opts ...Option) *Session {
	s := &Session{
		selected: position.Empty,
		notifier: nopNotifier{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pos = *position.New()
	return s
}

// OnChange registers fn to run after every state change.
func (s *Session) OnChange(fn func(Snapshot)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Silently runs fn without notifying observers, for pushing model state into
// controls whose change handlers call back into the session.
func (s *Session) Silently(fn func()) {
	s.muted++
	defer func() { s.muted-- }()
	fn()
}

func (s *Session) changed() {
	if s.muted > 0 || s.notifying || len(s.observers) == 0 {
		return
	}
	s.notifying = true
	defer func() { s.notifying = false }()
	snap := s.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		FEN:        s.pos.FEN(),
		Board:      s.pos.Board(),
		SideToMove: s.pos.SideToMove,
		Castling:   s.pos.Castling,
		EnPassant:  s.pos.EnPassant(),
		Halfmove:   s.pos.Halfmove(),
		Fullmove:   s.pos.Fullmove(),
		Selected:   s.selected,
	}
	if s.last != nil {
		sq := *s.last
		snap.LastSquare = &sq
	}
	if s.ref != nil {
		snap.Reference = s.ref.Path
	}
	return snap
}

// Position returns a copy of the current position.
func (s *Session) Position() *position.Position { return s.pos.Clone() }

func (s *Session) FEN() string { return s.pos.FEN() }

// SetFEN applies fen and falls back to the standard position when fen is
// blank or invalid. It reports whether fen itself was applied.
func (s *Session) SetFEN(fen string) bool {
	if strings.TrimSpace(fen) != "" && s.apply(fen) == nil {
		return true
	}
	_ = s.apply(position.DefaultFEN)
	return false
}

// ApplyFEN applies non-empty text. Invalid text is reported to the notifier
// and returned as an error; the position is left unchanged.
func (s *Session) ApplyFEN(fen string) error {
	if fen == "" {
		return nil
	}
	return s.apply(fen)
}

func (s *Session) apply(fen string) error {
	if err := s.pos.ApplyFEN(fen); err != nil {
		s.logger.Warn("fen_rejected", zap.String("fen", fen), zap.Error(err))
		s.notifier.Warn(
			s.cat.Text("setup.invalid_fen.title", nil, "Invalid FEN"),
			s.cat.Text("setup.invalid_fen.body", map[string]any{"FEN": fen}, "The provided FEN string is not valid:\n"+fen),
		)
		return err
	}
	s.logger.Debug("fen_applied", zap.String("fen", s.pos.FEN()))
	s.changed()
	return nil
}

// SelectPiece chooses the symbol placed by Click. Unknown symbols select Empty.
func (s *Session) SelectPiece(sym position.Symbol) {
	if !position.IsValidSymbol(sym) {
		sym = position.Empty
	}
	s.selected = sym
}

func (s *Session) SelectedPiece() position.Symbol { return s.selected }

// Click places the selected piece on (row, col) and remembers the square.
func (s *Session) Click(row, col int) {
	if row < 0 || row >= position.Size || col < 0 || col >= position.Size {
		return
	}
	s.pos.SetSquare(row, col, s.selected)
	s.last = &Square{Row: row, Col: col}
	s.changed()
}

// SetSquare writes sym directly without touching the selection.
func (s *Session) SetSquare(row, col int, sym position.Symbol) {
	s.pos.SetSquare(row, col, sym)
	s.changed()
}

func (s *Session) LastSquare() (Square, bool) {
	if s.last == nil {
		return Square{}, false
	}
	return *s.last, true
}

// ClearSquare empties the last clicked square. Nothing happens before the first click.
func (s *Session) ClearSquare() {
	if s.last == nil {
		return
	}
	s.pos.SetSquare(s.last.Row, s.last.Col, position.Empty)
	s.changed()
}

// ClearAll empties the board and drops castling rights, en passant and clocks.
func (s *Session) ClearAll() {
	s.pos.ClearBoard()
	s.pos.SideToMove = position.White
	s.pos.Castling = position.Castling{}
	s.pos.SetEnPassant(position.NoEnPassant)
	s.pos.SetHalfmove(0)
	s.pos.SetFullmove(1)
	s.changed()
}

// Reset restores the standard starting position.
func (s *Session) Reset() {
	_ = s.apply(position.DefaultFEN)
}

func (s *Session) SetSideToMove(side position.Side) {
	if side != position.Black {
		side = position.White
	}
	s.pos.SideToMove = side
	s.changed()
}

func (s *Session) SetCastling(flag position.CastlingFlag, on bool) {
	s.pos.Castling.Set(flag, on)
	s.changed()
}

// SetEnPassantText normalizes text and returns what the input box should
// show afterwards ("" when there is no target).
func (s *Session) SetEnPassantText(text string) string {
	s.pos.SetEnPassant(text)
	s.changed()
	return s.Snapshot().EnPassantText()
}

func (s *Session) SetHalfmove(n int) {
	s.pos.SetHalfmove(n)
	s.changed()
}

func (s *Session) SetFullmove(n int) {
	s.pos.SetFullmove(n)
	s.changed()
}

// CopyFEN writes the current FEN to the clipboard.
func (s *Session) CopyFEN(ctx context.Context) error {
	if s.clip == nil {
		return ErrNoClipboard
	}
	return s.clip.WriteText(ctx, s.pos.FEN())
}

// PasteFEN applies the clipboard text. An empty clipboard is a no-op.
func (s *Session) PasteFEN(ctx context.Context) error {
	if s.clip == nil {
		return ErrNoClipboard
	}
	text, err := s.clip.ReadText(ctx)
	if err != nil {
		return err
	}
	return s.ApplyFEN(text)
}

// LoadReferenceImage replaces the reference picture. On failure the user is
// warned and the previous picture stays.
func (s *Session) LoadReferenceImage(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	img, err := refimage.Load(path)
	if err != nil {
		s.logger.Warn("reference_image_failed", zap.String("path", path), zap.Error(err))
		s.notifier.Warn(
			s.cat.Text("setup.image_error.title", nil, "Image error"),
			s.cat.Text("setup.image_error.body", map[string]any{"Path": path}, "Unable to load image: "+path),
		)
		return err
	}
	s.ref = img
	s.changed()
	return nil
}

func (s *Session) ClearReferenceImage() {
	if s.ref == nil {
		return
	}
	s.ref = nil
	s.changed()
}

func (s *Session) ReferenceImage() *refimage.Image { return s.ref }

// ReferencePreview scales the reference picture into a w x h box; nil when
// no picture is loaded or the box is empty.
func (s *Session) ReferencePreview(w, h int) image.Image {
	return s.ref.Fit(w, h)
}

// ReferenceLabel is the placeholder text shown when no picture is loaded.
func (s *Session) ReferenceLabel() string {
	if s.ref != nil {
		return ""
	}
	return s.cat.Text("setup.no_image", nil, "No image loaded")
}

// PieceChoice is one entry of the piece selector.
type PieceChoice struct {
	Symbol position.Symbol
	Label  string
}

func (s *Session) PieceChoices() []PieceChoice {
	out := make([]PieceChoice, 0, len(position.Symbols))
	for _, sym := range position.Symbols {
		out = append(out, PieceChoice{Symbol: sym, Label: s.cat.PieceLabel(sym.String())})
	}
	return out
}

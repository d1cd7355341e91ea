// Package httpapi exposes editing sessions over HTTP. It is a thin layer:
// every request maps onto one setup.Session operation.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/Cheese-PositionSetup/internal/library"
	"github.com/park285/Cheese-PositionSetup/internal/position"
	"github.com/park285/Cheese-PositionSetup/internal/render"
	"github.com/park285/Cheese-PositionSetup/internal/setup"
	"github.com/park285/Cheese-PositionSetup/pkg/positiondto"
)

const ownerHeader = "X-User-Id"

var (
	errBadSquare   = errors.New("square must be a name like e4 or row/col in 0..7")
	errBadSide     = errors.New("side must be w or b")
	errBadCastling = errors.New("flag must be one of K, Q, k, q")
	errNoOwner     = errors.New(ownerHeader + " header is required")
	errNoImageDir  = errors.New("reference images are disabled")
	errImagePath   = errors.New("image path escapes the image directory")
)

type Handler struct {
	sessions  *Manager
	renderer  render.BoardRenderer
	library   library.Repository
	imageDir  string
	listLimit int
	timeout   time.Duration
	logger    *zap.Logger
}

type HandlerOption func(*Handler)

func WithLibrary(repo library.Repository) HandlerOption {
	return func(h *Handler) { h.library = repo }
}

func WithImageDir(dir string) HandlerOption {
	return func(h *Handler) { h.imageDir = strings.TrimSpace(dir) }
}

func WithListLimit(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.listLimit = n
		}
	}
}

func WithLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandler(sessions *Manager, renderer render.BoardRenderer, opts ...HandlerOption) *Handler {
	h := &Handler{
		sessions:  sessions,
		renderer:  renderer,
		listLimit: 20,
		timeout:   5 * time.Second,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle is the fasthttp.RequestHandler for the whole API.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	method := string(ctx.Method())
	parts := splitPath(string(ctx.Path()))
	h.route(ctx, method, parts)
	h.logger.Debug("http_request",
		zap.String("method", method),
		zap.ByteString("path", ctx.Path()),
		zap.Int("status", ctx.Response.StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
}

func (h *Handler) route(ctx *fasthttp.RequestCtx, method string, parts []string) {
	switch {
	case len(parts) == 1 && parts[0] == "healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case len(parts) == 1 && parts[0] == "sessions" && method == fasthttp.MethodPost:
		h.createSession(ctx)
	case len(parts) == 2 && parts[0] == "sessions":
		switch method {
		case fasthttp.MethodGet:
			h.withSession(ctx, parts[1], func(*setup.Session) error { return nil })
		case fasthttp.MethodDelete:
			if !h.sessions.Delete(parts[1]) {
				writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, ErrSessionNotFound.Error())
				return
			}
			ctx.SetStatusCode(fasthttp.StatusNoContent)
		default:
			methodNotAllowed(ctx)
		}
	case len(parts) >= 3 && parts[0] == "sessions":
		h.sessionAction(ctx, method, parts[1], parts[2:])
	case len(parts) >= 1 && parts[0] == "library":
		h.libraryAction(ctx, method, parts[1:])
	default:
		writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, "no such route")
	}
}

func (h *Handler) createSession(ctx *fasthttp.RequestCtx) {
	var req positiondto.FENRequest
	if len(ctx.PostBody()) > 0 && !decode(ctx, &req) {
		return
	}
	id, err := h.sessions.Create()
	if err != nil {
		if errors.Is(err, ErrSessionLimit) {
			writeError(ctx, fasthttp.StatusServiceUnavailable, positiondto.CodeSessionLimit, err.Error())
			return
		}
		writeError(ctx, fasthttp.StatusInternalServerError, positiondto.CodeInternal, err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusCreated)
	h.withSession(ctx, id, func(s *setup.Session) error {
		if strings.TrimSpace(req.FEN) != "" {
			s.SetFEN(req.FEN)
		}
		return nil
	})
}

func (h *Handler) sessionAction(ctx *fasthttp.RequestCtx, method, id string, rest []string) {
	action := rest[0]
	key := method + " " + action
	switch key {
	case "GET fen":
		_, err := h.sessions.With(id, func(s *setup.Session) error {
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString(s.FEN())
			return nil
		})
		if err != nil {
			h.fail(ctx, err)
		}
	case "PUT fen":
		var req positiondto.FENRequest
		if decode(ctx, &req) {
			h.withSession(ctx, id, func(s *setup.Session) error { s.SetFEN(req.FEN); return nil })
		}
	case "POST apply":
		var req positiondto.FENRequest
		if decode(ctx, &req) {
			h.withSession(ctx, id, func(s *setup.Session) error { return s.ApplyFEN(req.FEN) })
		}
	case "POST select":
		var req positiondto.SelectPieceRequest
		if decode(ctx, &req) {
			h.withSession(ctx, id, func(s *setup.Session) error {
				s.SelectPiece(symbolFromText(req.Piece))
				return nil
			})
		}
	case "POST click":
		var req positiondto.SquareRequest
		if !decode(ctx, &req) {
			return
		}
		row, col, ok := squareFromRequest(req)
		if !ok {
			writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, errBadSquare.Error())
			return
		}
		h.withSession(ctx, id, func(s *setup.Session) error { s.Click(row, col); return nil })
	case "POST clear-square":
		h.withSession(ctx, id, func(s *setup.Session) error { s.ClearSquare(); return nil })
	case "POST clear-all":
		h.withSession(ctx, id, func(s *setup.Session) error { s.ClearAll(); return nil })
	case "POST reset":
		h.withSession(ctx, id, func(s *setup.Session) error { s.Reset(); return nil })
	case "PUT side":
		var req positiondto.SideRequest
		if !decode(ctx, &req) {
			return
		}
		var side position.Side
		switch strings.TrimSpace(req.Side) {
		case "w", "white":
			side = position.White
		case "b", "black":
			side = position.Black
		default:
			writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, errBadSide.Error())
			return
		}
		h.withSession(ctx, id, func(s *setup.Session) error { s.SetSideToMove(side); return nil })
	case "PUT castling":
		var req positiondto.CastlingRequest
		if !decode(ctx, &req) {
			return
		}
		flag, ok := castlingFlag(req.Flag)
		if !ok {
			writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, errBadCastling.Error())
			return
		}
		h.withSession(ctx, id, func(s *setup.Session) error { s.SetCastling(flag, req.On); return nil })
	case "PUT en-passant":
		var req positiondto.EnPassantRequest
		if decode(ctx, &req) {
			h.withSession(ctx, id, func(s *setup.Session) error { s.SetEnPassantText(req.Square); return nil })
		}
	case "PUT halfmove", "PUT fullmove":
		var req positiondto.ClockRequest
		if !decode(ctx, &req) {
			return
		}
		h.withSession(ctx, id, func(s *setup.Session) error {
			if action == "halfmove" {
				s.SetHalfmove(req.Value)
			} else {
				s.SetFullmove(req.Value)
			}
			return nil
		})
	case "POST copy":
		h.withSession(ctx, id, func(s *setup.Session) error {
			c, cancel := h.requestContext()
			defer cancel()
			return s.CopyFEN(c)
		})
	case "POST paste":
		h.withSession(ctx, id, func(s *setup.Session) error {
			c, cancel := h.requestContext()
			defer cancel()
			return s.PasteFEN(c)
		})
	case "PUT image":
		var req positiondto.ImageRequest
		if !decode(ctx, &req) {
			return
		}
		path, err := h.resolveImage(req.Path)
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, err.Error())
			return
		}
		h.withSession(ctx, id, func(s *setup.Session) error { return s.LoadReferenceImage(path) })
	case "DELETE image":
		h.withSession(ctx, id, func(s *setup.Session) error { s.ClearReferenceImage(); return nil })
	case "GET image.png":
		h.referencePreview(ctx, id)
	case "GET board.png":
		h.boardPNG(ctx, id)
	case "GET pieces":
		_, err := h.sessions.With(id, func(s *setup.Session) error {
			choices := s.PieceChoices()
			out := make([]positiondto.PieceChoice, 0, len(choices))
			for _, c := range choices {
				out = append(out, positiondto.PieceChoice{Symbol: c.Symbol.String(), Label: c.Label})
			}
			writeJSON(ctx, fasthttp.StatusOK, out)
			return nil
		})
		if err != nil {
			h.fail(ctx, err)
		}
	case "POST library":
		h.saveToLibrary(ctx, id)
	case "POST load":
		if len(rest) != 2 {
			writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, "no such route")
			return
		}
		h.loadFromLibrary(ctx, id, rest[1])
	default:
		writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, "no such route")
	}
}

// withSession runs fn and answers with the resulting session state.
func (h *Handler) withSession(ctx *fasthttp.RequestCtx, id string, fn func(*setup.Session) error) {
	var state positiondto.SessionState
	warnings, err := h.sessions.With(id, func(s *setup.Session) error {
		ferr := fn(s)
		state = stateFrom(id, s.Snapshot())
		return ferr
	})
	state.Warnings = warnings
	if err != nil {
		h.fail(ctx, err)
		return
	}
	status := fasthttp.StatusOK
	if ctx.Response.StatusCode() == fasthttp.StatusCreated {
		status = fasthttp.StatusCreated
	}
	writeJSON(ctx, status, state)
}

func (h *Handler) boardPNG(ctx *fasthttp.RequestCtx, id string) {
	args := ctx.QueryArgs()
	opts := render.Options{
		SquareSize: args.GetUintOrZero("size"),
		Flip:       args.GetBool("flip"),
		HideHUD:    args.GetBool("nohud"),
	}
	var pos *position.Position
	_, err := h.sessions.With(id, func(s *setup.Session) error {
		pos = s.Position()
		if sq, ok := s.LastSquare(); ok {
			opts.Highlight = &[2]int{sq.Row, sq.Col}
		}
		return nil
	})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()
	img, err := h.renderer.RenderPNG(c, pos, opts)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.SetBody(img)
}

func (h *Handler) referencePreview(ctx *fasthttp.RequestCtx, id string) {
	args := ctx.QueryArgs()
	w, hh := args.GetUintOrZero("w"), args.GetUintOrZero("h")
	if w <= 0 || w > 2048 {
		w = 320
	}
	if hh <= 0 || hh > 2048 {
		hh = 320
	}
	var buf bytes.Buffer
	found := false
	_, err := h.sessions.With(id, func(s *setup.Session) error {
		img := s.ReferencePreview(w, hh)
		if img == nil {
			return nil
		}
		found = true
		return png.Encode(&buf, img)
	})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if !found {
		writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, "no reference image loaded")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.SetBody(buf.Bytes())
}

func (h *Handler) resolveImage(raw string) (string, error) {
	if h.imageDir == "" {
		return "", errNoImageDir
	}
	rel := filepath.Clean("/" + strings.TrimSpace(raw))
	full := filepath.Join(h.imageDir, rel)
	root := filepath.Clean(h.imageDir)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", errImagePath
	}
	return full, nil
}

func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

// fail maps domain errors onto status codes.
func (h *Handler) fail(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, library.ErrNotFound):
		writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, err.Error())
	case errors.Is(err, position.ErrInvalidFEN):
		writeError(ctx, fasthttp.StatusUnprocessableEntity, positiondto.CodeInvalidFEN, err.Error())
	case errors.Is(err, library.ErrInvalidName):
		writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, err.Error())
	case errors.Is(err, setup.ErrNoClipboard):
		writeError(ctx, fasthttp.StatusServiceUnavailable, positiondto.CodeUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(ctx, fasthttp.StatusGatewayTimeout, positiondto.CodeUnavailable, err.Error())
	default:
		h.logger.Warn("request_failed", zap.ByteString("path", ctx.Path()), zap.Error(err))
		writeError(ctx, fasthttp.StatusUnprocessableEntity, positiondto.CodeBadRequest, err.Error())
	}
}

func stateFrom(id string, snap setup.Snapshot) positiondto.SessionState {
	board := make([]string, 0, position.Size)
	for _, rank := range snap.Board {
		var b strings.Builder
		for _, sym := range rank {
			b.WriteByte(byte(sym))
		}
		board = append(board, b.String())
	}
	st := positiondto.SessionState{
		SessionID:  id,
		FEN:        snap.FEN,
		Board:      board,
		SideToMove: snap.SideToMove.Letter(),
		Castling: positiondto.CastlingRights{
			WhiteKingside:  snap.Castling.WhiteKingside,
			WhiteQueenside: snap.Castling.WhiteQueenside,
			BlackKingside:  snap.Castling.BlackKingside,
			BlackQueenside: snap.Castling.BlackQueenside,
		},
		EnPassant: snap.EnPassant,
		Halfmove:  snap.Halfmove,
		Fullmove:  snap.Fullmove,
		Selected:  snap.Selected.String(),
	}
	if snap.Reference != "" {
		st.Reference = filepath.Base(snap.Reference)
	}
	if snap.LastSquare != nil {
		st.LastSquare = snap.LastSquare.Name()
	}
	return st
}

func symbolFromText(text string) position.Symbol {
	text = strings.TrimSpace(text)
	if len(text) != 1 {
		return position.Empty
	}
	return position.Symbol(text[0])
}

func squareFromRequest(req positiondto.SquareRequest) (int, int, bool) {
	if req.Square != "" {
		return position.ParseSquare(req.Square)
	}
	if req.Row == nil || req.Col == nil {
		return 0, 0, false
	}
	row, col := *req.Row, *req.Col
	if row < 0 || row >= position.Size || col < 0 || col >= position.Size {
		return 0, 0, false
	}
	return row, col, true
}

func castlingFlag(text string) (position.CastlingFlag, bool) {
	text = strings.TrimSpace(text)
	if len(text) != 1 {
		return 0, false
	}
	switch f := position.CastlingFlag(text[0]); f {
	case position.CastleWhiteKingside, position.CastleWhiteQueenside, position.CastleBlackKingside, position.CastleBlackQueenside:
		return f, true
	}
	return 0, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func decode(ctx *fasthttp.RequestCtx, dst any) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code, message string) {
	writeJSON(ctx, status, positiondto.Error{Code: code, Message: message})
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	writeError(ctx, fasthttp.StatusMethodNotAllowed, positiondto.CodeBadRequest, "method not allowed")
}

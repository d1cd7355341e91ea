package httpapi

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/park285/Cheese-PositionSetup/internal/library"
	"github.com/park285/Cheese-PositionSetup/internal/setup"
	"github.com/park285/Cheese-PositionSetup/pkg/positiondto"
)

func (h *Handler) owner(ctx *fasthttp.RequestCtx) (string, bool) {
	if h.library == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, positiondto.CodeUnavailable, "position library is disabled")
		return "", false
	}
	owner := strings.TrimSpace(string(ctx.Request.Header.Peek(ownerHeader)))
	if owner == "" {
		writeError(ctx, fasthttp.StatusBadRequest, positiondto.CodeBadRequest, errNoOwner.Error())
		return "", false
	}
	return owner, true
}

func (h *Handler) libraryAction(ctx *fasthttp.RequestCtx, method string, rest []string) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}
	c, cancel := h.requestContext()
	defer cancel()

	switch {
	case len(rest) == 0 && method == fasthttp.MethodGet:
		limit := ctx.QueryArgs().GetUintOrZero("limit")
		if limit <= 0 {
			limit = h.listLimit
		}
		items, err := h.library.List(c, owner, limit)
		if err != nil {
			h.fail(ctx, err)
			return
		}
		out := make([]positiondto.SavedPosition, 0, len(items))
		for _, e := range items {
			out = append(out, savedFrom(e))
		}
		writeJSON(ctx, fasthttp.StatusOK, out)
	case len(rest) == 1 && method == fasthttp.MethodGet:
		e, err := h.library.Get(c, owner, rest[0])
		if err != nil {
			h.fail(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, savedFrom(e))
	case len(rest) == 1 && method == fasthttp.MethodDelete:
		if err := h.library.Delete(c, owner, rest[0]); err != nil {
			h.fail(ctx, err)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	default:
		writeError(ctx, fasthttp.StatusNotFound, positiondto.CodeNotFound, "no such route")
	}
}

// saveToLibrary stores the session's current position under a name.
func (h *Handler) saveToLibrary(ctx *fasthttp.RequestCtx, id string) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}
	var req positiondto.SaveRequest
	if !decode(ctx, &req) {
		return
	}
	var fen string
	if _, err := h.sessions.With(id, func(s *setup.Session) error { fen = s.FEN(); return nil }); err != nil {
		h.fail(ctx, err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()
	e, err := h.library.Save(c, &library.Entry{Owner: owner, Name: req.Name, FEN: fen})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, savedFrom(e))
}

// loadFromLibrary applies a saved position to the session.
func (h *Handler) loadFromLibrary(ctx *fasthttp.RequestCtx, id, entryID string) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}
	c, cancel := h.requestContext()
	defer cancel()
	e, err := h.library.Get(c, owner, entryID)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.withSession(ctx, id, func(s *setup.Session) error { return s.ApplyFEN(e.FEN) })
}

func savedFrom(e *library.Entry) positiondto.SavedPosition {
	return positiondto.SavedPosition{ID: e.ID, Name: e.Name, FEN: e.FEN, CreatedAt: e.CreatedAt}
}

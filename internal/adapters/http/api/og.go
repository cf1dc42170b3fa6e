package api

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/sharecard"
)

// CardRenderer draws share cards.
type CardRenderer interface {
	Render(w io.Writer, c sharecard.Card) error
}

// OGHandler serves social preview images.
type OGHandler struct {
	cards CardRenderer
}

// NewOGHandler creates a new share card handler.
func NewOGHandler(cards CardRenderer) *OGHandler {
	return &OGHandler{cards: cards}
}

// HandleOG handles GET /api/og?title=&imdb=&rt= requests.
func (h *OGHandler) HandleOG(w http.ResponseWriter, r *http.Request) {
	const op = "api.og"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	card := sharecard.Card{
		Title:   q.Get("title"),
		Numeric: q.Get("imdb"),
		Percent: q.Get("rt"),
	}

	var buf bytes.Buffer
	if err := h.cards.Render(&buf, card); err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

package api

import (
	"context"
	"net/http"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/types"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

// SearchDependencies defines the interface for search operations.
type SearchDependencies interface {
	Search(ctx context.Context, q string) ([]model.SearchResult, error)
}

// SearchHandler handles search requests.
type SearchHandler struct {
	deps   SearchDependencies
	logger logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, l logger.Logger) *SearchHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &SearchHandler{deps: deps, logger: l}
}

// HandleSearch handles GET /api/search?q= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", noStore)

	results, err := h.deps.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		status, code := statusFor(err)
		h.logger.Warn(r.Context(), "search failed",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Int("status", status),
			logger.Error(err),
		)
		writeError(w, status, code, lookupError(op, status, err))
		return
	}
	writeJSON(w, http.StatusOK, types.SearchResponse{Results: results})
}

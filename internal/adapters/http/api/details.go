package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	service "github.com/sureshchouksey8/MOVIERATINGS/internal/app"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

// DetailsDependencies defines the interface for detail lookups.
type DetailsDependencies interface {
	Details(ctx context.Context, id int64) (model.DetailRecord, error)
}

// DetailsHandler handles detail requests.
type DetailsHandler struct {
	deps   DetailsDependencies
	logger logger.Logger
}

// NewDetailsHandler creates a new details handler.
func NewDetailsHandler(deps DetailsDependencies, l logger.Logger) *DetailsHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &DetailsHandler{deps: deps, logger: l}
}

// HandleDetails handles GET /api/details?tmdbId= requests.
func (h *DetailsHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	const op = "api.details"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", noStore)

	raw := strings.TrimSpace(r.URL.Query().Get("tmdbId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if raw == "" || err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("tmdbId required")))
		return
	}

	rec, err := h.deps.Details(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		h.logger.Warn(r.Context(), "details failed",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Int64("tmdbId", id),
			logger.Int("status", status),
			logger.Error(err),
		)
		writeError(w, status, code, lookupError(op, status, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// statusFor maps service errors onto HTTP statuses and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusInternalServerError, "not_configured"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, service.ErrCatalogUnavailable):
		var ue *httpx.UpstreamError
		if errors.As(err, &ue) && ue.NotFound() {
			return http.StatusNotFound, "not_found"
		}
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

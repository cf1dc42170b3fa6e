// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/sharecard"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/types"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

// DefaultImageProxyHosts are the poster hosts the image proxy may fetch from.
var DefaultImageProxyHosts = []string{"image.tmdb.org", "m.media-amazon.com", "via.placeholder.com"}

const noStore = "no-store, no-cache, must-revalidate"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Search(ctx context.Context, q string) ([]model.SearchResult, error)
	Details(ctx context.Context, id int64) (model.DetailRecord, error)
}

// Server wires HTTP routes for the lookup API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	searchHandler  *SearchHandler
	detailsHandler *DetailsHandler
	imageHandler   *ImageProxyHandler
	ogHandler      *OGHandler

	limiter *IPRateLimiter
	logger  logger.Logger

	// Options
	ratePerMinute int
	rateBurst     int
	proxyHosts    []string
	imageClient   *httpx.Client
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	s := &Server{
		proxyHosts: DefaultImageProxyHosts,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.imageClient == nil {
		s.imageClient = httpx.New("image")
	}

	cards, err := sharecard.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("share card renderer: %w", err)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.searchHandler = NewSearchHandler(deps, s.logger)
	s.detailsHandler = NewDetailsHandler(deps, s.logger)
	s.imageHandler = NewImageProxyHandler(s.imageClient, s.proxyHosts)
	s.ogHandler = NewOGHandler(cards)
	return s, nil
}

// Register attaches all HTTP routes to mux. The rate limiter's cleanup loop
// stops when ctx is done.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	if s.ratePerMinute > 0 {
		s.limiter = NewIPRateLimiter(ctx, s.ratePerMinute, s.rateBurst)
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/search", s.route("search", s.searchHandler.HandleSearch))
	mux.HandleFunc("/api/details", s.route("details", s.detailsHandler.HandleDetails))
	mux.HandleFunc("/api/image-proxy", s.route("image_proxy", s.imageHandler.HandleImage))
	mux.HandleFunc("/api/og", s.route("og", s.ogHandler.HandleOG))
}

// route applies the shared middleware chain to an API handler.
func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return MetricsMiddleware(RequestIDMiddleware(RateLimitMiddleware(s.limiter, name, h)), name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError replies with a JSON error body. Only 4xx replies echo err;
// server-side failures carry the status text and the cause stays in the logs.
func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}

// lookupError is the client-facing form of a service error. Upstream detail
// such as provider URLs never leaves the server.
func lookupError(op string, status int, err error) error {
	if status == http.StatusBadRequest {
		return Wrap(op, err)
	}
	return nil
}

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
)

// ImageFetcher is the upstream used by the proxy.
type ImageFetcher interface {
	Get(ctx context.Context, operation, rawURL string, header http.Header) (*httpx.Response, error)
}

// ImageProxyHandler relays poster images from allow-listed hosts so that
// pages can draw them onto a canvas.
type ImageProxyHandler struct {
	fetcher ImageFetcher
	allowed map[string]struct{}
}

// NewImageProxyHandler creates a new image proxy handler.
func NewImageProxyHandler(fetcher ImageFetcher, hosts []string) *ImageProxyHandler {
	allowed := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = struct{}{}
		}
	}
	return &ImageProxyHandler{fetcher: fetcher, allowed: allowed}
}

// Allowed reports whether rawURL may be proxied.
func (h *ImageProxyHandler) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	_, ok := h.allowed[strings.ToLower(u.Hostname())]
	return ok
}

// HandleImage handles GET /api/image-proxy?url= requests.
func (h *ImageProxyHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	const op = "api.image_proxy"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", noStore)

	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if !h.Allowed(target) {
		writeError(w, http.StatusBadRequest, "host_not_allowed", NewKind(op, ErrNotAllowed))
		return
	}

	resp, err := h.fetcher.Get(r.Context(), "image", target, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", NewKind(op, ErrUpstream))
		return
	}

	sniffed := mimetype.Detect(resp.Body)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = sniffed.String()
	}
	if !strings.HasPrefix(sniffed.String(), "image/") {
		writeError(w, http.StatusBadGateway, "upstream_error", NewKind(op, ErrUpstream))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

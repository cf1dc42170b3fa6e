package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBodyTooLarge is returned when a response exceeds the configured limit.
var ErrBodyTooLarge = errors.New("response body too large")

// UpstreamError is a non-2xx answer from a third-party provider.
type UpstreamError struct {
	Provider   string
	URL        string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d from %s", e.Provider, e.StatusCode, e.URL)
}

// NotFound reports whether the provider answered 404.
func (e *UpstreamError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}

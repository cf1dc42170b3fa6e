package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrCatalogUnavailable wraps any catalog failure; the upstream error is
	// kept in the chain so callers can inspect its status.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrNotConfigured is returned when no catalog credentials are set.
	ErrNotConfigured = errors.New("catalog not configured")

	// ErrInvalidID is returned for non-positive catalog ids.
	ErrInvalidID = errors.New("invalid catalog id")
)

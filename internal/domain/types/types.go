// Package types contains the JSON envelopes shared by the HTTP API and its
// clients.
package types

import "github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Results []model.SearchResult `json:"results"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

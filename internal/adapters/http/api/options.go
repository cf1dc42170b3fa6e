package api

import (
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits each client IP to perMinute requests per route, with
// the given burst. Zero disables limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *Server) {
		if perMinute >= 0 {
			s.ratePerMinute = perMinute
		}
		if burst > 0 {
			s.rateBurst = burst
		}
	}
}

// WithImageProxyHosts replaces the image proxy allow list.
func WithImageProxyHosts(hosts []string) Option {
	return func(s *Server) {
		if len(hosts) > 0 {
			s.proxyHosts = hosts
		}
	}
}

// WithImageClient sets the upstream client used by the image proxy.
func WithImageClient(c *httpx.Client) Option {
	return func(s *Server) {
		if c != nil {
			s.imageClient = c
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

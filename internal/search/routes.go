/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package search

import (
	"github.com/go-chi/chi/v5"

	"github.com/acronis/go-hrsearch/httpserver"
	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/internal/ratelimit"
)

// Path of the search endpoint.
const Path = "/search"

// RoutesOpts contains dependencies of the search routes.
type RoutesOpts struct {
	Store   directory.Store
	Columns directory.OrganizationColumns

	Limiter ratelimit.Limiter
	Rate    ratelimit.Rate
	// ClientKeyHeader is the header with the client identity. Empty value means the peer address only.
	ClientKeyHeader string
	// RateLimitMetrics is optional.
	RateLimitMetrics *ratelimit.MetricsCollector
}

// Routes returns the API route that mounts GET /search.
// Requests are validated first, then rate limited, so malformed requests do not consume the client quota.
func Routes(opts RoutesOpts) httpserver.APIRoute {
	handler := NewHandler(opts.Store, opts.Columns)
	rateLimit := middleware.RateLimitWithOpts(opts.Limiter, opts.Rate, ErrDomain, middleware.RateLimitOpts{
		GetKey:  middleware.ClientKeyFromRequest(opts.ClientKeyHeader),
		Metrics: opts.RateLimitMetrics,
	})
	return func(router chi.Router) {
		router.With(RequireQueryParams(QueryParamOrganizationID), rateLimit).Get(Path, handler.ServeHTTP)
	}
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-hrsearch/httpserver"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/internal/ratelimit"
	"github.com/acronis/go-hrsearch/internal/search"
	"github.com/acronis/go-hrsearch/internal/version"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/profserver"
	"github.com/acronis/go-hrsearch/restapi"
	"github.com/acronis/go-hrsearch/service"
)

const metricsNamespace = "hrsearch"

const healthCheckComponentDirectory = "directory"

// App holds the wired components of the service.
type App struct {
	Store      *directory.MemoryStore
	Limiter    ratelimit.Limiter
	HTTPServer *httpserver.HTTPServer
	Unit       service.Unit
}

// NewApp builds the directory, the rate limiter and the HTTP server from the configuration.
func NewApp(cfg *AppConfig, logger log.FieldLogger) (*App, error) {
	store, err := directory.NewStore(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("create employee directory: %w", err)
	}
	for org, cols := range cfg.Directory.Organizations.UnknownColumns() {
		logger.Warn("unknown columns are configured for organization, they will be skipped",
			log.String("organization_id", org), log.Strings("columns", cols))
	}

	limiter, err := ratelimit.NewLimiter(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}
	rateLimitMetrics := ratelimit.NewMetricsCollector(metricsNamespace, cfg.RateLimit.Alg, limiter)

	srv := httpserver.New(cfg.Server, logger, httpserver.Opts{
		ErrorDomain: search.ErrDomain,
		APIRoutes: []httpserver.APIRoute{search.Routes(search.RoutesOpts{
			Store:            store,
			Columns:          cfg.Directory.Organizations,
			Limiter:          limiter,
			Rate:             cfg.RateLimit.Rate(),
			ClientKeyHeader:  cfg.RateLimit.ClientKeyHeader,
			RateLimitMetrics: rateLimitMetrics,
		})},
		HealthCheck:        newHealthCheck(store, cfg.Directory.Organizations),
		HTTPRequestMetrics: httpserver.HTTPRequestMetricsOpts{Namespace: metricsNamespace},
		MetricsRegisterers: []service.MetricsRegisterer{
			&metricsRegisterer{rateLimit: rateLimitMetrics, buildInfo: version.NewBuildInfoCollector(metricsNamespace)},
		},
	})

	units := []service.Unit{srv}
	if statsUnit := ratelimit.NewStatsUnit(limiter, cfg.RateLimit, logger); statsUnit != nil {
		units = append(units, statsUnit)
	}
	if cfg.ProfServer.Enabled {
		units = append(units, profserver.New(cfg.ProfServer, logger))
	}
	var unit service.Unit = srv
	if len(units) > 1 {
		unit = service.NewCompositeUnit(units...)
	}

	logger.Info("service is configured",
		log.Int("employees", store.Len()),
		log.Strings("organizations", cfg.Directory.Organizations.Organizations()),
		log.String("rate_limit_alg", string(cfg.RateLimit.Alg)),
		log.Int("rate_limit", cfg.RateLimit.Limit),
		log.Duration("rate_limit_window", cfg.RateLimit.Rate().Duration),
	)
	return &App{Store: store, Limiter: limiter, HTTPServer: srv, Unit: unit}, nil
}

func newHealthCheck(store directory.Store, columns directory.OrganizationColumns) httpserver.HealthCheck {
	return func(ctx context.Context) (httpserver.HealthCheckResult, error) {
		status := httpserver.HealthCheckStatusOK
		for _, org := range columns.Organizations() {
			if _, err := store.Search(ctx, directory.Query{OrganizationID: org}); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				status = httpserver.HealthCheckStatusFail
				break
			}
		}
		return httpserver.HealthCheckResult{healthCheckComponentDirectory: status}, nil
	}
}

type metricsRegisterer struct {
	rateLimit *ratelimit.MetricsCollector
	buildInfo prometheus.Collector
}

func (mr *metricsRegisterer) MustRegisterMetrics() {
	mr.rateLimit.MustRegister()
	prometheus.MustRegister(mr.buildInfo)
	restapi.MustRegisterErrorMetrics(metricsNamespace)
}

func (mr *metricsRegisterer) UnregisterMetrics() {
	restapi.UnregisterErrorMetrics()
	prometheus.Unregister(mr.buildInfo)
	mr.rateLimit.Unregister()
}

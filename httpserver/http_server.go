/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package httpserver provides the HTTP server unit with the default middleware chain and system endpoints.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/service"
)

const (
	networkTCP  = "tcp"
	networkUnix = "unix"
)

// systemEndpoints is a list of endpoints which are not involved in metrics collecting.
var systemEndpoints = []string{"/metrics", "/healthz"}

// APIRoute registers API handlers in the router.
type APIRoute = func(router chi.Router)

// HTTPRequestMetricsOpts represents options for the HTTP request metrics middleware that used in HTTPServer.
type HTTPRequestMetricsOpts struct {
	Namespace       string
	DurationBuckets []float64
}

// Opts represents options for creating HTTPServer.
type Opts struct {
	// APIRoutes are mounted at the root of the router behind the default middlewares.
	APIRoutes []APIRoute
	// ErrorDomain is used for error response formatting.
	ErrorDomain string
	// HealthCheck returns statuses of the service components for /healthz.
	HealthCheck HealthCheck
	// MetricsHandler is a custom handler for the /metrics endpoint.
	MetricsHandler http.Handler
	// HTTPRequestMetrics contains options for configuring HTTP request metrics middleware.
	HTTPRequestMetrics HTTPRequestMetricsOpts
	// MetricsRegisterers are registered and unregistered together with the server metrics.
	MetricsRegisterers []service.MetricsRegisterer
	// Listener is a pre-configured network listener to use instead of creating a new one.
	Listener net.Listener
}

// HTTPServer represents a wrapper around http.Server with additional fields and methods.
// chi.Router is used as a handler for the server.
// It also implements service.Unit and service.MetricsRegisterer interfaces.
type HTTPServer struct {
	URL             string
	HTTPServer      *http.Server
	UnixSocketPath  string
	TLS             TLSConfig
	HTTPRouter      chi.Router
	Logger          log.FieldLogger
	ShutdownTimeout time.Duration

	listener           net.Listener
	port               int32
	httpServerDone     atomic.Value
	httpReqMetrics     *middleware.HTTPRequestMetricsCollector
	metricsRegisterers []service.MetricsRegisterer
}

var _ service.Unit = (*HTTPServer)(nil)
var _ service.MetricsRegisterer = (*HTTPServer)(nil)

// New creates a new HTTPServer with predefined logging, metrics collecting,
// recovering after panics and health-checking functionality.
func New(cfg *Config, logger log.FieldLogger, opts Opts) *HTTPServer { //nolint // hugeParam: opts is heavy, it's ok in this case.
	httpReqMetrics := middleware.NewHTTPRequestMetricsCollectorWithOpts(middleware.HTTPRequestMetricsCollectorOpts{
		Namespace:       opts.HTTPRequestMetrics.Namespace,
		DurationBuckets: opts.HTTPRequestMetrics.DurationBuckets,
	})
	router := chi.NewRouter()
	applyDefaultMiddlewaresToRouter(router, cfg, logger, &opts, httpReqMetrics)
	configureRouter(router, logger, RouterOpts{
		APIRoutes:      opts.APIRoutes,
		ErrorDomain:    opts.ErrorDomain,
		HealthCheck:    opts.HealthCheck,
		MetricsHandler: opts.MetricsHandler,
	})

	httpServer := &http.Server{
		Addr:              cfg.Address,
		WriteTimeout:      time.Duration(cfg.Timeouts.Write),
		ReadTimeout:       time.Duration(cfg.Timeouts.Read),
		ReadHeaderTimeout: time.Duration(cfg.Timeouts.ReadHeader),
		IdleTimeout:       time.Duration(cfg.Timeouts.Idle),
		Handler:           router,
	}

	serverURL := httpServer.Addr
	if cfg.UnixSocketPath != "" {
		serverURL = "localhost" // Any domain can be used here. It will not be used in unix-socket case.
	}
	if cfg.TLS.Enabled {
		serverURL = "https://" + serverURL
	} else {
		serverURL = "http://" + serverURL
	}

	return &HTTPServer{
		URL:                serverURL,
		HTTPServer:         httpServer,
		UnixSocketPath:     cfg.UnixSocketPath,
		Logger:             logger,
		TLS:                cfg.TLS,
		ShutdownTimeout:    time.Duration(cfg.Timeouts.Shutdown),
		HTTPRouter:         router,
		listener:           opts.Listener,
		httpReqMetrics:     httpReqMetrics,
		metricsRegisterers: opts.MetricsRegisterers,
	}
}

// Start starts application HTTP server in a blocking way.
// It's supposed that this method will be called in a separate goroutine.
// If a fatal error occurs, it will be sent to the fatalError channel.
func (s *HTTPServer) Start(fatalError chan<- error) {
	done := make(chan struct{})
	defer close(done)
	s.httpServerDone.Store(done)

	logger := s.Logger.With(
		log.String("address", s.HTTPServer.Addr),
		log.Duration("write_timeout", s.HTTPServer.WriteTimeout),
		log.Duration("read_timeout", s.HTTPServer.ReadTimeout),
		log.Duration("read_header_timeout", s.HTTPServer.ReadHeaderTimeout),
		log.Duration("idle_timeout", s.HTTPServer.IdleTimeout),
		log.Duration("shutdown_timeout", s.ShutdownTimeout),
	)
	if s.UnixSocketPath != "" {
		logger = logger.With(log.String("unix_socket_path", s.UnixSocketPath))
		if err := os.Remove(s.UnixSocketPath); err != nil && !os.IsNotExist(err) {
			fatalError <- fmt.Errorf("remove unix socket file %q: %w", s.UnixSocketPath, err)
			return
		}
	}

	logger.Info("starting application HTTP server...")

	var err error
	if s.listener == nil {
		network, addr := s.NetworkAndAddr()
		if s.listener, err = net.Listen(network, addr); err != nil {
			logger.Error("application HTTP server error", log.Error(err))
			fatalError <- err
			return
		}
	}

	if s.listener.Addr().Network() == networkTCP {
		if err = s.storePort(); err != nil {
			logger.Error("unexpected format of TCP listener address", log.Error(err))
			fatalError <- err
			return
		}
	}

	if s.TLS.Enabled {
		err = s.HTTPServer.ServeTLS(s.listener, s.TLS.Certificate, s.TLS.Key)
	} else {
		err = s.HTTPServer.Serve(s.listener)
	}
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("application HTTP server closed")
			return
		}
		logger.Error("application HTTP server error", log.Error(err))
		fatalError <- err
	}
}

func (s *HTTPServer) storePort() error {
	_, portStr, err := net.SplitHostPort(s.listener.Addr().String())
	if err != nil {
		return fmt.Errorf("split host and port: %w", err)
	}
	port, err := strconv.ParseInt(portStr, 10, 32)
	if err != nil {
		return fmt.Errorf("parse port: %w", err)
	}
	atomic.StoreInt32(&s.port, int32(port))
	return nil
}

// Stop stops application HTTP server (gracefully or not).
func (s *HTTPServer) Stop(gracefully bool) error {
	if !gracefully {
		s.Logger.Info("closing application HTTP server...")
		if err := s.HTTPServer.Close(); err != nil {
			s.Logger.Error("application HTTP server closing error", log.Error(err))
			return err
		}
		s.waitServeDone()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	s.Logger.Info("shutting down application HTTP server...", log.Duration("timeout", s.ShutdownTimeout))
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		s.Logger.Error("application HTTP server shutting down error", log.Error(err))
		return err
	}
	s.Logger.Info("application HTTP server shut down")
	s.waitServeDone()
	return nil
}

func (s *HTTPServer) waitServeDone() {
	if done, ok := s.httpServerDone.Load().(chan struct{}); ok && done != nil {
		<-done // Wait for the listener to be closed.
	}
}

// MustRegisterMetrics registers metrics in Prometheus client and panics if any error occurs.
func (s *HTTPServer) MustRegisterMetrics() {
	s.httpReqMetrics.MustRegister()
	for _, mr := range s.metricsRegisterers {
		mr.MustRegisterMetrics()
	}
}

// UnregisterMetrics unregisters metrics in Prometheus client.
func (s *HTTPServer) UnregisterMetrics() {
	for _, mr := range s.metricsRegisterers {
		mr.UnregisterMetrics()
	}
	s.httpReqMetrics.Unregister()
}

// NetworkAndAddr returns network type ("tcp" or "unix") and address (path to unix socket in case of "unix" network).
func (s *HTTPServer) NetworkAndAddr() (network string, addr string) {
	if s.UnixSocketPath != "" {
		return networkUnix, s.UnixSocketPath
	}
	return networkTCP, s.HTTPServer.Addr
}

// GetPort returns the TCP port the server listens on, 0 until the listener is ready.
func (s *HTTPServer) GetPort() int {
	return int(atomic.LoadInt32(&s.port))
}

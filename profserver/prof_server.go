/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package profserver provides an HTTP server unit that exposes pprof endpoints under /debug.
package profserver

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/service"
)

// ProfServer is an HTTP server for profiling. It implements service.Unit.
type ProfServer struct {
	HTTPServer *http.Server
	Logger     log.FieldLogger

	port int32
	done chan struct{}
}

var _ service.Unit = (*ProfServer)(nil)

// New creates a new profiling server.
func New(cfg *Config, logger log.FieldLogger) *ProfServer {
	logger = logger.With(log.String("server", "pprof"))
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID(),
		middleware.LoggingWithOpts(logger, middleware.LoggingOpts{RequestStart: true}),
	)
	router.Mount("/debug", chimiddleware.Profiler())

	return &ProfServer{
		HTTPServer: &http.Server{Addr: cfg.Address, Handler: router, ReadHeaderTimeout: 5 * time.Second},
		Logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start serves pprof in a blocking way.
func (s *ProfServer) Start(fatalErr chan<- error) {
	defer close(s.done)

	logger := s.Logger.With(log.String("address", s.HTTPServer.Addr))
	logger.Info("starting profiling HTTP server...")

	ln, err := net.Listen("tcp", s.HTTPServer.Addr)
	if err != nil {
		logger.Error("profiling HTTP server error", log.Error(err))
		fatalErr <- err
		return
	}
	if _, portStr, splitErr := net.SplitHostPort(ln.Addr().String()); splitErr == nil {
		if port, parseErr := strconv.Atoi(portStr); parseErr == nil {
			atomic.StoreInt32(&s.port, int32(port))
		}
	}

	if err = s.HTTPServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("profiling HTTP server error", log.Error(err))
		fatalErr <- fmt.Errorf("profiling server: %w", err)
		return
	}
	logger.Info("profiling HTTP server closed")
}

// Stop closes the server. Profiling requests are not waited for, so gracefully is ignored.
func (s *ProfServer) Stop(gracefully bool) error {
	s.Logger.Info("closing profiling HTTP server...")
	if err := s.HTTPServer.Close(); err != nil {
		s.Logger.Error("profiling HTTP server closing error", log.Error(err))
		return err
	}
	<-s.done
	return nil
}

// GetPort returns the TCP port the server listens on, 0 until the listener is ready.
func (s *ProfServer) GetPort() int {
	return int(atomic.LoadInt32(&s.port))
}

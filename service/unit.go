/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package service runs the application units and stops them on OS signals.
package service

// Unit is a component of the service with its own lifecycle.
type Unit interface {
	// Start runs the unit. It may block for the whole lifetime of the unit.
	// A fatal error is sent to fatalErr once, and the channel is not used after Start returns.
	Start(fatalErr chan<- error)

	// Stop halts the unit. It may be called even if Start failed or was never called.
	Stop(gracefully bool) error
}

// MetricsRegisterer is implemented by units that export Prometheus metrics.
type MetricsRegisterer interface {
	MustRegisterMetrics()
	UnregisterMetrics()
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"fmt"

	"go.uber.org/atomic"
)

type mockUnit struct {
	name          string
	startErr      error
	stopWithError bool
	running       *atomic.Int32
	stopCh        chan struct{}
	done          chan struct{}

	startCalled               atomic.Int32
	stopCalled                atomic.Int32
	stopGracefullyCalled      atomic.Int32
	mustRegisterMetricsCalled atomic.Int32
	unregisterMetricsCalled   atomic.Int32
}

func newMockUnit(name string, running *atomic.Int32) *mockUnit {
	return &mockUnit{name: name, running: running, stopCh: make(chan struct{}), done: make(chan struct{})}
}

func (u *mockUnit) Start(fatalErr chan<- error) {
	defer close(u.done)
	u.startCalled.Inc()
	if u.startErr != nil {
		fatalErr <- u.startErr
		return
	}
	u.running.Inc()
	defer u.running.Dec()
	<-u.stopCh
}

func (u *mockUnit) Stop(gracefully bool) error {
	if u.stopCalled.Inc() == 1 {
		close(u.stopCh)
	}
	// Like a real unit, Stop returns only after Start has exited.
	if u.startCalled.Load() > 0 {
		<-u.done
	}
	if gracefully {
		u.stopGracefullyCalled.Inc()
	}
	if u.stopWithError {
		return fmt.Errorf("%s: stop error", u.name)
	}
	return nil
}

func (u *mockUnit) MustRegisterMetrics() {
	u.mustRegisterMetricsCalled.Inc()
}

func (u *mockUnit) UnregisterMetrics() {
	u.unregisterMetricsCalled.Inc()
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package restapi

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsLabelDomain = "domain"
	metricsLabelCode   = "code"
	metricsLabelStatus = "status"
)

var (
	errorsCounterMu sync.RWMutex
	errorsCounter   *prometheus.CounterVec
)

// MustRegisterErrorMetrics registers the <namespace>_api_errors_total counter.
// Every error response is counted by domain, error code and HTTP status,
// so rejected searches (429), unknown organizations (404) and invalid queries (422) are told apart.
func MustRegisterErrorMetrics(namespace string) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Number of error responses sent by the API.",
	}, []string{metricsLabelDomain, metricsLabelCode, metricsLabelStatus})
	prometheus.MustRegister(counter)

	errorsCounterMu.Lock()
	errorsCounter = counter
	errorsCounterMu.Unlock()
}

// UnregisterErrorMetrics unregisters the counter. Error responses are not counted afterwards.
func UnregisterErrorMetrics() {
	errorsCounterMu.Lock()
	defer errorsCounterMu.Unlock()
	if errorsCounter != nil {
		prometheus.Unregister(errorsCounter)
		errorsCounter = nil
	}
}

func countErrorResponse(httpStatusCode int, err *Error) {
	errorsCounterMu.RLock()
	defer errorsCounterMu.RUnlock()
	if errorsCounter == nil {
		return
	}
	errorsCounter.With(prometheus.Labels{
		metricsLabelDomain: err.Domain,
		metricsLabelCode:   err.Code,
		metricsLabelStatus: strconv.Itoa(httpStatusCode),
	}).Inc()
}

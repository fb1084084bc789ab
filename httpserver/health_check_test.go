/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/restapi"
	"github.com/acronis/go-hrsearch/testutil"
)

func TestHealthCheckHandler_ServeHTTP(t *testing.T) {
	makeRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		return req.WithContext(middleware.NewContextWithLogger(req.Context(), log.NewDisabledLogger()))
	}

	t.Run("health-check returns error", func(t *testing.T) {
		h := NewHealthCheckHandler(func(context.Context) (HealthCheckResult, error) {
			return nil, fmt.Errorf("internal error")
		})
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, makeRequest())
		require.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	t.Run("default health-check", func(t *testing.T) {
		resp := httptest.NewRecorder()
		NewHealthCheckHandler(nil).ServeHTTP(resp, makeRequest())
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, restapi.ContentTypeAppJSON, resp.Header().Get("Content-Type"))
		require.JSONEq(t, `{"components":{}}`, resp.Body.String())
	})

	t.Run("health-check returns unhealthy components", func(t *testing.T) {
		h := NewHealthCheckHandler(func(context.Context) (HealthCheckResult, error) {
			return HealthCheckResult{"directory": HealthCheckStatusFail, "rateLimiter": HealthCheckStatusOK}, nil
		})
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, makeRequest())
		require.Equal(t, http.StatusServiceUnavailable, resp.Code)
		require.JSONEq(t, `{"components":{"directory":false,"rateLimiter":true}}`, resp.Body.String())
	})

	t.Run("health-check returns healthy components", func(t *testing.T) {
		h := NewHealthCheckHandler(func(context.Context) (HealthCheckResult, error) {
			return HealthCheckResult{"directory": HealthCheckStatusOK}, nil
		})
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, makeRequest())
		testutil.RequireStringJSONInRecorder(t, resp, `{"components":{"directory":true}}`)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("client cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		resp := httptest.NewRecorder()
		NewHealthCheckHandler(nil).ServeHTTP(resp, makeRequest().WithContext(ctx))
		require.Equal(t, StatusClientClosedRequest, resp.Code)
	})
}

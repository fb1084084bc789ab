/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-hrsearch/config"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/log/logtest"
	"github.com/acronis/go-hrsearch/service"
	"github.com/acronis/go-hrsearch/testutil"
)

func TestApp(t *testing.T) {
	cfg, err := LoadAppConfig("")
	require.NoError(t, err)
	cfg.Server.Address = "127.0.0.1:0"
	cfg.RateLimit.Limit = 2
	cfg.RateLimit.StatsInterval = config.TimeDuration(10 * time.Millisecond)
	cfg.Directory.Organizations["org_d"] = []string{"first_name", "nickname"}
	cfg.ProfServer.Enabled = true
	cfg.ProfServer.Address = "127.0.0.1:0"

	logRecorder := logtest.NewRecorder()
	app, err := NewApp(cfg, logRecorder)
	require.NoError(t, err)
	require.IsType(t, &service.CompositeUnit{}, app.Unit)
	require.Len(t, app.Unit.(*service.CompositeUnit).Units, 3)

	entry, found := logRecorder.FindEntry("unknown columns are configured for organization, they will be skipped")
	require.True(t, found)
	orgField, _ := entry.FindField("organization_id")
	require.Equal(t, "org_d", string(orgField.Bytes))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.NewWithOpts(logRecorder, app.Unit, service.Opts{}).StartContext(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	port, err := testutil.WaitPortAndListeningServer("127.0.0.1", app.HTTPServer.GetPort, 3*time.Second)
	require.NoError(t, err)
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	get := func(path string, clientKey string) (int, string) {
		req, reqErr := http.NewRequest(http.MethodGet, baseURL+path, nil)
		require.NoError(t, reqErr)
		if clientKey != "" {
			req.Header.Set("X-Client-IP", clientKey)
		}
		resp, reqErr := http.DefaultClient.Do(req)
		require.NoError(t, reqErr)
		defer func() { _ = resp.Body.Close() }()
		body, reqErr := io.ReadAll(resp.Body)
		require.NoError(t, reqErr)
		return resp.StatusCode, string(body)
	}

	code, body := get("/search?organization_id=org_b&status=Not+started", "client_a")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, `{"employees":[{"first_name":"Heidi","last_name":"Green","department":"Finance",`+
		`"location":"Berlin","position":"Accountant","status":"Not started"}]}`, body)

	code, body = get("/search?organization_id=org_d", "client_a")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, `{"employees":[]}`, body)

	code, body = get("/search?organization_id=org_a", "client_a")
	require.Equal(t, http.StatusTooManyRequests, code)
	require.Contains(t, body, "Limit is 2 requests per 60 seconds.")

	code, _ = get("/search?organization_id=org_a", "client_b")
	require.Equal(t, http.StatusOK, code)

	code, body = get("/healthz", "")
	require.Equal(t, http.StatusOK, code)
	var health struct {
		Components map[string]bool `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	require.Equal(t, map[string]bool{healthCheckComponentDirectory: true}, health.Components)

	code, body = get("/metrics", "")
	require.Equal(t, http.StatusOK, code)
	for _, metric := range []string{
		"hrsearch_rate_limit_decisions_total",
		"hrsearch_rate_limit_tracked_keys",
		"hrsearch_build_info",
		"hrsearch_http_request_duration_seconds",
		`hrsearch_api_errors_total{code="tooManyRequests",domain="HRSearch",status="429"}`,
	} {
		require.True(t, strings.Contains(body, metric), "metric %q is not exported", metric)
	}

	require.Eventually(t, func() bool {
		_, found := logRecorder.FindEntry("rate limiter stats")
		return found
	}, 3*time.Second, 10*time.Millisecond)
}

func TestNewApp_InvalidEmployeesFile(t *testing.T) {
	cfg, err := LoadAppConfig("")
	require.NoError(t, err)
	cfg.Directory.EmployeesFile = "/nonexistent/employees.yml"
	_, err = NewApp(cfg, logtest.NewRecorder())
	require.ErrorContains(t, err, "create employee directory")
}

func TestHealthCheck_ContextCanceled(t *testing.T) {
	store, err := directory.NewMemoryStore(directory.SampleEmployees())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newHealthCheck(store, directory.DefaultOrganizationColumns())(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

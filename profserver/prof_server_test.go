/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package profserver

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-hrsearch/config"
	"github.com/acronis/go-hrsearch/log/logtest"
	"github.com/acronis/go-hrsearch/testutil"
)

func TestConfig(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, config.NewLoader(config.NewViperAdapter()).LoadDefaults(cfg))
	require.Equal(t, NewDefaultConfig(), cfg)

	cfg = NewConfig()
	err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(
		bytes.NewBufferString("profServer:\n  enabled: true\n  address: 127.0.0.1:6060\n"), config.DataTypeYAML, cfg)
	require.NoError(t, err)
	require.Equal(t, &Config{Enabled: true, Address: "127.0.0.1:6060"}, cfg)

	err = config.NewLoader(config.NewViperAdapter()).LoadFromReader(
		bytes.NewBufferString(`{"profServer":{"enabled":true,"address":""}}`), config.DataTypeJSON, NewConfig())
	require.EqualError(t, err, "profServer.address: cannot be empty when the profiling server is enabled")
}

func TestProfServer(t *testing.T) {
	srv := New(&Config{Enabled: true, Address: "127.0.0.1:0"}, logtest.NewRecorder())
	fatalErr := make(chan error, 1)
	go srv.Start(fatalErr)

	port, err := testutil.WaitPortAndListeningServer("127.0.0.1", srv.GetPort, 3*time.Second)
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/debug/pprof/cmdline", port))
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(true))
	testutil.RequireNoErrorInChannel(t, fatalErr)
}

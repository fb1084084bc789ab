/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-hrsearch/config"
	"github.com/acronis/go-hrsearch/log/logtest"
)

func TestStatsWorker(t *testing.T) {
	lim, err := NewSlidingWindowLog(1, time.Minute)
	require.NoError(t, err)
	lim.RecordRequest("a")
	lim.RecordRequest("b")

	logRecorder := logtest.NewRecorder()
	worker := NewStatsWorker(lim, AlgSlidingWindowLog, logRecorder)
	require.NoError(t, worker.Run(context.Background()))

	entry, found := logRecorder.FindEntry("rate limiter stats")
	require.True(t, found)
	field, found := entry.FindField("tracked_keys")
	require.True(t, found)
	require.EqualValues(t, 2, field.Int)
	field, found = entry.FindField("alg")
	require.True(t, found)
	require.Equal(t, string(AlgSlidingWindowLog), string(field.Bytes))
}

func TestNewStatsUnit(t *testing.T) {
	logRecorder := logtest.NewRecorder()
	cfg := NewDefaultConfig()
	cfg.StatsInterval = config.TimeDuration(10 * time.Millisecond)

	lim, err := NewLimiter(cfg)
	require.NoError(t, err)
	unit := NewStatsUnit(lim, cfg, logRecorder)
	require.NotNil(t, unit)

	fatalErr := make(chan error, 1)
	go unit.Start(fatalErr)
	require.Eventually(t, func() bool {
		_, found := logRecorder.FindEntry("rate limiter stats")
		return found
	}, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, unit.Stop(true))
	require.Len(t, fatalErr, 0)

	t.Run("disabled", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.StatsInterval = 0
		require.Nil(t, NewStatsUnit(lim, cfg, logRecorder))
	})

	t.Run("limiter without keys counter", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Alg = AlgLeakyBucket
		lb, err := NewLimiter(cfg)
		require.NoError(t, err)
		require.Nil(t, NewStatsUnit(lb, cfg, logRecorder))
	})
}

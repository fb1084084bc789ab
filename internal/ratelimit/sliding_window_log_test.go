/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"
)

type SlidingWindowLogTestSuite struct {
	suite.Suite
	clock *ManualClock
}

func TestSlidingWindowLog(t *testing.T) {
	suite.Run(t, new(SlidingWindowLogTestSuite))
}

func (ts *SlidingWindowLogTestSuite) SetupTest() {
	ts.clock = NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (ts *SlidingWindowLogTestSuite) newLimiter(limit int, window time.Duration, opts ...SlidingWindowLogOption) *SlidingWindowLog {
	lim, err := NewSlidingWindowLog(limit, window, append([]SlidingWindowLogOption{WithClock(ts.clock)}, opts...)...)
	ts.Require().NoError(err)
	return lim
}

func (ts *SlidingWindowLogTestSuite) TestNewWithInvalidParams() {
	tests := []struct {
		name   string
		limit  int
		window time.Duration
		errMsg string
	}{
		{"zero limit", 0, time.Second, "limit must be positive, got 0"},
		{"negative limit", -1, time.Second, "limit must be positive, got -1"},
		{"zero window", 1, 0, "window must be positive, got 0s"},
		{"negative window", 1, -time.Second, "window must be positive, got -1s"},
	}
	for _, tt := range tests {
		ts.Run(tt.name, func() {
			lim, err := NewSlidingWindowLog(tt.limit, tt.window)
			ts.EqualError(err, tt.errMsg)
			ts.Nil(lim)
		})
	}
}

func (ts *SlidingWindowLogTestSuite) TestAdmissionBound() {
	lim := ts.newLimiter(3, time.Minute)
	const key = "10.0.0.1"

	admitted := 0
	for i := 0; i < 10; i++ {
		if lim.CheckLimit(key) {
			lim.RecordRequest(key)
			admitted++
		}
		ts.clock.Advance(time.Second)
	}
	ts.Equal(3, admitted)
	ts.Len(lim.logs[key], 3)
}

func (ts *SlidingWindowLogTestSuite) TestWindowExpiry() {
	lim := ts.newLimiter(2, time.Second)
	const key = "10.0.0.1"
	start := ts.clock.Now()

	ts.True(lim.CheckLimit(key))
	lim.RecordRequest(key)

	ts.clock.Set(start.Add(100 * time.Millisecond))
	ts.True(lim.CheckLimit(key))
	lim.RecordRequest(key)

	ts.clock.Set(start.Add(500 * time.Millisecond))
	ts.False(lim.CheckLimit(key))

	ts.clock.Set(start.Add(1200 * time.Millisecond))
	ts.True(lim.CheckLimit(key))
	ts.Empty(lim.logs[key], "both timestamps are older than the window and must be pruned")
}

func (ts *SlidingWindowLogTestSuite) TestEntryOnWindowBoundaryIsCounted() {
	lim := ts.newLimiter(1, time.Second)
	const key = "10.0.0.1"
	start := ts.clock.Now()

	lim.RecordRequest(key)

	ts.clock.Set(start.Add(time.Second))
	ts.False(lim.CheckLimit(key))
	ts.Equal(time.Nanosecond, lim.RetryAfter(key))

	ts.clock.Set(start.Add(time.Second + time.Nanosecond))
	ts.True(lim.CheckLimit(key))
}

func (ts *SlidingWindowLogTestSuite) TestPerKeyIsolation() {
	lim := ts.newLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		ts.True(lim.CheckLimit("client-a"))
		lim.RecordRequest("client-a")
	}
	ts.False(lim.CheckLimit("client-a"))

	ts.True(lim.CheckLimit("client-b"))
	lim.RecordRequest("client-b")
	ts.True(lim.CheckLimit("client-b"))
	ts.Len(lim.logs["client-a"], 2)
	ts.Len(lim.logs["client-b"], 1)
}

func (ts *SlidingWindowLogTestSuite) TestCheckIsIdempotent() {
	lim := ts.newLimiter(2, time.Minute)
	const key = "10.0.0.1"
	lim.RecordRequest(key)

	for i := 0; i < 100; i++ {
		ts.True(lim.CheckLimit(key))
	}
	ts.Len(lim.logs[key], 1)

	lim.RecordRequest(key)
	for i := 0; i < 100; i++ {
		ts.False(lim.CheckLimit(key))
	}
	ts.Len(lim.logs[key], 2)
}

func (ts *SlidingWindowLogTestSuite) TestLimitOfOne() {
	lim := ts.newLimiter(1, time.Minute)
	const key = "10.0.0.1"

	ts.True(lim.CheckLimit(key))
	lim.RecordRequest(key)
	ts.False(lim.CheckLimit(key))

	ts.clock.Advance(time.Minute + time.Millisecond)
	ts.True(lim.CheckLimit(key))
}

func (ts *SlidingWindowLogTestSuite) TestRecordWithoutCheck() {
	lim := ts.newLimiter(1, time.Minute)
	const key = "10.0.0.1"

	lim.RecordRequest(key)
	lim.RecordRequest(key)
	lim.RecordRequest(key)
	ts.Len(lim.logs[key], 3)
	ts.False(lim.CheckLimit(key))
}

func (ts *SlidingWindowLogTestSuite) TestRetryAfter() {
	lim := ts.newLimiter(2, 10*time.Second)
	const key = "10.0.0.1"

	ts.Equal(time.Duration(0), lim.RetryAfter(key))

	lim.RecordRequest(key)
	ts.clock.Advance(3 * time.Second)
	lim.RecordRequest(key)
	ts.clock.Advance(time.Second)

	// The first entry leaves the window right after 10s since it was recorded, 4s have passed.
	ts.Equal(6*time.Second+time.Nanosecond, lim.RetryAfter(key))
	ts.clock.Advance(6 * time.Second)
	ts.False(lim.CheckLimit(key))
	ts.Equal(time.Nanosecond, lim.RetryAfter(key))

	ts.clock.Advance(time.Nanosecond)
	ts.Equal(time.Duration(0), lim.RetryAfter(key))
}

func (ts *SlidingWindowLogTestSuite) TestAllow() {
	lim := ts.newLimiter(2, time.Minute)
	ctx := context.Background()
	const key = "10.0.0.1"

	for i := 0; i < 2; i++ {
		allow, retryAfter, err := lim.Allow(ctx, key)
		ts.NoError(err)
		ts.True(allow)
		ts.Equal(time.Duration(0), retryAfter)
		ts.clock.Advance(10 * time.Second)
	}

	allow, retryAfter, err := lim.Allow(ctx, key)
	ts.NoError(err)
	ts.False(allow)
	ts.Equal(40*time.Second+time.Nanosecond, retryAfter)
	ts.Len(lim.logs[key], 2, "rejected request must not be recorded")
}

func (ts *SlidingWindowLogTestSuite) TestDropEmptyLogs() {
	for _, drop := range []bool{false, true} {
		ts.Run(fmt.Sprintf("drop=%t", drop), func() {
			lim := ts.newLimiter(1, time.Second, WithDropEmptyLogs(drop))
			lim.RecordRequest("client-a")
			lim.RecordRequest("client-b")
			ts.Equal(2, lim.Len())

			ts.clock.Advance(2 * time.Second)
			ts.True(lim.CheckLimit("client-a"))

			// Decisions do not depend on the option, only the number of remembered keys does.
			if drop {
				ts.Equal(1, lim.Len())
			} else {
				ts.Equal(2, lim.Len())
			}
			ts.True(lim.CheckLimit("client-b"))
		})
	}
}

func (ts *SlidingWindowLogTestSuite) TestConcurrentAccess() {
	const limit = 100
	const workers = 50
	const attemptsPerWorker = 20

	lim, err := NewSlidingWindowLog(limit, time.Minute)
	ts.Require().NoError(err)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < attemptsPerWorker; j++ {
				if lim.CheckLimit("shared") {
					lim.RecordRequest("shared")
					admitted.Inc()
				}
				_ = lim.CheckLimit(fmt.Sprintf("own-%d", j))
			}
		}()
	}
	wg.Wait()

	// Check and record are not atomic together, so every worker may slip one extra request in.
	ts.GreaterOrEqual(int(admitted.Load()), limit)
	ts.LessOrEqual(int(admitted.Load()), limit+workers)
	ts.Len(lim.logs["shared"], int(admitted.Load()))
	ts.False(lim.CheckLimit("shared"))
}

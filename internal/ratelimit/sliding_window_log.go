/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SlidingWindowLog is an exact sliding window rate limiter.
// It keeps the timestamps of admitted requests per key and admits a request
// while fewer than limit timestamps fall into the trailing window.
//
// CheckLimit and RecordRequest are separate operations, each atomic on its own.
// Two concurrent callers may both pass CheckLimit before either records, so under
// contention a key may be admitted slightly more than limit times per window.
type SlidingWindowLog struct {
	limit         int
	window        time.Duration
	clock         Clock
	dropEmptyLogs bool

	mu   sync.Mutex
	logs map[string][]time.Time
}

var _ Limiter = (*SlidingWindowLog)(nil)
var _ KeysCounter = (*SlidingWindowLog)(nil)

// SlidingWindowLogOption is a functional option for SlidingWindowLog.
type SlidingWindowLogOption func(*SlidingWindowLog)

// WithClock sets the source of the current time. SystemClock is used by default.
func WithClock(clock Clock) SlidingWindowLogOption {
	return func(w *SlidingWindowLog) {
		w.clock = clock
	}
}

// WithDropEmptyLogs makes the limiter forget a key as soon as its log is pruned to empty.
// Admission decisions are the same either way, only memory usage differs.
func WithDropEmptyLogs(drop bool) SlidingWindowLogOption {
	return func(w *SlidingWindowLog) {
		w.dropEmptyLogs = drop
	}
}

// NewSlidingWindowLog creates a new SlidingWindowLog.
// Both limit and window must be positive.
func NewSlidingWindowLog(limit int, window time.Duration, opts ...SlidingWindowLogOption) (*SlidingWindowLog, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	w := &SlidingWindowLog{
		limit:  limit,
		window: window,
		clock:  SystemClock{},
		logs:   make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Limit returns the maximum number of requests admitted per window.
func (w *SlidingWindowLog) Limit() int {
	return w.limit
}

// Window returns the length of the trailing window.
func (w *SlidingWindowLog) Window() time.Duration {
	return w.window
}

// CheckLimit reports whether one more request for the key fits into the trailing window.
// Timestamps older than the window are removed from the key's log whatever the outcome.
// It does not record anything, so calling it repeatedly without RecordRequest yields the same answer.
func (w *SlidingWindowLog) CheckLimit(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.clock.Now()

	return len(w.prune(key, now)) < w.limit
}

// RecordRequest appends the current time to the key's log.
// The log is created on first use. Time is read under the lock, so every log stays sorted.
func (w *SlidingWindowLog) RecordRequest(key string) {
	w.mu.Lock()
	w.logs[key] = append(w.logs[key], w.clock.Now())
	w.mu.Unlock()
}

// RetryAfter returns how long the key has to wait until CheckLimit admits it.
// It returns 0 when the key is admitted right now.
func (w *SlidingWindowLog) RetryAfter(key string) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.clock.Now()

	log := w.prune(key, now)
	if len(log) < w.limit {
		return 0
	}
	// Admission needs len(log)-limit+1 entries to leave the window, the last of them is log[len(log)-limit].
	// An entry on the window boundary is still counted, so it leaves one tick after it.
	return log[len(log)-w.limit].Add(w.window).Sub(now) + time.Nanosecond
}

// Allow checks the limit and records the request if it was admitted.
// It is a convenience wrapper over CheckLimit and RecordRequest and inherits their non-atomicity.
func (w *SlidingWindowLog) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	if !w.CheckLimit(key) {
		return false, w.RetryAfter(key), nil
	}
	w.RecordRequest(key)
	return true, 0, nil
}

// Len returns the number of keys that currently have a log.
func (w *SlidingWindowLog) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.logs)
}

// prune removes timestamps strictly older than now-window and returns what is left.
// Must be called with w.mu held.
func (w *SlidingWindowLog) prune(key string, now time.Time) []time.Time {
	log, ok := w.logs[key]
	if !ok {
		return nil
	}
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(log) && log[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		n := copy(log, log[i:])
		log = log[:n]
	}
	if len(log) == 0 && w.dropEmptyLogs {
		delete(w.logs, key)
		return nil
	}
	w.logs[key] = log
	return log
}

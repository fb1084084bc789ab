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

	"github.com/RussellLuo/slidingwindow"
	lru "github.com/hashicorp/golang-lru"
)

// SlidingWindowCounterLimiter approximates the sliding window with two fixed buckets:
// the count of the previous bucket is weighted by the part of it still covered by the window.
// It needs O(1) memory per key, but may admit or reject slightly differently from SlidingWindowLog near bucket edges.
type SlidingWindowCounterLimiter struct {
	maxRate Rate

	mu   sync.Mutex
	keys *lru.Cache
}

var _ Limiter = (*SlidingWindowCounterLimiter)(nil)
var _ KeysCounter = (*SlidingWindowCounterLimiter)(nil)

// NewSlidingWindowCounterLimiter creates a new SlidingWindowCounterLimiter that tracks at most maxKeys keys.
// The least recently used key is evicted when the limit is reached.
func NewSlidingWindowCounterLimiter(maxRate Rate, maxKeys int) (*SlidingWindowCounterLimiter, error) {
	if maxRate.Count <= 0 || maxRate.Duration <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %d per %s", maxRate.Count, maxRate.Duration)
	}
	keys, err := lru.New(maxKeys)
	if err != nil {
		return nil, fmt.Errorf("new LRU in-memory store for keys: %w", err)
	}
	return &SlidingWindowCounterLimiter{maxRate: maxRate, keys: keys}, nil
}

// Allow checks if the request should be allowed based on the rate limit.
func (l *SlidingWindowCounterLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	if l.getLimiter(key).Allow() {
		return true, 0, nil
	}
	now := time.Now()
	retryAfter = now.Truncate(l.maxRate.Duration).Add(l.maxRate.Duration).Sub(now)
	return false, retryAfter, nil
}

// Len returns the number of tracked keys.
func (l *SlidingWindowCounterLimiter) Len() int {
	return l.keys.Len()
}

func (l *SlidingWindowCounterLimiter) getLimiter(key string) *slidingwindow.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.keys.Get(key); ok {
		return lim.(*slidingwindow.Limiter)
	}
	lim, _ := slidingwindow.NewLimiter(
		l.maxRate.Duration, int64(l.maxRate.Count), func() (slidingwindow.Window, slidingwindow.StopFunc) {
			return slidingwindow.NewLocalWindow()
		})
	l.keys.Add(key, lim)
	return lim
}

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

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// TokenBucketLimiter refills each client's bucket with one token every window/limit.
// A fresh client may spend maxBurst+1 tokens at once.
type TokenBucketLimiter struct {
	limit rate.Limit
	burst int

	mu   sync.Mutex
	keys *lru.Cache
}

var _ Limiter = (*TokenBucketLimiter)(nil)
var _ KeysCounter = (*TokenBucketLimiter)(nil)

// NewTokenBucketLimiter creates a new TokenBucketLimiter that tracks at most maxKeys keys.
// The least recently used key is evicted when the limit is reached.
func NewTokenBucketLimiter(maxRate Rate, maxBurst, maxKeys int) (*TokenBucketLimiter, error) {
	if maxRate.Count <= 0 || maxRate.Duration <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %d per %s", maxRate.Count, maxRate.Duration)
	}
	if maxBurst < 0 {
		return nil, fmt.Errorf("max burst should be >= 0, got %d", maxBurst)
	}
	keys, err := lru.New(maxKeys)
	if err != nil {
		return nil, fmt.Errorf("new LRU in-memory store for keys: %w", err)
	}
	return &TokenBucketLimiter{
		limit: rate.Every(maxRate.Duration / time.Duration(maxRate.Count)),
		burst: maxBurst + 1,
		keys:  keys,
	}, nil
}

// Allow takes a token from the key's bucket. When the bucket is empty, retryAfter is the time until the next token.
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	now := time.Now()
	r := l.getLimiter(key).ReserveN(now, 1)
	if !r.OK() {
		return false, 0, fmt.Errorf("token bucket cannot serve a request for key %q", key)
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// Len returns the number of tracked keys.
func (l *TokenBucketLimiter) Len() int {
	return l.keys.Len()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.keys.Get(key); ok {
		return lim.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.keys.Add(key, lim)
	return lim
}

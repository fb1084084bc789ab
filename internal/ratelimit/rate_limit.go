/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"time"
)

// Rate describes the frequency of requests.
type Rate struct {
	Count    int
	Duration time.Duration
}

// Limiter makes a single admission decision for the key.
// When the request is rejected, retryAfter estimates how long the client should wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (allow bool, retryAfter time.Duration, err error)
}

// KeysCounter is implemented by limiters that can report the number of tracked keys.
type KeysCounter interface {
	Len() int
}

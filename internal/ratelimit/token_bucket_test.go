/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokenBucketLimiterTestSuite struct {
	suite.Suite
}

func TestTokenBucketLimiter(t *testing.T) {
	suite.Run(t, new(TokenBucketLimiterTestSuite))
}

func (ts *TokenBucketLimiterTestSuite) TestAllowSequential() {
	limiter, err := NewTokenBucketLimiter(Rate{Count: 2, Duration: time.Minute}, 1, 100)
	ts.Require().NoError(err)

	ctx := context.Background()
	const key = "10.0.0.1"

	for i := 0; i < 2; i++ {
		allow, retryAfter, err := limiter.Allow(ctx, key)
		ts.NoError(err)
		ts.True(allow)
		ts.Equal(time.Duration(0), retryAfter)
	}

	// One token per 30s.
	allow, retryAfter, err := limiter.Allow(ctx, key)
	ts.NoError(err)
	ts.False(allow)
	ts.Greater(retryAfter, time.Duration(0))
	ts.LessOrEqual(retryAfter, 30*time.Second)

	// Rejection does not spend a token.
	_, retryAfter2, err := limiter.Allow(ctx, key)
	ts.NoError(err)
	ts.LessOrEqual(retryAfter2, retryAfter)

	allow, _, err = limiter.Allow(ctx, "10.0.0.2")
	ts.NoError(err)
	ts.True(allow)
	ts.Equal(2, limiter.Len())
}

func (ts *TokenBucketLimiterTestSuite) TestMaxKeys() {
	limiter, err := NewTokenBucketLimiter(Rate{Count: 1, Duration: time.Minute}, 0, 2)
	ts.Require().NoError(err)

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		allow, _, err := limiter.Allow(ctx, key)
		ts.NoError(err)
		ts.True(allow)
	}
	ts.Equal(2, limiter.Len())

	// "a" was evicted, so it starts with a full bucket again.
	allow, _, err := limiter.Allow(ctx, "a")
	ts.NoError(err)
	ts.True(allow)
}

func (ts *TokenBucketLimiterTestSuite) TestInvalidParams() {
	_, err := NewTokenBucketLimiter(Rate{Count: 0, Duration: time.Second}, 0, 10)
	ts.Error(err)
	_, err = NewTokenBucketLimiter(Rate{Count: 1, Duration: time.Second}, -1, 10)
	ts.Error(err)
	_, err = NewTokenBucketLimiter(Rate{Count: 1, Duration: time.Second}, 0, 0)
	ts.Error(err)
}

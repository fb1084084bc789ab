/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package ratelimit provides per-client rate limiting for the search API.
//
// The default algorithm is an exact sliding window log: every admitted request is
// timestamped, and a client is admitted while fewer than Limit timestamps fall into
// the trailing window. State lives in process memory, is never swept in background,
// and is not shared between instances.
//
// Two counter-based approximations are available for high-rate deployments:
//   - slidingWindowCounter, a weighted two-bucket counter (github.com/RussellLuo/slidingwindow)
//   - leakyBucket, GCRA (github.com/throttled/throttled/v2)
//
// Both approximations keep at most MaxKeys clients in an LRU.
package ratelimit

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acronis/go-hrsearch/internal/ratelimit"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/restapi"
)

// RateLimitUnknownClientKey is the key shared by all requests whose client cannot be identified.
const RateLimitUnknownClientKey = "unknown_client"

// RateLimitLogFieldKey it is the name of the logged field that contains a key for the requests rate limiter.
const RateLimitLogFieldKey = "rate_limit_key"

// RateLimitParams contains data that relates to the rate limiting procedure
// and could be used for rejecting or handling an occurred error.
type RateLimitParams struct {
	ErrDomain  string
	Key        string
	Rate       ratelimit.Rate
	RetryAfter time.Duration
}

// RateLimitOnRejectFunc is a function that is called for rejecting HTTP request when the rate limit is exceeded.
type RateLimitOnRejectFunc func(rw http.ResponseWriter, r *http.Request, params RateLimitParams, logger log.FieldLogger)

// RateLimitOnErrorFunc is a function that is called when the limiter fails to make a decision.
type RateLimitOnErrorFunc func(rw http.ResponseWriter, r *http.Request, params RateLimitParams, err error, logger log.FieldLogger)

// RateLimitGetKeyFunc is a function that is called for getting key for rate limiting.
type RateLimitGetKeyFunc func(r *http.Request) (key string, bypass bool, err error)

// RateLimitOpts represents an options for the RateLimit middleware.
type RateLimitOpts struct {
	GetKey   RateLimitGetKeyFunc
	Metrics  *ratelimit.MetricsCollector
	OnReject RateLimitOnRejectFunc
	OnError  RateLimitOnErrorFunc
}

type rateLimitHandler struct {
	next      http.Handler
	limiter   ratelimit.Limiter
	rate      ratelimit.Rate
	errDomain string
	opts      RateLimitOpts
}

// RateLimit is a middleware that limits the rate of HTTP requests per client.
// The client is identified by the peer address.
func RateLimit(limiter ratelimit.Limiter, rate ratelimit.Rate, errDomain string) func(next http.Handler) http.Handler {
	return RateLimitWithOpts(limiter, rate, errDomain, RateLimitOpts{})
}

// RateLimitWithOpts is a configurable version of a middleware to limit the rate of HTTP requests.
func RateLimitWithOpts(
	limiter ratelimit.Limiter, rate ratelimit.Rate, errDomain string, opts RateLimitOpts,
) func(next http.Handler) http.Handler {
	if opts.GetKey == nil {
		opts.GetKey = ClientKeyFromRequest("")
	}
	if opts.OnReject == nil {
		opts.OnReject = DefaultRateLimitOnReject
	}
	if opts.OnError == nil {
		opts.OnError = DefaultRateLimitOnError
	}
	return func(next http.Handler) http.Handler {
		return &rateLimitHandler{next: next, limiter: limiter, rate: rate, errDomain: errDomain, opts: opts}
	}
}

func (h *rateLimitHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	params := RateLimitParams{ErrDomain: h.errDomain, Rate: h.rate}
	logger := GetLoggerFromContext(r.Context())

	key, bypass, err := h.opts.GetKey(r)
	if err != nil {
		h.opts.OnError(rw, r, params, fmt.Errorf("get rate limit key: %w", err), logger)
		return
	}
	if bypass {
		h.next.ServeHTTP(rw, r)
		return
	}
	params.Key = key
	if lp := GetLoggingParamsFromContext(r.Context()); lp != nil {
		lp.ExtendFields(log.String(RateLimitLogFieldKey, key))
	}

	allow, retryAfter, err := h.limiter.Allow(r.Context(), key)
	if err != nil {
		h.opts.OnError(rw, r, params, fmt.Errorf("requests rate limiting: %w", err), logger)
		return
	}
	if h.opts.Metrics != nil {
		h.opts.Metrics.ObserveDecision(allow)
	}
	if !allow {
		params.RetryAfter = retryAfter
		h.opts.OnReject(rw, r, params, logger)
		return
	}

	h.next.ServeHTTP(rw, r.WithContext(NewContextWithClientKey(r.Context(), key)))
}

// ClientKeyFromRequest returns a RateLimitGetKeyFunc that identifies the client by the given header
// (usually set by the trusted reverse proxy), then by the peer host, then falls back to RateLimitUnknownClientKey.
// Empty header name skips the header lookup.
func ClientKeyFromRequest(header string) RateLimitGetKeyFunc {
	return func(r *http.Request) (string, bool, error) {
		if header != "" {
			if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
				return v, false, nil
			}
		}
		if host := peerHost(r.RemoteAddr); host != "" {
			return host, false, nil
		}
		return RateLimitUnknownClientKey, false, nil
	}
}

func peerHost(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// RateLimitRejectMessage returns the human-readable message of the rejection response.
func RateLimitRejectMessage(rate ratelimit.Rate) string {
	window := strconv.FormatFloat(rate.Duration.Seconds(), 'f', -1, 64)
	return fmt.Sprintf("Too many requests. Please try again after %s seconds. Limit is %d requests per %s seconds.",
		window, rate.Count, window)
}

// RetryAfterSeconds rounds the retry interval up to whole seconds for the Retry-After header.
// Unknown interval falls back to the whole window.
func RetryAfterSeconds(retryAfter time.Duration, rate ratelimit.Rate) int {
	if retryAfter <= 0 {
		retryAfter = rate.Duration
	}
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// DefaultRateLimitOnReject responds with 429, the Retry-After header, and the tooManyRequests error.
func DefaultRateLimitOnReject(rw http.ResponseWriter, r *http.Request, params RateLimitParams, logger log.FieldLogger) {
	if logger != nil {
		logger = logger.With(
			log.String(RateLimitLogFieldKey, params.Key),
			log.String(userAgentLogFieldKey, r.UserAgent()),
		)
	}
	retryAfterSecs := RetryAfterSeconds(params.RetryAfter, params.Rate)
	rw.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	apiErr := restapi.NewError(params.ErrDomain, restapi.ErrCodeTooManyRequests, RateLimitRejectMessage(params.Rate)).
		AddContext("limit", params.Rate.Count).
		AddContext("windowSeconds", params.Rate.Duration.Seconds()).
		AddContext("retryAfterSeconds", retryAfterSecs)
	restapi.RespondError(rw, http.StatusTooManyRequests, apiErr, logger)
}

// DefaultRateLimitOnError responds with 500 and logs the error.
func DefaultRateLimitOnError(rw http.ResponseWriter, r *http.Request, params RateLimitParams, err error, logger log.FieldLogger) {
	if logger != nil {
		logger.Error(err.Error(), log.String(RateLimitLogFieldKey, params.Key))
	}
	restapi.RespondInternalError(rw, params.ErrDomain, logger)
}

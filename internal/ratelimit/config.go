/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/acronis/go-hrsearch/config"
)

const cfgDefaultKeyPrefix = "rateLimit"

const (
	cfgKeyAlg             = "alg"
	cfgKeyLimit           = "limit"
	cfgKeyWindow          = "window"
	cfgKeyMaxBurst        = "maxBurst"
	cfgKeyMaxKeys         = "maxKeys"
	cfgKeyDropEmptyLogs   = "dropEmptyLogs"
	cfgKeyClientKeyHeader = "clientKeyHeader"
	cfgKeyStatsInterval   = "statsInterval"
)

// Alg is a rate limiting algorithm.
type Alg string

// Rate limiting algorithms.
const (
	AlgSlidingWindowLog     Alg = "slidingWindowLog"
	AlgSlidingWindowCounter Alg = "slidingWindowCounter"
	AlgLeakyBucket          Alg = "leakyBucket"
	AlgTokenBucket          Alg = "tokenBucket"
)

// Default values.
const (
	DefaultLimit           = 5
	DefaultWindow          = time.Minute
	DefaultMaxKeys         = 10000
	DefaultClientKeyHeader = "X-Client-IP"
	DefaultStatsInterval   = time.Minute
)

var availableAlgs = []string{string(AlgSlidingWindowLog), string(AlgSlidingWindowCounter), string(AlgLeakyBucket), string(AlgTokenBucket)}

// Config represents a set of configuration parameters for rate limiting.
type Config struct {
	Alg    Alg                 `mapstructure:"alg" yaml:"alg" json:"alg"`
	Limit  int                 `mapstructure:"limit" yaml:"limit" json:"limit"`
	Window config.TimeDuration `mapstructure:"window" yaml:"window" json:"window"`

	// MaxBurst is the number of requests the leaky and token buckets admit at once on top of the steady rate.
	// Defaults to Limit-1, so a fresh client may send Limit requests immediately.
	MaxBurst int `mapstructure:"maxBurst" yaml:"maxBurst" json:"maxBurst"`

	// MaxKeys bounds the number of tracked clients for the approximate algorithms.
	MaxKeys int `mapstructure:"maxKeys" yaml:"maxKeys" json:"maxKeys"`

	DropEmptyLogs bool `mapstructure:"dropEmptyLogs" yaml:"dropEmptyLogs" json:"dropEmptyLogs"`

	// ClientKeyHeader is the request header carrying the client identity set by the upstream proxy.
	// Empty value disables the header lookup, so the peer address is used.
	ClientKeyHeader string `mapstructure:"clientKeyHeader" yaml:"clientKeyHeader" json:"clientKeyHeader"`

	// StatsInterval is the period of logging the number of tracked clients. Zero disables it.
	StatsInterval config.TimeDuration `mapstructure:"statsInterval" yaml:"statsInterval" json:"statsInterval"`
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return &Config{}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Alg:             AlgSlidingWindowLog,
		Limit:           DefaultLimit,
		Window:          config.TimeDuration(DefaultWindow),
		MaxBurst:        DefaultLimit - 1,
		MaxKeys:         DefaultMaxKeys,
		ClientKeyHeader: DefaultClientKeyHeader,
		StatsInterval:   config.TimeDuration(DefaultStatsInterval),
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	return cfgDefaultKeyPrefix
}

// SetProviderDefaults sets default configuration values for rate limiting in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyAlg, string(AlgSlidingWindowLog))
	dp.SetDefault(cfgKeyLimit, DefaultLimit)
	dp.SetDefault(cfgKeyWindow, DefaultWindow)
	dp.SetDefault(cfgKeyMaxKeys, DefaultMaxKeys)
	dp.SetDefault(cfgKeyDropEmptyLogs, false)
	dp.SetDefault(cfgKeyClientKeyHeader, DefaultClientKeyHeader)
	dp.SetDefault(cfgKeyStatsInterval, DefaultStatsInterval)
}

// Set sets rate limiting configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	var algStr string
	if algStr, err = dp.GetStringFromSet(cfgKeyAlg, availableAlgs, true); err != nil {
		return err
	}
	c.Alg = Alg(algStr)

	if c.Limit, err = dp.GetInt(cfgKeyLimit); err != nil {
		return err
	}
	if c.Limit <= 0 {
		return dp.WrapKeyErr(cfgKeyLimit, fmt.Errorf("must be positive"))
	}

	var window time.Duration
	if window, err = dp.GetDuration(cfgKeyWindow); err != nil {
		return err
	}
	if window <= 0 {
		return dp.WrapKeyErr(cfgKeyWindow, fmt.Errorf("must be positive"))
	}
	c.Window = config.TimeDuration(window)

	c.MaxBurst = c.Limit - 1
	if dp.IsSet(cfgKeyMaxBurst) {
		if c.MaxBurst, err = dp.GetInt(cfgKeyMaxBurst); err != nil {
			return err
		}
		if c.MaxBurst < 0 {
			return dp.WrapKeyErr(cfgKeyMaxBurst, fmt.Errorf("should be >= 0"))
		}
	}

	if c.MaxKeys, err = dp.GetInt(cfgKeyMaxKeys); err != nil {
		return err
	}
	if c.MaxKeys <= 0 {
		return dp.WrapKeyErr(cfgKeyMaxKeys, fmt.Errorf("must be positive"))
	}

	if c.DropEmptyLogs, err = dp.GetBool(cfgKeyDropEmptyLogs); err != nil {
		return err
	}

	if c.ClientKeyHeader, err = dp.GetString(cfgKeyClientKeyHeader); err != nil {
		return err
	}
	c.ClientKeyHeader = strings.TrimSpace(c.ClientKeyHeader)

	var statsInterval time.Duration
	if statsInterval, err = dp.GetDuration(cfgKeyStatsInterval); err != nil {
		return err
	}
	if statsInterval < 0 {
		return dp.WrapKeyErr(cfgKeyStatsInterval, fmt.Errorf("should be >= 0"))
	}
	c.StatsInterval = config.TimeDuration(statsInterval)

	return nil
}

// Rate returns the configured rate.
func (c *Config) Rate() Rate {
	return Rate{Count: c.Limit, Duration: time.Duration(c.Window)}
}

// NewLimiter creates the limiter selected by cfg.Alg.
// Options are applied only to the sliding window log.
func NewLimiter(cfg *Config, opts ...SlidingWindowLogOption) (Limiter, error) {
	switch cfg.Alg {
	case AlgSlidingWindowLog, "":
		opts = append([]SlidingWindowLogOption{WithDropEmptyLogs(cfg.DropEmptyLogs)}, opts...)
		lim, err := NewSlidingWindowLog(cfg.Limit, time.Duration(cfg.Window), opts...)
		if err != nil {
			return nil, err
		}
		return lim, nil
	case AlgSlidingWindowCounter:
		lim, err := NewSlidingWindowCounterLimiter(cfg.Rate(), cfg.MaxKeys)
		if err != nil {
			return nil, err
		}
		return lim, nil
	case AlgLeakyBucket:
		lim, err := NewLeakyBucketLimiter(cfg.Rate(), cfg.MaxBurst, cfg.MaxKeys)
		if err != nil {
			return nil, err
		}
		return lim, nil
	case AlgTokenBucket:
		lim, err := NewTokenBucketLimiter(cfg.Rate(), cfg.MaxBurst, cfg.MaxKeys)
		if err != nil {
			return nil, err
		}
		return lim, nil
	}
	return nil, fmt.Errorf("unknown rate limiting algorithm %q", cfg.Alg)
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"github.com/acronis/go-hrsearch/config"
	"github.com/acronis/go-hrsearch/httpserver"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/internal/ratelimit"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/profserver"
)

// EnvVarsPrefix is the prefix of environment variables that override the configuration file
// (e.g. HRSEARCH_RATELIMIT_LIMIT).
const EnvVarsPrefix = "HRSEARCH"

// AppConfig contains all configuration sections of the service.
type AppConfig struct {
	Server     *httpserver.Config
	Log        *log.Config
	RateLimit  *ratelimit.Config
	Directory  *directory.Config
	ProfServer *profserver.Config
}

// NewAppConfig creates an empty AppConfig ready for loading.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Server:     httpserver.NewConfig(),
		Log:        log.NewConfig(),
		RateLimit:  ratelimit.NewConfig(),
		Directory:  directory.NewConfig(),
		ProfServer: profserver.NewConfig(),
	}
}

// LoadAppConfig loads the configuration from the file. Empty path means defaults and environment variables only.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := NewAppConfig()
	loader := config.NewDefaultLoader(EnvVarsPrefix)
	if path == "" {
		if err := loader.LoadDefaults(cfg.Server, cfg.Log, cfg.RateLimit, cfg.Directory, cfg.ProfServer); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := loader.LoadFromFile(path, cfg.Server, cfg.Log, cfg.RateLimit, cfg.Directory, cfg.ProfServer); err != nil {
		return nil, err
	}
	return cfg, nil
}

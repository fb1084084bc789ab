/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package config loads service configuration sections from YAML/JSON files and environment variables.
//
// Each section implements the Config interface: SetProviderDefaults registers default values
// and Set reads and validates the final values. A section that also implements KeyPrefixProvider
// sees only the keys under its prefix (e.g. "rateLimit.limit" is "limit" for the rate limit section).
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Config is a common interface for configuration sections that may be used by Loader.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is an interface for providing key prefix that will be used for configuration parameters.
type KeyPrefixProvider interface {
	KeyPrefix() string
}

// Loader loads configuration values from data provider (with initializing default values before)
// and sets them in configuration sections.
type Loader struct {
	DataProvider DataProvider
}

// NewDefaultLoader creates a new configuration loader that reads values from the environment variables too.
// Environment variables take precedence over values from the file.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// NewLoader creates a new configuration loader.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{dp}
}

// LoadFromFile loads configuration values from file and sets them in configuration sections.
// Data type is determined by the file extension.
func (l *Loader) LoadFromFile(path string, cfg Config, cfgs ...Config) error {
	dataType, err := DataTypeFromPath(path)
	if err != nil {
		return err
	}
	if err = l.DataProvider.SetFromFile(path, dataType); err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	return l.load(append([]Config{cfg}, cfgs...))
}

// LoadFromReader loads configuration values from reader and sets them in configuration sections.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.load(append([]Config{cfg}, cfgs...))
}

// LoadDefaults sets configuration sections using only default values (and environment variables if enabled).
func (l *Loader) LoadDefaults(cfg Config, cfgs ...Config) error {
	return l.load(append([]Config{cfg}, cfgs...))
}

func (l *Loader) load(cfgs []Config) error {
	for _, cfg := range cfgs {
		cfg.SetProviderDefaults(l.providerFor(cfg))
	}
	for _, cfg := range cfgs {
		if err := cfg.Set(l.providerFor(cfg)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) providerFor(cfg Config) DataProvider {
	if kp, ok := cfg.(KeyPrefixProvider); ok && kp.KeyPrefix() != "" {
		return NewKeyPrefixedDataProvider(l.DataProvider, kp.KeyPrefix())
	}
	return l.DataProvider
}

// DataTypeFromPath returns the data type of the configuration file by its extension.
func DataTypeFromPath(path string) (DataType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DataTypeYAML, nil
	case ".json":
		return DataTypeJSON, nil
	}
	return "", fmt.Errorf("unsupported config file extension %q, should be one of .yaml, .yml, .json", filepath.Ext(path))
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

import (
	"fmt"

	"github.com/acronis/go-hrsearch/config"
)

const cfgDefaultKeyPrefix = "directory"

const (
	cfgKeyEmployeesFile = "employeesFile"
	cfgKeyOrganizations = "organizations"
)

// Config represents a set of configuration parameters for the employee directory.
type Config struct {
	// EmployeesFile is a YAML or JSON file with employee records. Built-in sample records are used when empty.
	EmployeesFile string `mapstructure:"employeesFile" yaml:"employeesFile" json:"employeesFile"`

	// Organizations maps an organization id to the ordered list of columns returned by the search.
	// Keys are normalized by NormalizeOrganizationID.
	Organizations OrganizationColumns `mapstructure:"organizations" yaml:"organizations" json:"organizations"`
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return &Config{}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{Organizations: DefaultOrganizationColumns()}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	return cfgDefaultKeyPrefix
}

// SetProviderDefaults sets default configuration values for the directory in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyOrganizations, map[string][]string(DefaultOrganizationColumns()))
}

// Set sets directory configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.EmployeesFile, err = dp.GetString(cfgKeyEmployeesFile); err != nil {
		return err
	}

	orgs := make(map[string][]string)
	if err = dp.UnmarshalKey(cfgKeyOrganizations, &orgs, config.WithDecodeHook()); err != nil {
		return err
	}
	c.Organizations = make(OrganizationColumns, len(orgs))
	for org, cols := range orgs {
		if len(cols) == 0 {
			return dp.WrapKeyErr(cfgKeyOrganizations+"."+org, fmt.Errorf("at least one column is required"))
		}
		normOrg := NormalizeOrganizationID(org)
		if _, dup := c.Organizations[normOrg]; dup {
			return dp.WrapKeyErr(cfgKeyOrganizations+"."+org,
				fmt.Errorf("organization ids are case-insensitive, %q is configured more than once", normOrg))
		}
		c.Organizations[normOrg] = cols
	}
	return nil
}

// NewStore creates a MemoryStore with records from the employees file or with the sample records.
func NewStore(cfg *Config) (*MemoryStore, error) {
	employees := SampleEmployees()
	if cfg.EmployeesFile != "" {
		var err error
		if employees, err = LoadEmployeesFile(cfg.EmployeesFile); err != nil {
			return nil, err
		}
	}
	return NewMemoryStore(employees)
}

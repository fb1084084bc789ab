/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-hrsearch/config"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(bytes.NewBufferString(``), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, NewDefaultConfig(), cfg)
	})

	t.Run("custom organizations replace the defaults", func(t *testing.T) {
		cfgData := `
directory:
  employeesFile: /data/employees.yaml
  organizations:
    org_x: [first_name, last_name]
    org_y: id,email
`
		cfg := NewConfig()
		err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(bytes.NewBufferString(cfgData), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, "/data/employees.yaml", cfg.EmployeesFile)
		require.Equal(t, OrganizationColumns{
			"org_x": {"first_name", "last_name"},
			"org_y": {"id", "email"},
		}, cfg.Organizations)
	})

	t.Run("upper-case organization id", func(t *testing.T) {
		cfgData := `
directory:
  organizations:
    ORG_D: [first_name, status]
`
		cfg := NewConfig()
		err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(bytes.NewBufferString(cfgData), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, []string{"first_name", "status"}, cfg.Organizations.Columns("ORG_D"))
		require.Equal(t, []string{"first_name", "status"}, cfg.Organizations.Columns("org_d"))

		store, err := NewMemoryStore([]Employee{
			{ID: "e1", OrganizationID: "ORG_D", FirstName: "Dora", Status: StatusActive},
			{ID: "e2", OrganizationID: "org_e", FirstName: "Eve", Status: StatusActive},
		})
		require.NoError(t, err)
		require.Equal(t, 1, store.CountByOrganization("org_d"))
		for _, orgID := range []string{"ORG_D", "org_d", "Org_D"} {
			employees, err := store.Search(context.Background(), Query{OrganizationID: orgID})
			require.NoError(t, err)
			require.Len(t, employees, 1)
			require.Equal(t, "e1", employees[0].ID)
		}
	})

	t.Run("organization without columns", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(
			bytes.NewBufferString(`{"directory":{"organizations":{"org_x":[]}}}`), config.DataTypeJSON, cfg)
		require.EqualError(t, err, "directory.organizations.org_x: at least one column is required")
	})
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(NewDefaultConfig())
	require.NoError(t, err)
	require.Equal(t, len(SampleEmployees()), store.Len())

	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"employees":[{"id":"e1","organization_id":"org_x"}]}`), 0o600))
	cfg := NewDefaultConfig()
	cfg.EmployeesFile = path
	store, err = NewStore(cfg)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	cfg.EmployeesFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = NewStore(cfg)
	require.Error(t, err)
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store finds employees matching a query.
// Implementations must never return employees of an organization other than Query.OrganizationID.
type Store interface {
	Search(ctx context.Context, q Query) ([]Employee, error)
}

// MemoryStore is an in-memory Store. Records are grouped by organization, so a search
// scans only the requested organization.
type MemoryStore struct {
	byOrg map[string][]Employee
	total int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore. Records keep their relative order within an organization.
func NewMemoryStore(employees []Employee) (*MemoryStore, error) {
	s := &MemoryStore{byOrg: make(map[string][]Employee)}
	ids := make(map[string]struct{}, len(employees))
	for i := range employees {
		e := employees[i]
		if e.ID == "" {
			return nil, fmt.Errorf("employee #%d: id is required", i)
		}
		if e.OrganizationID == "" {
			return nil, fmt.Errorf("employee %q: organization_id is required", e.ID)
		}
		if _, dup := ids[e.ID]; dup {
			return nil, fmt.Errorf("employee %q: duplicate id", e.ID)
		}
		ids[e.ID] = struct{}{}
		orgID := NormalizeOrganizationID(e.OrganizationID)
		s.byOrg[orgID] = append(s.byOrg[orgID], e)
	}
	s.total = len(employees)
	return s, nil
}

// Search returns employees of q.OrganizationID that match all filters of q.
func (s *MemoryStore) Search(ctx context.Context, q Query) ([]Employee, error) {
	pq := q.prepare()
	result := make([]Employee, 0)
	for i := range s.byOrg[pq.orgID] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e := &s.byOrg[pq.orgID][i]; pq.matches(e) {
			result = append(result, *e)
		}
	}
	return result, nil
}

// Len returns the total number of records.
func (s *MemoryStore) Len() int {
	return s.total
}

// CountByOrganization returns the number of records of the organization.
func (s *MemoryStore) CountByOrganization(orgID string) int {
	return len(s.byOrg[NormalizeOrganizationID(orgID)])
}

type employeesFile struct {
	Employees []Employee `yaml:"employees"`
}

// LoadEmployeesFile reads employee records from a YAML or JSON file with the top-level "employees" list.
func LoadEmployeesFile(path string) ([]Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read employees file: %w", err)
	}
	var f employeesFile
	// JSON is a subset of YAML, so one decoder serves both formats.
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse employees file %q: %w", path, err)
	}
	return f.Employees, nil
}

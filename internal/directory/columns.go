/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

import (
	"sort"
	"strings"
)

// Column names that may appear in organization column lists.
const (
	ColumnID             = "id"
	ColumnOrganizationID = "organization_id"
	ColumnFirstName      = "first_name"
	ColumnLastName       = "last_name"
	ColumnEmail          = "email"
	ColumnPhone          = "phone"
	ColumnDepartment     = "department"
	ColumnLocation       = "location"
	ColumnPosition       = "position"
	ColumnStatus         = "status"
	ColumnSalary         = "salary"
)

var columnValues = map[string]func(e *Employee) interface{}{
	ColumnID:             func(e *Employee) interface{} { return e.ID },
	ColumnOrganizationID: func(e *Employee) interface{} { return e.OrganizationID },
	ColumnFirstName:      func(e *Employee) interface{} { return e.FirstName },
	ColumnLastName:       func(e *Employee) interface{} { return e.LastName },
	ColumnEmail:          func(e *Employee) interface{} { return e.Email },
	ColumnPhone:          func(e *Employee) interface{} { return e.Phone },
	ColumnDepartment:     func(e *Employee) interface{} { return e.Department },
	ColumnLocation:       func(e *Employee) interface{} { return e.Location },
	ColumnPosition:       func(e *Employee) interface{} { return e.Position },
	ColumnStatus:         func(e *Employee) interface{} { return e.Status },
	ColumnSalary:         func(e *Employee) interface{} { return e.Salary },
}

// IsKnownColumn reports whether the column can be projected.
func IsKnownColumn(name string) bool {
	_, ok := columnValues[name]
	return ok
}

// NormalizeOrganizationID folds the organization id to lower case.
// Organization ids are case-insensitive: configuration keys are lower-cased on load,
// so the store and the column lookup compare folded ids as well.
func NormalizeOrganizationID(orgID string) string {
	return strings.ToLower(orgID)
}

// OrganizationColumns maps a normalized organization id to the ordered list of columns it may see.
type OrganizationColumns map[string][]string

// DefaultOrganizationColumns returns the built-in column configuration.
func DefaultOrganizationColumns() OrganizationColumns {
	return OrganizationColumns{
		"org_a": {
			ColumnID, ColumnFirstName, ColumnLastName, ColumnEmail, ColumnPhone,
			ColumnDepartment, ColumnPosition, ColumnLocation, ColumnStatus,
		},
		"org_b": {
			ColumnFirstName, ColumnLastName, ColumnDepartment, ColumnLocation, ColumnPosition, ColumnStatus,
		},
		"org_c": {
			ColumnFirstName, ColumnLastName, ColumnEmail, ColumnDepartment, ColumnPosition, ColumnSalary, ColumnStatus,
		},
	}
}

// Columns returns the columns configured for the organization or nil if there are none.
func (oc OrganizationColumns) Columns(orgID string) []string {
	cols := oc[NormalizeOrganizationID(orgID)]
	if len(cols) == 0 {
		return nil
	}
	return cols
}

// Organizations returns sorted organization ids.
func (oc OrganizationColumns) Organizations() []string {
	orgs := make([]string, 0, len(oc))
	for org := range oc {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)
	return orgs
}

// UnknownColumns returns, per organization, the configured columns that cannot be projected.
func (oc OrganizationColumns) UnknownColumns() map[string][]string {
	var res map[string][]string
	for org, cols := range oc {
		for _, col := range cols {
			if IsKnownColumn(col) {
				continue
			}
			if res == nil {
				res = make(map[string][]string)
			}
			res[org] = append(res[org], col)
		}
	}
	return res
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

import "strings"

// Query describes a search within a single organization.
// Empty filters are ignored. All comparisons, including the organization id, are case-insensitive.
type Query struct {
	OrganizationID string

	// Name matches a substring of "first last".
	Name string

	Department string
	Location   string
	Position   string

	// Statuses matches any of the listed statuses.
	Statuses []string
}

type preparedQuery struct {
	orgID      string
	name       string
	department string
	location   string
	position   string
	statuses   []string
}

func (q *Query) prepare() preparedQuery {
	pq := preparedQuery{
		orgID:      NormalizeOrganizationID(q.OrganizationID),
		name:       strings.ToLower(q.Name),
		department: strings.ToLower(q.Department),
		location:   strings.ToLower(q.Location),
		position:   strings.ToLower(q.Position),
	}
	for _, s := range q.Statuses {
		if s != "" {
			pq.statuses = append(pq.statuses, strings.ToLower(s))
		}
	}
	return pq
}

func (pq *preparedQuery) matches(e *Employee) bool {
	if NormalizeOrganizationID(e.OrganizationID) != pq.orgID {
		return false
	}
	if pq.name != "" && !strings.Contains(strings.ToLower(e.FullName()), pq.name) {
		return false
	}
	if pq.department != "" && pq.department != strings.ToLower(e.Department) {
		return false
	}
	if pq.location != "" && pq.location != strings.ToLower(e.Location) {
		return false
	}
	if pq.position != "" && pq.position != strings.ToLower(e.Position) {
		return false
	}
	if len(pq.statuses) != 0 {
		status := strings.ToLower(e.Status)
		for _, s := range pq.statuses {
			if s == status {
				return true
			}
		}
		return false
	}
	return true
}

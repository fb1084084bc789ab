/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

// Employment statuses.
const (
	StatusActive     = "Active"
	StatusNotStarted = "Not started"
	StatusTerminated = "Terminated"
)

// Employee is a single employee record.
// Salary is sensitive and is returned only to organizations that have it among their columns.
type Employee struct {
	ID             string  `json:"id" yaml:"id"`
	OrganizationID string  `json:"organization_id" yaml:"organization_id"`
	FirstName      string  `json:"first_name" yaml:"first_name"`
	LastName       string  `json:"last_name" yaml:"last_name"`
	Email          string  `json:"email" yaml:"email"`
	Phone          *string `json:"phone" yaml:"phone"`
	Department     string  `json:"department" yaml:"department"`
	Location       string  `json:"location" yaml:"location"`
	Position       string  `json:"position" yaml:"position"`
	Status         string  `json:"status" yaml:"status"`
	Salary         float64 `json:"salary" yaml:"salary"`
}

// FullName returns "first last".
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func strPtr(s string) *string {
	return &s
}

// SampleEmployees returns the built-in data set used when no employees file is configured.
func SampleEmployees() []Employee {
	return []Employee{
		{
			ID: "emp001", OrganizationID: "org_a", FirstName: "Alice", LastName: "Smith", Email: "alice.s@orga.com",
			Phone: strPtr("111-222-3333"), Department: "Engineering", Location: "New York",
			Position: "Software Engineer", Status: StatusActive, Salary: 90000,
		},
		{
			ID: "emp002", OrganizationID: "org_a", FirstName: "Bob", LastName: "Johnson", Email: "bob.j@orga.com",
			Phone: strPtr("111-222-4444"), Department: "HR", Location: "New York",
			Position: "HR Manager", Status: StatusActive, Salary: 85000,
		},
		{
			ID: "emp003", OrganizationID: "org_a", FirstName: "Charlie", LastName: "Brown", Email: "charlie.b@orga.com",
			Phone: strPtr("111-222-5555"), Department: "Engineering", Location: "San Francisco",
			Position: "Senior Software Engineer", Status: StatusActive, Salary: 120000,
		},
		{
			ID: "emp004", OrganizationID: "org_a", FirstName: "Diana", LastName: "Prince", Email: "diana.p@orga.com",
			Phone: strPtr("111-222-6666"), Department: "Marketing", Location: "New York",
			Position: "Marketing Specialist", Status: StatusNotStarted, Salary: 70000,
		},
		{
			ID: "emp005", OrganizationID: "org_a", FirstName: "Eve", LastName: "Adams", Email: "eve.a@orga.com",
			Phone: strPtr("111-222-7777"), Department: "Sales", Location: "Chicago",
			Position: "Sales Representative", Status: StatusTerminated, Salary: 75000,
		},
		{
			ID: "emp006", OrganizationID: "org_b", FirstName: "Frank", LastName: "White", Email: "frank.w@orgb.com",
			Phone: strPtr("222-333-1111"), Department: "Engineering", Location: "London",
			Position: "DevOps Engineer", Status: StatusActive, Salary: 95000,
		},
		{
			ID: "emp007", OrganizationID: "org_b", FirstName: "Grace", LastName: "Black", Email: "grace.b@orgb.com",
			Phone: strPtr("222-333-2222"), Department: "HR", Location: "London",
			Position: "HR Coordinator", Status: StatusActive, Salary: 60000,
		},
		{
			ID: "emp008", OrganizationID: "org_b", FirstName: "Heidi", LastName: "Green", Email: "heidi.g@orgb.com",
			Phone: strPtr("222-333-3333"), Department: "Finance", Location: "Berlin",
			Position: "Accountant", Status: StatusNotStarted, Salary: 70000,
		},
	}
}

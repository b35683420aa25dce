package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateEmployee(ctx context.Context, employee Employee) (string, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	// UpsertTimeEntry overwrites any existing entry for the same employee and
	// date.
	UpsertTimeEntry(ctx context.Context, entry TimeEntry) (string, error)
	ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]TimeEntry, error)
	// ListEmployeesWithEntries returns the distinct employees that have time
	// entries within [from, to].
	ListEmployeesWithEntries(ctx context.Context, from, to time.Time) ([]Employee, error)
	ListSalaries(ctx context.Context, month, year int) ([]Salary, error)
	// FindSalary matches by employee id, falling back to case-insensitive
	// name for rows saved without a link.
	FindSalary(ctx context.Context, employeeID, employeeName string, month, year int) (Salary, error)
	// CreateSalaryIfAbsent inserts a salary row unless one already exists for
	// either identity key; it reports whether a row was created.
	CreateSalaryIfAbsent(ctx context.Context, salary Salary) (bool, error)
	UpdateIssued(ctx context.Context, salaryID string, issued float64) error
	UpdateAccruedCache(ctx context.Context, salaryID string, accrued float64) error
}

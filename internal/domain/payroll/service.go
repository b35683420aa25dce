package payroll

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Summary computes the employee's month: accrued from time entries, issued
// from the salary row, remaining as their difference. The stored accrued
// amount is only a cache; the time entries are authoritative here.
func (s *Service) Summary(ctx context.Context, employeeID string, month, year int) (Summary, error) {
	if month < 1 || month > 12 {
		return Summary{}, ErrInvalidMonth
	}
	employee, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Summary{}, err
	}

	from, to := monthBounds(month, year)
	entries, err := s.store.ListEntries(ctx, employeeID, from, to)
	if err != nil {
		return Summary{}, err
	}
	accrued := AccrueEntries(entries)

	summary := Summary{EmployeeID: employeeID, Month: month, Year: year, Accrued: accrued, Remaining: accrued}

	salary, err := s.store.FindSalary(ctx, employeeID, employee.Name, month, year)
	switch {
	case err == nil:
		if salary.IssuedAmount != nil {
			summary.Issued = *salary.IssuedAmount
		}
		summary.Remaining = remaining(accrued, salary.IssuedAmount)
	case errors.Is(err, ErrSalaryNotFound):
		// No salary row yet is a normal state: nothing issued.
	default:
		return Summary{}, err
	}
	return summary, nil
}

// ListSalaries returns the month's salary rows, after auto-creating missing
// ones for employees that worked, with accruals recomputed and duplicates
// collapsed at read time.
func (s *Service) ListSalaries(ctx context.Context, month, year int) ([]Salary, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if err := s.ensureSalaries(ctx, month, year); err != nil {
		return nil, err
	}

	rows, err := s.store.ListSalaries(ctx, month, year)
	if err != nil {
		return nil, err
	}
	rows = DedupSalaries(rows)

	from, to := monthBounds(month, year)
	for i := range rows {
		var entries []TimeEntry
		if rows[i].EmployeeID != nil {
			entries, err = s.store.ListEntries(ctx, *rows[i].EmployeeID, from, to)
			if err != nil {
				return nil, err
			}
		}
		accrued := resolveAccrued(rows[i], entries)
		if accrued != rows[i].AccruedAmount {
			// Refresh the stale cache opportunistically; failures only mean
			// the next read recomputes again.
			if cacheErr := s.store.UpdateAccruedCache(ctx, rows[i].ID, accrued); cacheErr != nil {
				slog.Warn("accrued cache refresh failed", "salary", rows[i].ID, "err", cacheErr)
			}
		}
		rows[i].AccruedAmount = accrued
		rows[i].Remaining = remaining(accrued, rows[i].IssuedAmount)
	}
	return rows, nil
}

// ensureSalaries creates missing salary rows for every employee with time
// entries in the month. The duplicate check runs against the store on both
// identity keys, inside the insert, so repeated runs never double up.
func (s *Service) ensureSalaries(ctx context.Context, month, year int) error {
	from, to := monthBounds(month, year)
	employees, err := s.store.ListEmployeesWithEntries(ctx, from, to)
	if err != nil {
		return err
	}
	for _, employee := range employees {
		entries, err := s.store.ListEntries(ctx, employee.ID, from, to)
		if err != nil {
			return err
		}
		employeeID := employee.ID
		_, err = s.store.CreateSalaryIfAbsent(ctx, Salary{
			EmployeeID:    &employeeID,
			EmployeeName:  employee.Name,
			Month:         month,
			Year:          year,
			AccruedAmount: AccrueEntries(entries),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SetIssued records the amount actually paid out against a salary row.
func (s *Service) SetIssued(ctx context.Context, salaryID string, issued float64) error {
	if issued < 0 || math.IsNaN(issued) || math.IsInf(issued, 0) {
		return ErrInvalidAmount
	}
	return s.store.UpdateIssued(ctx, salaryID, issued)
}

func (s *Service) CreateEmployee(ctx context.Context, employee Employee) (string, error) {
	return s.store.CreateEmployee(ctx, employee)
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) RecordTimeEntry(ctx context.Context, entry TimeEntry) (string, error) {
	if entry.DailySalary < 0 || math.IsNaN(entry.DailySalary) {
		return "", ErrInvalidAmount
	}
	if _, err := s.store.GetEmployee(ctx, entry.EmployeeID); err != nil {
		return "", err
	}
	return s.store.UpsertTimeEntry(ctx, entry)
}

func monthBounds(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

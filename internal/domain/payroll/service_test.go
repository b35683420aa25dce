package payroll

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	employees []Employee
	entries   []TimeEntry
	salaries  []Salary
	nextID    int
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) CreateEmployee(_ context.Context, employee Employee) (string, error) {
	employee.ID = f.id("emp")
	f.employees = append(f.employees, employee)
	return employee.ID, nil
}

func (f *fakeStore) ListEmployees(_ context.Context) ([]Employee, error) {
	return f.employees, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, employeeID string) (Employee, error) {
	for _, employee := range f.employees {
		if employee.ID == employeeID {
			return employee, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

func (f *fakeStore) UpsertTimeEntry(_ context.Context, entry TimeEntry) (string, error) {
	for i := range f.entries {
		if f.entries[i].EmployeeID == entry.EmployeeID && f.entries[i].Date.Equal(entry.Date) {
			entry.ID = f.entries[i].ID
			f.entries[i] = entry
			return entry.ID, nil
		}
	}
	entry.ID = f.id("te")
	f.entries = append(f.entries, entry)
	return entry.ID, nil
}

func (f *fakeStore) ListEntries(_ context.Context, employeeID string, from, to time.Time) ([]TimeEntry, error) {
	var result []TimeEntry
	for _, entry := range f.entries {
		if entry.EmployeeID == employeeID && !entry.Date.Before(from) && entry.Date.Before(to) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (f *fakeStore) ListEmployeesWithEntries(_ context.Context, from, to time.Time) ([]Employee, error) {
	seen := map[string]bool{}
	var result []Employee
	for _, entry := range f.entries {
		if entry.Date.Before(from) || !entry.Date.Before(to) || seen[entry.EmployeeID] {
			continue
		}
		seen[entry.EmployeeID] = true
		if employee, err := f.GetEmployee(nil, entry.EmployeeID); err == nil {
			result = append(result, employee)
		}
	}
	return result, nil
}

func (f *fakeStore) ListSalaries(_ context.Context, month, year int) ([]Salary, error) {
	var result []Salary
	for _, salary := range f.salaries {
		if salary.Month == month && salary.Year == year {
			result = append(result, salary)
		}
	}
	return result, nil
}

func (f *fakeStore) FindSalary(_ context.Context, employeeID, employeeName string, month, year int) (Salary, error) {
	for _, salary := range f.salaries {
		if salary.Month != month || salary.Year != year {
			continue
		}
		if salary.EmployeeID != nil && *salary.EmployeeID == employeeID {
			return salary, nil
		}
		if strings.EqualFold(strings.TrimSpace(salary.EmployeeName), strings.TrimSpace(employeeName)) {
			return salary, nil
		}
	}
	return Salary{}, ErrSalaryNotFound
}

func (f *fakeStore) CreateSalaryIfAbsent(_ context.Context, salary Salary) (bool, error) {
	for _, existing := range f.salaries {
		if existing.Month != salary.Month || existing.Year != salary.Year {
			continue
		}
		if existing.EmployeeID != nil && salary.EmployeeID != nil && *existing.EmployeeID == *salary.EmployeeID {
			return false, nil
		}
		if strings.EqualFold(strings.TrimSpace(existing.EmployeeName), strings.TrimSpace(salary.EmployeeName)) {
			return false, nil
		}
	}
	salary.ID = f.id("sal")
	salary.IssuedAmount = nil
	f.salaries = append(f.salaries, salary)
	return true, nil
}

func (f *fakeStore) UpdateIssued(_ context.Context, salaryID string, issued float64) error {
	for i := range f.salaries {
		if f.salaries[i].ID == salaryID {
			value := issued
			f.salaries[i].IssuedAmount = &value
			return nil
		}
	}
	return ErrSalaryNotFound
}

func (f *fakeStore) UpdateAccruedCache(_ context.Context, salaryID string, accrued float64) error {
	for i := range f.salaries {
		if f.salaries[i].ID == salaryID {
			f.salaries[i].AccruedAmount = accrued
		}
	}
	return nil
}

func march(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func seedEmployee(store *fakeStore, name string, days, dailySalary float64) string {
	id, _ := store.CreateEmployee(nil, Employee{Name: name})
	for d := 1; d <= int(days); d++ {
		_, _ = store.UpsertTimeEntry(nil, TimeEntry{EmployeeID: id, Date: march(d), DailySalary: dailySalary})
	}
	return id
}

func TestSummaryAccruedIssuedRemaining(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	service := NewService(store)
	employeeID := seedEmployee(store, "Maria Lopez", 10, 45)

	summary, err := service.Summary(ctx, employeeID, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 450.0, summary.Accrued)
	assert.Zero(t, summary.Issued)
	assert.Equal(t, 450.0, summary.Remaining)

	// Issue a partial payout and re-read.
	salaries, err := service.ListSalaries(ctx, 3, 2024)
	require.NoError(t, err)
	require.Len(t, salaries, 1)
	require.NoError(t, service.SetIssued(ctx, salaries[0].ID, 300))

	summary, err = service.Summary(ctx, employeeID, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 300.0, summary.Issued)
	assert.Equal(t, 150.0, summary.Remaining)
}

func TestSummaryOutsideMonthEntriesExcluded(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	service := NewService(store)
	employeeID := seedEmployee(store, "Maria Lopez", 2, 50)
	_, _ = store.UpsertTimeEntry(nil, TimeEntry{EmployeeID: employeeID, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), DailySalary: 50})

	summary, err := service.Summary(ctx, employeeID, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Accrued, "April entries must not leak into March")
}

func TestSummaryUnknownEmployee(t *testing.T) {
	service := NewService(&fakeStore{})
	_, err := service.Summary(context.Background(), "ghost", 3, 2024)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestListSalariesAutoCreatesOncePerEmployeeMonth(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	service := NewService(store)
	seedEmployee(store, "Maria Lopez", 5, 40)
	seedEmployee(store, "Ana Ruiz", 3, 60)

	// Repeated invocations, including concurrent-style overlaps, must never
	// produce a second row per employee-month.
	for i := 0; i < 4; i++ {
		salaries, err := service.ListSalaries(ctx, 3, 2024)
		require.NoError(t, err)
		assert.Len(t, salaries, 2)
	}
	assert.Len(t, store.salaries, 2)
}

func TestListSalariesMatchesDetachedRowByName(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	service := NewService(store)
	seedEmployee(store, "Maria Lopez", 5, 40)
	// A pre-existing row saved without the employee link, name spelled
	// differently in case only.
	store.salaries = append(store.salaries, Salary{ID: "legacy", EmployeeName: "MARIA LOPEZ", Month: 3, Year: 2024, AccruedAmount: 123})

	salaries, err := service.ListSalaries(ctx, 3, 2024)
	require.NoError(t, err)
	require.Len(t, salaries, 1, "name-keyed row must block auto-create")
	assert.Equal(t, "legacy", salaries[0].ID)
	assert.Equal(t, 123.0, salaries[0].AccruedAmount, "detached row keeps its cached accrual")
}

func TestListSalariesRecomputesStaleCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	service := NewService(store)
	employeeID := seedEmployee(store, "Maria Lopez", 4, 50)
	store.salaries = append(store.salaries, Salary{ID: "stale", EmployeeID: &employeeID, EmployeeName: "Maria Lopez", Month: 3, Year: 2024, AccruedAmount: 1})

	salaries, err := service.ListSalaries(ctx, 3, 2024)
	require.NoError(t, err)
	require.Len(t, salaries, 1)
	assert.Equal(t, 200.0, salaries[0].AccruedAmount, "stored accrual is a cache, entries win")
	assert.Equal(t, 200.0, store.salaries[len(store.salaries)-1].AccruedAmount, "cache refreshed in store")
}

func TestSetIssuedValidation(t *testing.T) {
	service := NewService(&fakeStore{})
	assert.ErrorIs(t, service.SetIssued(context.Background(), "sal-1", -10), ErrInvalidAmount)
	assert.ErrorIs(t, service.SetIssued(context.Background(), "missing", 10), ErrSalaryNotFound)
}

func TestRecordTimeEntryOverwritesSameDay(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	service := NewService(store)
	id, _ := store.CreateEmployee(nil, Employee{Name: "Maria Lopez"})

	_, err := service.RecordTimeEntry(ctx, TimeEntry{EmployeeID: id, Date: march(1), DailySalary: 40})
	require.NoError(t, err)
	_, err = service.RecordTimeEntry(ctx, TimeEntry{EmployeeID: id, Date: march(1), DailySalary: 55})
	require.NoError(t, err)

	summary, err := service.Summary(ctx, id, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 55.0, summary.Accrued, "resubmission for the same day replaces the entry")
}

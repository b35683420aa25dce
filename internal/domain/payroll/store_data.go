package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateEmployee(ctx context.Context, employee Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, personal_id)
    VALUES ($1,$2)
    RETURNING id
  `, employee.Name, employee.PersonalID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(personal_id, '')
    FROM employees
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var employee Employee
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.PersonalID); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var employee Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(personal_id, '')
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&employee.ID, &employee.Name, &employee.PersonalID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return employee, nil
}

func (s *Store) UpsertTimeEntry(ctx context.Context, entry TimeEntry) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (employee_id, entry_date, daily_salary, arrival, departure)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id, entry_date)
    DO UPDATE SET daily_salary = EXCLUDED.daily_salary, arrival = EXCLUDED.arrival, departure = EXCLUDED.departure
    RETURNING id
  `, entry.EmployeeID, entry.Date, entry.DailySalary, entry.Arrival, entry.Departure).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]TimeEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, entry_date, daily_salary, COALESCE(arrival, ''), COALESCE(departure, '')
    FROM time_entries
    WHERE employee_id = $1 AND entry_date >= $2 AND entry_date < $3
    ORDER BY entry_date
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var entry TimeEntry
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.Date, &entry.DailySalary, &entry.Arrival, &entry.Departure); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) ListEmployeesWithEntries(ctx context.Context, from, to time.Time) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT e.id, e.name, COALESCE(e.personal_id, '')
    FROM employees e
    JOIN time_entries t ON t.employee_id = e.id
    WHERE t.entry_date >= $1 AND t.entry_date < $2
    ORDER BY e.name
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var employee Employee
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.PersonalID); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (s *Store) ListSalaries(ctx context.Context, month, year int) ([]Salary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, employee_name, month, year, accrued_amount, issued_amount
    FROM salaries
    WHERE month = $1 AND year = $2
    ORDER BY employee_name, id
  `, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salaries []Salary
	for rows.Next() {
		var salary Salary
		if err := rows.Scan(&salary.ID, &salary.EmployeeID, &salary.EmployeeName, &salary.Month, &salary.Year, &salary.AccruedAmount, &salary.IssuedAmount); err != nil {
			return nil, err
		}
		salaries = append(salaries, salary)
	}
	return salaries, rows.Err()
}

func (s *Store) FindSalary(ctx context.Context, employeeID, employeeName string, month, year int) (Salary, error) {
	var salary Salary
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, employee_name, month, year, accrued_amount, issued_amount
    FROM salaries
    WHERE month = $3 AND year = $4
      AND (employee_id = $1 OR lower(btrim(employee_name)) = lower(btrim($2)))
    ORDER BY (employee_id = $1) DESC, id
    LIMIT 1
  `, employeeID, employeeName, month, year).Scan(&salary.ID, &salary.EmployeeID, &salary.EmployeeName, &salary.Month, &salary.Year, &salary.AccruedAmount, &salary.IssuedAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrSalaryNotFound
	}
	if err != nil {
		return Salary{}, err
	}
	return salary, nil
}

// CreateSalaryIfAbsent re-checks both identity keys inside the insert so the
// guard holds across restarts and concurrent calls.
func (s *Store) CreateSalaryIfAbsent(ctx context.Context, salary Salary) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO salaries (employee_id, employee_name, month, year, accrued_amount, issued_amount)
    SELECT $1, $2, $3, $4, $5, NULL
    WHERE NOT EXISTS (
      SELECT 1 FROM salaries
      WHERE month = $3 AND year = $4
        AND (employee_id = $1 OR lower(btrim(employee_name)) = lower(btrim($2)))
    )
  `, salary.EmployeeID, salary.EmployeeName, salary.Month, salary.Year, salary.AccruedAmount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UpdateIssued(ctx context.Context, salaryID string, issued float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salaries SET issued_amount = $2 WHERE id = $1
  `, salaryID, issued)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSalaryNotFound
	}
	return nil
}

func (s *Store) UpdateAccruedCache(ctx context.Context, salaryID string, accrued float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE salaries SET accrued_amount = $2 WHERE id = $1
  `, salaryID, accrued)
	return err
}

package payroll

import "strings"

// AccrueEntries sums the daily salaries of a month's time entries.
func AccrueEntries(entries []TimeEntry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.DailySalary
	}
	return total
}

// resolveAccrued is the single access path to a salary's accrued amount:
// recompute from the time entries when the employee link exists, and fall
// back to the stored cache only when it does not.
func resolveAccrued(salary Salary, entries []TimeEntry) float64 {
	if salary.EmployeeID == nil {
		return salary.AccruedAmount
	}
	return AccrueEntries(entries)
}

// remaining derives the balance; a never-issued salary owes the full
// accrual.
func remaining(accrued float64, issued *float64) float64 {
	if issued == nil {
		return accrued
	}
	return accrued - *issued
}

// salaryKey identifies a salary row by employee id when present, otherwise
// by case-folded name. Both duplicate filtering and auto-create go through
// this key.
func salaryKey(salary Salary) string {
	if salary.EmployeeID != nil && *salary.EmployeeID != "" {
		return "id:" + *salary.EmployeeID
	}
	return "name:" + normalizeName(salary.EmployeeName)
}

// DedupSalaries collapses duplicate rows for the same employee key, keeping
// the first occurrence. Upstream writes occasionally double up; reads
// compensate.
func DedupSalaries(salaries []Salary) []Salary {
	seen := make(map[string]bool, len(salaries))
	result := make([]Salary, 0, len(salaries))
	for _, salary := range salaries {
		key := salaryKey(salary)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, salary)
	}
	return result
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

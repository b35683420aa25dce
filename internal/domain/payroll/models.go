package payroll

import "time"

type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PersonalID string `json:"personalId"`
}

// TimeEntry is one attendance day. At most one exists per employee and date;
// resubmission overwrites.
type TimeEntry struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	Date        time.Time `json:"date"`
	DailySalary float64   `json:"dailySalary"`
	Arrival     string    `json:"arrival,omitempty"`
	Departure   string    `json:"departure,omitempty"`
}

// Salary is one employee-month payroll row. EmployeeID may be missing on
// rows created before the employee record existed; those fall back to name
// identity. AccruedAmount is a cache of the time-entry sum and may be stale;
// read it through resolveAccrued only.
type Salary struct {
	ID            string   `json:"id"`
	EmployeeID    *string  `json:"employeeId,omitempty"`
	EmployeeName  string   `json:"employeeName"`
	Month         int      `json:"month"`
	Year          int      `json:"year"`
	AccruedAmount float64  `json:"accruedAmount"`
	IssuedAmount  *float64 `json:"issuedAmount,omitempty"`
	Remaining     float64  `json:"remainingAmount"`
}

type Summary struct {
	EmployeeID string  `json:"employeeId"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	Accrued    float64 `json:"accrued"`
	Issued     float64 `json:"issued"`
	Remaining  float64 `json:"remaining"`
}

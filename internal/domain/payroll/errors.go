package payroll

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrSalaryNotFound   = errors.New("salary row not found")
	ErrInvalidAmount    = errors.New("issued amount must be a non-negative number")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
)

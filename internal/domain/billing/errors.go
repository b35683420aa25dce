package billing

import "errors"

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrNoInvoices       = errors.New("no invoices for customer and month")
	ErrInvalidAmount    = errors.New("payment amount must be a non-negative number")
	ErrInvalidMonth     = errors.New("month must be formatted as YYYY-MM")
	ErrNothingToConfirm = errors.New("no send records matched for confirmation")
	ErrAlreadyConfirmed = errors.New("matched send records are already confirmed")
	ErrNotFullyPaid     = errors.New("paid amount does not cover the invoice total")
	ErrPaidLocked       = errors.New("invoice is terminally paid and immutable")
)

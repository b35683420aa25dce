package billing

import (
	"strings"
	"time"
)

type Invoice struct {
	ID           string     `json:"id"`
	Number       int64      `json:"number"`
	CustomerName string     `json:"customerName"`
	Amount       float64    `json:"amount"`
	PaidAmount   float64    `json:"paidAmount"`
	Status       string     `json:"status"`
	PaidLocked   bool       `json:"paidLocked"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// InvoiceDetail is one reconciled row of a monthly summary.
type InvoiceDetail struct {
	InvoiceID        string     `json:"invoiceId"`
	Number           int64      `json:"number"`
	Date             time.Time  `json:"date"`
	Amount           float64    `json:"amount"`
	PaidAmount       float64    `json:"paidAmount"`
	RemainingAmount  float64    `json:"remainingAmount"`
	MatchedSendCount int        `json:"matchedSendCount"`
	SentAt           *time.Time `json:"sentAt,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	Confirmed        bool       `json:"confirmed"`
	Ambiguous        bool       `json:"ambiguous,omitempty"`
	SoftMismatch     bool       `json:"softMismatch,omitempty"`
}

type MonthlySummary struct {
	CustomerName    string          `json:"customerName"`
	Month           string          `json:"month"`
	TotalAmount     float64         `json:"totalAmount"`
	PaidAmount      float64         `json:"paidAmount"`
	RemainingAmount float64         `json:"remainingAmount"`
	Status          string          `json:"status"`
	Confirmed       bool            `json:"confirmed"`
	Invoices        []InvoiceDetail `json:"invoices"`
}

type ConfirmResult struct {
	ConfirmedCount int `json:"confirmedCount"`
}

type PaymentAllocation struct {
	InvoiceID  string
	PaidAmount float64
	Status     string
}

// NormalizeCustomer is the single normalization point for free-text customer
// identity: trim, collapse inner whitespace, case-fold. Every comparison
// site must go through it.
func NormalizeCustomer(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// MonthRange parses a YYYY-MM key into the [start, end) UTC bounds of that
// calendar month.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

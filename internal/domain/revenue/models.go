package revenue

import "time"

// Entry is an independent income record, reported alongside invoice revenue
// but never part of invoice reconciliation.
type Entry struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// MonthlyReport is the top-level revenue rollup for one calendar month.
type MonthlyReport struct {
	Month          string  `json:"month"`
	InvoicedAmount float64 `json:"invoicedAmount"`
	OtherRevenue   float64 `json:"otherRevenue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	EntryCount     int     `json:"entryCount"`
	InvoiceCount   int     `json:"invoiceCount"`
}

package sends

import "time"

// SendRecord is an immutable snapshot of one transmission of an operational
// sheet. Only the confirmation fields are ever set after insert, and at most
// once.
type SendRecord struct {
	ID               string     `json:"id"`
	SheetID          string     `json:"sheetId"`
	CustomerName     string     `json:"customerName"`
	Date             time.Time  `json:"date"`
	TotalWeight      float64    `json:"totalWeight"`
	ProtectorsAmount float64    `json:"protectorsAmount"`
	TotalAmount      float64    `json:"totalAmount"`
	SentAt           time.Time  `json:"sentAt"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	ConfirmedBy      string     `json:"confirmedBy,omitempty"`
}

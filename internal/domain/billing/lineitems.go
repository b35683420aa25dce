package billing

import (
	"fmt"
	"time"

	"laundry/internal/domain/sends"
)

const BucketLinenTowels = "LINEN_TOWELS"

// DocumentLine is one priced weight line of a customer-facing billing
// document.
type DocumentLine struct {
	Date   time.Time `json:"date"`
	Bucket string    `json:"bucket"`
	Weight float64   `json:"weight"`
	Amount float64   `json:"amount"`
}

// ProtectorLine is a flat per-day protector charge on a billing document.
type ProtectorLine struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// BuildDocumentLines turns send records into deduplicated document lines.
// Re-sends of the same sheet produce value-identical records, so collapsing
// by value keeps repeated transmissions from inflating the document.
func BuildDocumentLines(records []sends.SendRecord) ([]DocumentLine, []ProtectorLine) {
	var lines []DocumentLine
	var protectors []ProtectorLine
	for _, record := range records {
		lines = append(lines, DocumentLine{
			Date:   record.Date,
			Bucket: BucketLinenTowels,
			Weight: record.TotalWeight,
			Amount: record.TotalAmount - record.ProtectorsAmount,
		})
		if record.ProtectorsAmount != 0 {
			protectors = append(protectors, ProtectorLine{Date: record.Date, Amount: record.ProtectorsAmount})
		}
	}
	return DedupLines(lines), DedupProtectorLines(protectors)
}

// DedupLines collapses lines sharing (date, bucket, weight, amount),
// keeping first occurrences in order. Running it on its own output is a
// no-op.
func DedupLines(lines []DocumentLine) []DocumentLine {
	seen := make(map[string]bool, len(lines))
	result := make([]DocumentLine, 0, len(lines))
	for _, line := range lines {
		key := fmt.Sprintf("%s|%s|%.2f|%.2f", line.Date.Format("2006-01-02"), line.Bucket, line.Weight, line.Amount)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, line)
	}
	return result
}

// DedupProtectorLines collapses protector charges by (date, amount);
// protectors bill as one flat charge per day, not per weighed item.
func DedupProtectorLines(lines []ProtectorLine) []ProtectorLine {
	seen := make(map[string]bool, len(lines))
	result := make([]ProtectorLine, 0, len(lines))
	for _, line := range lines {
		key := fmt.Sprintf("%s|%.2f", line.Date.Format("2006-01-02"), line.Amount)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, line)
	}
	return result
}

package billing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// GenerateStatementPDF renders a customer statement over the deduplicated
// document lines for a date range and returns the file path. Amounts are
// formatted to two places here and nowhere earlier.
func (s *Service) GenerateStatementPDF(ctx context.Context, dir, customer string, from, to time.Time) (string, error) {
	records, err := s.store.ListSendsInRange(ctx, NormalizeCustomer(customer), from, to)
	if err != nil {
		return "", err
	}
	lines, protectors := BuildDocumentLines(records)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("statement-%s-%s.pdf", NormalizeCustomer(customer), from.Format("2006-01-02"))
	filePath := filepath.Join(dir, fileName)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s", customer))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(10)

	var total float64
	for _, line := range lines {
		pdf.Cell(0, 8, fmt.Sprintf("%s  linen/towels  %.2f kg  %.2f", line.Date.Format("2006-01-02"), line.Weight, line.Amount))
		pdf.Ln(7)
		total += line.Amount
	}
	for _, line := range protectors {
		pdf.Cell(0, 8, fmt.Sprintf("%s  protectors  %.2f", line.Date.Format("2006-01-02"), line.Amount))
		pdf.Ln(7)
		total += line.Amount
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", total))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

package billing

import (
	"context"
	"log/slog"
	"math"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// MonthlySummary reconciles a customer's month: every invoice created in the
// month, linked to send records by tolerance matching, rolled up into
// summed totals and a confirmation state. An empty month is a normal
// business state and returns a zero summary, not an error.
func (s *Service) MonthlySummary(ctx context.Context, customer, month string) (MonthlySummary, error) {
	monthStart, monthEnd, err := MonthRange(month)
	if err != nil {
		return MonthlySummary{}, ErrInvalidMonth
	}
	normalized := NormalizeCustomer(customer)

	summary := MonthlySummary{
		CustomerName: customer,
		Month:        month,
		Status:       StatusPending,
		Invoices:     []InvoiceDetail{},
	}

	invoices, err := s.store.ListInvoicesForMonth(ctx, normalized, monthStart, monthEnd)
	if err != nil {
		return MonthlySummary{}, err
	}
	if len(invoices) == 0 {
		return summary, nil
	}

	// Sends are fetched over the month padded by the match window, since an
	// invoice created at a month boundary can link to sends in the
	// neighboring month.
	records, err := s.store.ListSendsInRange(ctx, normalized,
		monthStart.AddDate(0, 0, -MatchWindowDays), monthEnd.AddDate(0, 0, MatchWindowDays))
	if err != nil {
		return MonthlySummary{}, err
	}

	confirmed := true
	for _, invoice := range invoices {
		match := MatchSends(invoice, records)
		if match.Ambiguous {
			slog.Warn("ambiguous send match",
				"invoice", invoice.ID, "customer", normalized,
				"candidates", len(match.Matched))
		}

		detail := InvoiceDetail{
			InvoiceID:        invoice.ID,
			Number:           invoice.Number,
			Date:             invoice.CreatedAt,
			Amount:           invoice.Amount,
			PaidAmount:       invoice.PaidAmount,
			RemainingAmount:  invoice.Amount - invoice.PaidAmount,
			MatchedSendCount: len(match.Matched),
			Confirmed:        match.Confirmed(),
			Ambiguous:        match.Ambiguous,
			SoftMismatch:     match.SoftMismatch,
		}
		if match.Best != nil {
			sentAt := match.Best.SentAt
			detail.SentAt = &sentAt
			if !match.Fallback {
				detail.ConfirmedAt = match.Best.ConfirmedAt
			}
		}
		if !detail.Confirmed {
			confirmed = false
		}

		// Month totals accumulate by summation over the detail rows.
		summary.TotalAmount += detail.Amount
		summary.PaidAmount += detail.PaidAmount
		summary.RemainingAmount += detail.RemainingAmount
		summary.Invoices = append(summary.Invoices, detail)
	}

	summary.Confirmed = confirmed
	summary.Status = paymentStatus(summary.TotalAmount, summary.PaidAmount)
	return summary, nil
}

// ConfirmMonth stamps confirmation on every send record matched to the
// month's invoices that is not confirmed yet. The target row set is
// re-derived here, at write time, and the stamp itself is one batch update;
// a retry lands on ErrAlreadyConfirmed instead of double-applying.
func (s *Service) ConfirmMonth(ctx context.Context, customer, month, confirmedBy string) (ConfirmResult, error) {
	monthStart, monthEnd, err := MonthRange(month)
	if err != nil {
		return ConfirmResult{}, ErrInvalidMonth
	}
	normalized := NormalizeCustomer(customer)

	invoices, err := s.store.ListInvoicesForMonth(ctx, normalized, monthStart, monthEnd)
	if err != nil {
		return ConfirmResult{}, err
	}
	if len(invoices) == 0 {
		return ConfirmResult{}, ErrNoInvoices
	}

	records, err := s.store.ListSendsInRange(ctx, normalized,
		monthStart.AddDate(0, 0, -MatchWindowDays), monthEnd.AddDate(0, 0, MatchWindowDays))
	if err != nil {
		return ConfirmResult{}, err
	}

	matchedAny := false
	unconfirmed := make(map[string]bool)
	for _, invoice := range invoices {
		match := MatchSends(invoice, records)
		for _, record := range match.Matched {
			matchedAny = true
			if record.ConfirmedAt == nil {
				unconfirmed[record.ID] = true
			}
		}
	}

	if !matchedAny {
		return ConfirmResult{}, ErrNothingToConfirm
	}
	if len(unconfirmed) == 0 {
		return ConfirmResult{}, ErrAlreadyConfirmed
	}

	ids := make([]string, 0, len(unconfirmed))
	for id := range unconfirmed {
		ids = append(ids, id)
	}
	updated, err := s.store.MarkSendsConfirmed(ctx, ids, confirmedBy)
	if err != nil {
		return ConfirmResult{}, err
	}
	if updated == 0 {
		// Rows were found but a concurrent confirm got there first.
		return ConfirmResult{}, ErrAlreadyConfirmed
	}
	return ConfirmResult{ConfirmedCount: updated}, nil
}

// ApplyPayment stores the month's new cumulative paid amount. Callers supply
// the total paid so far, not a delta; the amount is re-distributed over the
// month's invoices oldest-first in one transactional write, which makes the
// operation idempotent and safely retryable.
func (s *Service) ApplyPayment(ctx context.Context, customer, month string, paidAmount float64) error {
	if paidAmount < 0 || math.IsNaN(paidAmount) || math.IsInf(paidAmount, 0) {
		return ErrInvalidAmount
	}
	monthStart, monthEnd, err := MonthRange(month)
	if err != nil {
		return ErrInvalidMonth
	}

	invoices, err := s.store.ListInvoicesForMonth(ctx, NormalizeCustomer(customer), monthStart, monthEnd)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		return ErrNoInvoices
	}

	allocations := make([]PaymentAllocation, 0, len(invoices))
	left := paidAmount
	for i, invoice := range invoices {
		amount := math.Min(invoice.Amount, left)
		if i == len(invoices)-1 {
			// Any overpayment stays on the newest invoice.
			amount = left
		}
		left -= amount

		if invoice.PaidLocked {
			// A terminally paid invoice's allocation must come out exactly
			// as stored, otherwise the caller is trying to rewrite it.
			if math.Abs(invoice.PaidAmount-amount) > PaidTolerance {
				return ErrPaidLocked
			}
			continue
		}
		allocations = append(allocations, PaymentAllocation{
			InvoiceID:  invoice.ID,
			PaidAmount: amount,
			Status:     paymentStatus(invoice.Amount, amount),
		})
	}

	return s.store.ApplyAllocations(ctx, allocations)
}

// ConfirmFullyPaid performs the terminal PAID transition on a single
// invoice. Allowed only when the cumulative paid amount covers the total
// within tolerance; afterwards the paid amount is immutable.
func (s *Service) ConfirmFullyPaid(ctx context.Context, invoiceID string) error {
	invoice, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.PaidLocked {
		return ErrPaidLocked
	}
	if invoice.PaidAmount < invoice.Amount-PaidTolerance {
		return ErrNotFullyPaid
	}
	return s.store.LockInvoicePaid(ctx, invoiceID)
}

func (s *Service) CreateInvoice(ctx context.Context, customer string, amount float64, dueDate *time.Time) (Invoice, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Invoice{}, ErrInvalidAmount
	}
	return s.store.CreateInvoice(ctx, Invoice{CustomerName: customer, Amount: amount, DueDate: dueDate})
}

func (s *Service) GetInvoice(ctx context.Context, invoiceID string) (Invoice, error) {
	return s.store.GetInvoice(ctx, invoiceID)
}

// paymentStatus applies the tolerance-aware PAID/PENDING rule. Strict
// equality is never used on summed amounts.
func paymentStatus(totalAmount, paidAmount float64) string {
	remaining := totalAmount - paidAmount
	if math.Abs(remaining) <= PaidTolerance || paidAmount >= totalAmount-PaidTolerance {
		return StatusPaid
	}
	return StatusPending
}

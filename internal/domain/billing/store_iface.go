package billing

import (
	"context"
	"time"

	"laundry/internal/domain/sends"
)

type StoreAPI interface {
	CreateInvoice(ctx context.Context, invoice Invoice) (Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (Invoice, error)
	// ListInvoicesForMonth filters by normalized customer name and createdAt
	// within [monthStart, monthEnd), ordered by createdAt ascending.
	ListInvoicesForMonth(ctx context.Context, normalizedCustomer string, monthStart, monthEnd time.Time) ([]Invoice, error)
	// ListSendsInRange returns send records for the normalized customer with
	// send dates in [from, to].
	ListSendsInRange(ctx context.Context, normalizedCustomer string, from, to time.Time) ([]sends.SendRecord, error)
	// MarkSendsConfirmed stamps confirmation on the given records in a single
	// batch write, skipping already-confirmed rows, and returns the number of
	// rows updated.
	MarkSendsConfirmed(ctx context.Context, ids []string, confirmedBy string) (int, error)
	// ApplyAllocations writes the given payment allocations in one
	// transaction, refusing any write that touches a terminally paid invoice.
	ApplyAllocations(ctx context.Context, allocations []PaymentAllocation) error
	// LockInvoicePaid performs the terminal PAID transition.
	LockInvoicePaid(ctx context.Context, invoiceID string) error
}

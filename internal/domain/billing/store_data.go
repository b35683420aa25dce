package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laundry/internal/domain/sends"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateInvoice(ctx context.Context, invoice Invoice) (Invoice, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO invoices (customer_name, amount, due_date)
    VALUES ($1,$2,$3)
    RETURNING id, number, status, created_at
  `, invoice.CustomerName, invoice.Amount, invoice.DueDate).Scan(&invoice.ID, &invoice.Number, &invoice.Status, &invoice.CreatedAt)
	if err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

func (s *Store) GetInvoice(ctx context.Context, invoiceID string) (Invoice, error) {
	var invoice Invoice
	err := s.DB.QueryRow(ctx, `
    SELECT id, number, customer_name, amount, paid_amount, status, paid_locked, due_date, created_at
    FROM invoices
    WHERE id = $1
  `, invoiceID).Scan(&invoice.ID, &invoice.Number, &invoice.CustomerName, &invoice.Amount, &invoice.PaidAmount, &invoice.Status, &invoice.PaidLocked, &invoice.DueDate, &invoice.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrInvoiceNotFound
	}
	if err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

func (s *Store) ListInvoicesForMonth(ctx context.Context, normalizedCustomer string, monthStart, monthEnd time.Time) ([]Invoice, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, number, customer_name, amount, paid_amount, status, paid_locked, due_date, created_at
    FROM invoices
    WHERE lower(regexp_replace(btrim(customer_name), '\s+', ' ', 'g')) = $1
      AND created_at >= $2 AND created_at < $3
    ORDER BY created_at, number
  `, normalizedCustomer, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var invoice Invoice
		if err := rows.Scan(&invoice.ID, &invoice.Number, &invoice.CustomerName, &invoice.Amount, &invoice.PaidAmount, &invoice.Status, &invoice.PaidLocked, &invoice.DueDate, &invoice.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (s *Store) ListSendsInRange(ctx context.Context, normalizedCustomer string, from, to time.Time) ([]sends.SendRecord, error) {
	return sends.NewStore(s.DB).ListByCustomer(ctx, normalizedCustomer, from, to)
}

func (s *Store) MarkSendsConfirmed(ctx context.Context, ids []string, confirmedBy string) (int, error) {
	return sends.NewStore(s.DB).MarkConfirmed(ctx, ids, confirmedBy)
}

func (s *Store) ApplyAllocations(ctx context.Context, allocations []PaymentAllocation) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, allocation := range allocations {
		tag, err := tx.Exec(ctx, `
      UPDATE invoices
      SET paid_amount = $2, status = $3
      WHERE id = $1 AND NOT paid_locked
    `, allocation.InvoiceID, allocation.PaidAmount, allocation.Status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrPaidLocked
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) LockInvoicePaid(ctx context.Context, invoiceID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE invoices
    SET status = $2, paid_locked = TRUE
    WHERE id = $1 AND NOT paid_locked
  `, invoiceID, StatusPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaidLocked
	}
	return nil
}

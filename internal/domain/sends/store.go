package sends

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Insert persists a send snapshot and bumps the sheet's send counter in the
// same transaction. The sheet itself is never otherwise mutated.
func (s *Store) Insert(ctx context.Context, record SendRecord) (SendRecord, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return SendRecord{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    INSERT INTO send_records (sheet_id, customer_name, send_date, total_weight, protectors_amount, total_amount)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, sent_at
  `, record.SheetID, record.CustomerName, record.Date, record.TotalWeight, record.ProtectorsAmount, record.TotalAmount).Scan(&record.ID, &record.SentAt)
	if err != nil {
		return SendRecord{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE operational_sheets SET send_count = send_count + 1 WHERE id = $1
  `, record.SheetID); err != nil {
		return SendRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return SendRecord{}, err
	}
	return record, nil
}

// ListByCustomer returns send records for a normalized customer name within
// [from, to], oldest first. Name comparison is whitespace- and
// case-insensitive to match the free-text customer identity.
func (s *Store) ListByCustomer(ctx context.Context, normalizedCustomer string, from, to time.Time) ([]SendRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, sheet_id, customer_name, send_date, total_weight, protectors_amount, total_amount, sent_at, confirmed_at, COALESCE(confirmed_by, '')
    FROM send_records
    WHERE lower(regexp_replace(btrim(customer_name), '\s+', ' ', 'g')) = $1
      AND send_date BETWEEN $2 AND $3
    ORDER BY send_date, sent_at, id
  `, normalizedCustomer, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SendRecord
	for rows.Next() {
		var record SendRecord
		if err := rows.Scan(&record.ID, &record.SheetID, &record.CustomerName, &record.Date, &record.TotalWeight, &record.ProtectorsAmount, &record.TotalAmount, &record.SentAt, &record.ConfirmedAt, &record.ConfirmedBy); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// MarkConfirmed stamps confirmed_at/confirmed_by on the given records in one
// batch. Already-confirmed records are left untouched; the returned count is
// the number of rows actually updated.
func (s *Store) MarkConfirmed(ctx context.Context, ids []string, confirmedBy string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE send_records
    SET confirmed_at = now(), confirmed_by = $2
    WHERE id = ANY($1) AND confirmed_at IS NULL
  `, ids, confirmedBy)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

package revenue

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateEntry(ctx context.Context, entry Entry) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO revenues (source, description, amount, entry_date)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, entry.Source, entry.Description, entry.Amount, entry.Date).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListEntries(ctx context.Context, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, source, COALESCE(description, ''), amount, entry_date
    FROM revenues
    WHERE entry_date >= $1 AND entry_date < $2
    ORDER BY entry_date, id
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Source, &entry.Description, &entry.Amount, &entry.Date); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MonthlyReport rolls invoice billing and standalone revenue entries into a
// single top-line figure for the month.
func (s *Store) MonthlyReport(ctx context.Context, monthStart, monthEnd time.Time) (MonthlyReport, error) {
	var report MonthlyReport

	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount), 0), COUNT(1)
    FROM invoices
    WHERE created_at >= $1 AND created_at < $2
  `, monthStart, monthEnd).Scan(&report.InvoicedAmount, &report.InvoiceCount)
	if err != nil {
		return MonthlyReport{}, err
	}

	err = s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount), 0), COUNT(1)
    FROM revenues
    WHERE entry_date >= $1 AND entry_date < $2
  `, monthStart, monthEnd).Scan(&report.OtherRevenue, &report.EntryCount)
	if err != nil {
		return MonthlyReport{}, err
	}

	report.TotalRevenue = report.InvoicedAmount + report.OtherRevenue
	return report, nil
}

package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSheetNotFound = errors.New("operational sheet not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateSheet(ctx context.Context, sheet OperationalSheet) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO operational_sheets (customer_name, sheet_date, sheet_type, price_per_kg, total_weight_override, total_price_override)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, sheet.CustomerName, sheet.Date, sheet.SheetType, sheet.PricePerKg, sheet.TotalWeightOverride, sheet.TotalPriceOverride).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, item := range sheet.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO sheet_items (sheet_id, category, subtype, name, weight, received, washed, dispatched, shortage, unit_price)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, id, item.Category, item.Subtype, item.Name, item.Weight, item.Received, item.Washed, item.Dispatched, item.Shortage, item.UnitPrice); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetSheet(ctx context.Context, sheetID string) (OperationalSheet, error) {
	var sheet OperationalSheet
	err := s.DB.QueryRow(ctx, `
    SELECT id, customer_name, sheet_date, sheet_type, COALESCE(price_per_kg, 0), total_weight_override, total_price_override, send_count, created_at
    FROM operational_sheets
    WHERE id = $1
  `, sheetID).Scan(&sheet.ID, &sheet.CustomerName, &sheet.Date, &sheet.SheetType, &sheet.PricePerKg, &sheet.TotalWeightOverride, &sheet.TotalPriceOverride, &sheet.SendCount, &sheet.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return OperationalSheet{}, ErrSheetNotFound
	}
	if err != nil {
		return OperationalSheet{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, category, COALESCE(subtype, ''), name, weight, received, washed, dispatched, shortage, COALESCE(unit_price, 0)
    FROM sheet_items
    WHERE sheet_id = $1
    ORDER BY category, name
  `, sheetID)
	if err != nil {
		return OperationalSheet{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.Category, &item.Subtype, &item.Name, &item.Weight, &item.Received, &item.Washed, &item.Dispatched, &item.Shortage, &item.UnitPrice); err != nil {
			return OperationalSheet{}, err
		}
		sheet.Items = append(sheet.Items, item)
	}
	return sheet, rows.Err()
}

// ListSheets returns sheets without their items, newest first. customer and
// the date range are optional filters. The name comparison uses the same
// trim-collapse-fold normalization as every other customer comparison site.
func (s *Store) ListSheets(ctx context.Context, customer string, from, to time.Time) ([]OperationalSheet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, customer_name, sheet_date, sheet_type, COALESCE(price_per_kg, 0), total_weight_override, total_price_override, send_count, created_at
    FROM operational_sheets
    WHERE ($1 = '' OR lower(regexp_replace(btrim(customer_name), '\s+', ' ', 'g')) = lower(regexp_replace(btrim($1), '\s+', ' ', 'g')))
      AND ($2::date IS NULL OR sheet_date >= $2)
      AND ($3::date IS NULL OR sheet_date <= $3)
    ORDER BY sheet_date DESC, created_at DESC
  `, customer, nullIfZero(from), nullIfZero(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OperationalSheet
	for rows.Next() {
		var sheet OperationalSheet
		if err := rows.Scan(&sheet.ID, &sheet.CustomerName, &sheet.Date, &sheet.SheetType, &sheet.PricePerKg, &sheet.TotalWeightOverride, &sheet.TotalPriceOverride, &sheet.SendCount, &sheet.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sheet)
	}
	return result, rows.Err()
}

func (s *Store) DeleteSheet(ctx context.Context, sheetID string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM operational_sheets WHERE id = $1`, sheetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	return nil
}

func nullIfZero(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

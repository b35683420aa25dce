package sends

import (
	"context"

	"laundry/internal/domain/pricing"
	"laundry/internal/domain/sheets"
)

type Service struct {
	store   *Store
	sheets  *sheets.Store
	pricing pricing.Context
}

func NewService(store *Store, sheetStore *sheets.Store, pctx pricing.Context) *Service {
	return &Service{store: store, sheets: sheetStore, pricing: pctx}
}

// RecordSend snapshots the sheet's computed totals at transmission time.
// Re-sending the same sheet produces another record on purpose; downstream
// line-item dedup collapses value-identical repeats.
func (s *Service) RecordSend(ctx context.Context, sheetID string) (SendRecord, error) {
	sheet, err := s.sheets.GetSheet(ctx, sheetID)
	if err != nil {
		return SendRecord{}, err
	}

	totals := pricing.Compute(sheet, s.pricing)
	record := SendRecord{
		SheetID:          sheet.ID,
		CustomerName:     sheet.CustomerName,
		Date:             sheet.Date,
		TotalWeight:      totals.TotalWeight,
		ProtectorsAmount: totals.ProtectorsAmount,
		TotalAmount:      totals.GrandTotal,
	}

	return s.store.Insert(ctx, record)
}

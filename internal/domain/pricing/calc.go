package pricing

import (
	"strings"

	"laundry/internal/domain/sheets"
)

// TableclothMarker identifies tablecloth items by name when the explicit
// subtype is missing. Historical sheet data never set a subtype, so the
// name match has to stay.
const TableclothMarker = "tablecloth"

// Context carries the pricing inputs that live outside the sheet itself.
type Context struct {
	// TableclothRate prices tablecloth weight instead of the per-kg rate.
	TableclothRate float64
	// ProtectorPrices maps item name to unit price, used when the line item
	// carries no unit price of its own.
	ProtectorPrices map[string]float64
}

type Totals struct {
	TotalWeight       float64 `json:"totalWeight"`
	ReceivedCount     int     `json:"receivedCount"`
	DispatchedCount   int     `json:"dispatchedCount"`
	ShortageCount     int     `json:"shortageCount"`
	LinenTowelsAmount float64 `json:"linenTowelsAmount"`
	ProtectorsAmount  float64 `json:"protectorsAmount"`
	TableclothAmount  float64 `json:"tableclothAmount"`
	GrandTotal        float64 `json:"grandTotal"`
}

// Compute prices a sheet. It is pure: every call site (live preview, send
// snapshot, document line) gets identical results for identical input.
// Nothing is rounded here; rounding happens only at display formatting.
func Compute(sheet sheets.OperationalSheet, pctx Context) Totals {
	var totals Totals
	var weighedTotal, tableclothWeight float64

	for _, item := range sheet.Items {
		totals.ReceivedCount += item.Received
		totals.DispatchedCount += item.Dispatched
		totals.ShortageCount += item.Shortage

		if item.Category == sheets.CategoryProtector {
			continue
		}
		weighedTotal += item.Weight
		if IsTablecloth(item) && pctx.TableclothRate > 0 {
			tableclothWeight += item.Weight
		}
	}

	totals.TotalWeight = weighedTotal
	if sheet.SheetType == sheets.TypeStandard && sheet.TotalWeightOverride != nil {
		totals.TotalWeight = *sheet.TotalWeightOverride
		tableclothWeight = 0
	}

	if sheet.PricePerKg > 0 {
		totals.LinenTowelsAmount = sheet.PricePerKg * (totals.TotalWeight - tableclothWeight)
	}
	totals.TableclothAmount = pctx.TableclothRate * tableclothWeight

	totals.ProtectorsAmount = protectorsAmount(sheet, pctx)

	totals.GrandTotal = totals.LinenTowelsAmount + totals.ProtectorsAmount + totals.TableclothAmount
	return totals
}

func protectorsAmount(sheet sheets.OperationalSheet, pctx Context) float64 {
	if sheet.SheetType == sheets.TypeStandard && sheet.TotalPriceOverride != nil {
		return *sheet.TotalPriceOverride
	}

	var amount float64
	for _, item := range sheet.Items {
		if item.Category != sheets.CategoryProtector {
			continue
		}
		unitPrice := item.UnitPrice
		if unitPrice == 0 {
			unitPrice = pctx.ProtectorPrices[item.Name]
		}
		count := item.Dispatched
		if count == 0 {
			count = item.Received
		}
		amount += unitPrice * float64(count)
	}
	return amount
}

// IsTablecloth reports whether a line item prices at the tablecloth rate,
// preferring the explicit subtype and falling back to the name marker.
func IsTablecloth(item sheets.LineItem) bool {
	if item.Subtype == sheets.SubtypeTablecloth {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), TableclothMarker)
}

package billing

import (
	"math"
	"time"

	"laundry/internal/domain/sends"
)

// MatchResult links one invoice to the send records inferred to back it.
type MatchResult struct {
	// Matched holds every send within the match window whose amount agrees
	// with the invoice amount within AmountTolerance.
	Matched []sends.SendRecord
	// Best is the date-closest member of Matched, or the date-closest send
	// from the fallback window when Matched is empty. Nil when neither
	// window holds anything.
	Best *sends.SendRecord
	// Fallback marks Best as date-only metadata, not an amount match.
	Fallback bool
	// Ambiguous is set when more than one send satisfied the amount
	// tolerance; the date-closest one was picked deterministically.
	Ambiguous bool
	// SoftMismatch reports a weight or protector divergence beyond
	// SecondaryTolerance among the matched sends. It never rejects a match.
	SoftMismatch bool
}

// MatchSends links an invoice to candidate send records. Amount is the
// primary key of the match: both sides were computed by the same pricing
// code, so equal-within-tolerance amounts are the strongest signal
// available. Date proximity only disambiguates.
func MatchSends(invoice Invoice, records []sends.SendRecord) MatchResult {
	var result MatchResult

	for i := range records {
		record := &records[i]
		if dayDistance(invoice.CreatedAt, record.Date) > MatchWindowDays {
			continue
		}
		if math.Abs(record.TotalAmount-invoice.Amount) <= AmountTolerance {
			result.Matched = append(result.Matched, *record)
		}
	}

	if len(result.Matched) > 0 {
		best := closest(invoice.CreatedAt, result.Matched)
		result.Best = &best
		result.Ambiguous = len(result.Matched) > 1
		result.SoftMismatch = softMismatch(result.Matched)
		return result
	}

	// Amount correlation failed; fall back to a narrow date-only window so a
	// billed invoice is never rendered without a best-effort sent date.
	var fallback []sends.SendRecord
	for i := range records {
		if dayDistance(invoice.CreatedAt, records[i].Date) <= FallbackWindowDays {
			fallback = append(fallback, records[i])
		}
	}
	if len(fallback) > 0 {
		best := closest(invoice.CreatedAt, fallback)
		result.Best = &best
		result.Fallback = true
	}
	return result
}

// Confirmed reports the invoice-level confirmation rollup: true only when
// every matched send carries a confirmation stamp. Partial confirmation
// counts as unconfirmed, and so does an empty match set.
func (m MatchResult) Confirmed() bool {
	if len(m.Matched) == 0 {
		return false
	}
	for _, record := range m.Matched {
		if record.ConfirmedAt == nil {
			return false
		}
	}
	return true
}

// closest picks the record nearest the reference date, breaking ties by
// earlier sentAt and then lower id so repeated runs agree.
func closest(reference time.Time, records []sends.SendRecord) sends.SendRecord {
	best := records[0]
	bestDistance := dayDistance(reference, best.Date)
	for _, record := range records[1:] {
		distance := dayDistance(reference, record.Date)
		switch {
		case distance < bestDistance:
			best, bestDistance = record, distance
		case distance == bestDistance:
			if record.SentAt.Before(best.SentAt) ||
				(record.SentAt.Equal(best.SentAt) && record.ID < best.ID) {
				best = record
			}
		}
	}
	return best
}

// softMismatch cross-checks weight and protector amounts across the matched
// sends. Nonzero values on both records that diverge by more than
// SecondaryTolerance flag the group for detail display.
func softMismatch(matched []sends.SendRecord) bool {
	for i := range matched {
		for j := i + 1; j < len(matched); j++ {
			a, b := matched[i], matched[j]
			if a.TotalWeight != 0 && b.TotalWeight != 0 &&
				math.Abs(a.TotalWeight-b.TotalWeight) > SecondaryTolerance {
				return true
			}
			if a.ProtectorsAmount != 0 && b.ProtectorsAmount != 0 &&
				math.Abs(a.ProtectorsAmount-b.ProtectorsAmount) > SecondaryTolerance {
				return true
			}
		}
	}
	return false
}

func dayDistance(a, b time.Time) int {
	diff := truncateDay(a).Sub(truncateDay(b))
	days := int(diff.Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

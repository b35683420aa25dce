package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry/internal/domain/sends"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestMatchSendsByAmountWithinWindow(t *testing.T) {
	invoice := Invoice{ID: "inv-1", Amount: 100.00, CreatedAt: day(5)}
	records := []sends.SendRecord{
		{ID: "s-1", TotalAmount: 100.00, Date: day(3), SentAt: day(3)},
		{ID: "s-2", TotalAmount: 250.00, Date: day(4), SentAt: day(4)},
	}

	result := MatchSends(invoice, records)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "s-1", result.Matched[0].ID)
	require.NotNil(t, result.Best)
	assert.Equal(t, "s-1", result.Best.ID)
	assert.False(t, result.Fallback)
	assert.False(t, result.Ambiguous)
	assert.False(t, result.Confirmed(), "unconfirmed send must not roll up as confirmed")
}

func TestMatchSendsAmountTolerance(t *testing.T) {
	invoice := Invoice{Amount: 100.00, CreatedAt: day(5)}

	// 100.009 sits inside the tolerance with room for float64 representation
	// error; the boundary value itself rounds to just past 0.01 in binary.
	within := MatchSends(invoice, []sends.SendRecord{{ID: "s-1", TotalAmount: 100.009, Date: day(5), SentAt: day(5)}})
	assert.Len(t, within.Matched, 1, "amount within tolerance must match")

	outside := MatchSends(invoice, []sends.SendRecord{{ID: "s-2", TotalAmount: 100.02, Date: day(5), SentAt: day(5)}})
	assert.Empty(t, outside.Matched, "amount outside tolerance must not match")
}

func TestMatchSendsRespectsMatchWindow(t *testing.T) {
	invoice := Invoice{Amount: 50, CreatedAt: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)}
	records := []sends.SendRecord{
		// 29 days before the invoice: inside the window.
		{ID: "near-edge", TotalAmount: 50, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), SentAt: day(2)},
		// 32 days before (leap-year February): just outside.
		{ID: "past-edge", TotalAmount: 50, Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), SentAt: day(1)},
		{ID: "way-out", TotalAmount: 50, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), SentAt: day(1)},
	}

	result := MatchSends(invoice, records)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "near-edge", result.Matched[0].ID)
}

func TestMatchSendsAmbiguityPicksDateClosest(t *testing.T) {
	invoice := Invoice{Amount: 100, CreatedAt: day(10)}
	records := []sends.SendRecord{
		{ID: "s-a", TotalAmount: 100, Date: day(2), SentAt: day(2)},
		{ID: "s-b", TotalAmount: 100, Date: day(9), SentAt: day(9)},
		{ID: "s-c", TotalAmount: 100, Date: day(16), SentAt: day(16)},
	}

	result := MatchSends(invoice, records)

	assert.Len(t, result.Matched, 3)
	assert.True(t, result.Ambiguous)
	require.NotNil(t, result.Best)
	assert.Equal(t, "s-b", result.Best.ID)

	// Same input, same pick, regardless of record order.
	reversed := []sends.SendRecord{records[2], records[1], records[0]}
	again := MatchSends(invoice, reversed)
	require.NotNil(t, again.Best)
	assert.Equal(t, "s-b", again.Best.ID)
}

func TestMatchSendsTieBreaksOnSentAtThenID(t *testing.T) {
	invoice := Invoice{Amount: 100, CreatedAt: day(10)}
	records := []sends.SendRecord{
		{ID: "s-z", TotalAmount: 100, Date: day(9), SentAt: day(9).Add(2 * time.Hour)},
		{ID: "s-a", TotalAmount: 100, Date: day(11), SentAt: day(9).Add(time.Hour)},
	}

	result := MatchSends(invoice, records)
	require.NotNil(t, result.Best)
	assert.Equal(t, "s-a", result.Best.ID, "equal day distance resolves by earlier sentAt")
}

func TestMatchSendsFallbackWindow(t *testing.T) {
	invoice := Invoice{Amount: 300, CreatedAt: day(10)}
	records := []sends.SendRecord{
		{ID: "near", TotalAmount: 120, Date: day(8), SentAt: day(8)},
		{ID: "too-far", TotalAmount: 120, Date: day(1), SentAt: day(1)},
	}

	result := MatchSends(invoice, records)

	assert.Empty(t, result.Matched)
	require.NotNil(t, result.Best, "a billed invoice never goes without a best-effort sent date")
	assert.Equal(t, "near", result.Best.ID)
	assert.True(t, result.Fallback)
	assert.False(t, result.Confirmed())
}

func TestMatchSendsNoCandidatesAtAll(t *testing.T) {
	invoice := Invoice{Amount: 300, CreatedAt: day(10)}
	result := MatchSends(invoice, []sends.SendRecord{{ID: "old", TotalAmount: 120, Date: time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)}})
	assert.Empty(t, result.Matched)
	assert.Nil(t, result.Best)
}

func TestMatchSendsSoftMismatchReportsButKeepsMatch(t *testing.T) {
	invoice := Invoice{Amount: 100, CreatedAt: day(5)}
	records := []sends.SendRecord{
		{ID: "s-1", TotalAmount: 100, TotalWeight: 40, Date: day(4), SentAt: day(4)},
		{ID: "s-2", TotalAmount: 100, TotalWeight: 45, Date: day(6), SentAt: day(6)},
	}

	result := MatchSends(invoice, records)

	assert.Len(t, result.Matched, 2, "secondary filters never reject an amount match")
	assert.True(t, result.SoftMismatch)
}

func TestConfirmedRequiresEveryMatchedSend(t *testing.T) {
	stamp := day(7)
	invoice := Invoice{Amount: 100, CreatedAt: day(5)}
	records := []sends.SendRecord{
		{ID: "s-1", TotalAmount: 100, Date: day(4), SentAt: day(4), ConfirmedAt: &stamp},
		{ID: "s-2", TotalAmount: 100, Date: day(6), SentAt: day(6)},
	}

	partial := MatchSends(invoice, records)
	assert.False(t, partial.Confirmed(), "partial confirmation counts as unconfirmed")

	records[1].ConfirmedAt = &stamp
	full := MatchSends(invoice, records)
	assert.True(t, full.Confirmed())
}

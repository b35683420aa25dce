package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry/internal/domain/sends"
)

func TestBuildDocumentLinesCollapsesResends(t *testing.T) {
	date := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	// The same sheet sent twice: value-identical snapshots.
	records := []sends.SendRecord{
		{ID: "s-1", Date: date, TotalWeight: 60, ProtectorsAmount: 24, TotalAmount: 174},
		{ID: "s-2", Date: date, TotalWeight: 60, ProtectorsAmount: 24, TotalAmount: 174},
	}

	lines, protectors := BuildDocumentLines(records)

	require.Len(t, lines, 1, "a re-send must not duplicate the weight line")
	assert.Equal(t, 60.0, lines[0].Weight)
	assert.Equal(t, 150.0, lines[0].Amount)
	require.Len(t, protectors, 1, "a re-send must not duplicate the protector line")
	assert.Equal(t, 24.0, protectors[0].Amount)
}

func TestBuildDocumentLinesKeepsDistinctDays(t *testing.T) {
	records := []sends.SendRecord{
		{Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), TotalWeight: 60, TotalAmount: 150},
		{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), TotalWeight: 60, TotalAmount: 150},
	}

	lines, protectors := BuildDocumentLines(records)
	assert.Len(t, lines, 2)
	assert.Empty(t, protectors, "zero protector amounts emit no protector line")
}

func TestDedupLinesIsAFixedPoint(t *testing.T) {
	date := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	lines := []DocumentLine{
		{Date: date, Bucket: BucketLinenTowels, Weight: 60, Amount: 150},
		{Date: date, Bucket: BucketLinenTowels, Weight: 60, Amount: 150},
		{Date: date, Bucket: BucketLinenTowels, Weight: 61, Amount: 152.5},
	}

	once := DedupLines(lines)
	twice := DedupLines(once)
	assert.Equal(t, once, twice, "dedup must be idempotent on its own output")
	assert.Len(t, once, 2)
}

func TestDedupProtectorLinesKeyedByDateAndAmount(t *testing.T) {
	date := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	lines := []ProtectorLine{
		{Date: date, Amount: 24},
		{Date: date, Amount: 24},
		{Date: date, Amount: 30},
		{Date: date.AddDate(0, 0, 1), Amount: 24},
	}

	deduped := DedupProtectorLines(lines)
	assert.Len(t, deduped, 3)
	assert.Equal(t, deduped, DedupProtectorLines(deduped))
}

package trend

import (
	"testing"
	"time"

	"hashwatch/internal/models"

	"github.com/stretchr/testify/assert"
)

func entry(daysAgo int, hashrate float64) models.HistoryEntry {
	return models.HistoryEntry{
		ObservedAt: time.Now().AddDate(0, 0, -daysAgo).Unix(),
		Hashrate:   hashrate,
	}
}

func current(hashrate float64) models.NetworkSnapshot {
	return models.NetworkSnapshot{Hashrate: hashrate, ObservedAt: time.Now()}
}

func TestChangePicksClosestEntryAtOrBeforeWindow(t *testing.T) {
	series := []models.HistoryEntry{
		entry(30, 100),
		entry(10, 200),
		entry(8, 400),
		entry(2, 500),
	}
	// 7d window: cutoff is 7 days ago, the closest entry at or before it is
	// the 8-day-old reading of 400.
	got := Change(series, current(600), 7)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestChangeFallsBackToOldestWhenSeriesTooShort(t *testing.T) {
	series := []models.HistoryEntry{
		entry(5, 200),
		entry(1, 300),
	}
	// Nothing reaches back 30 days; the oldest usable entry is the baseline.
	got := Change(series, current(400), 30)
	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestChangeZeroGuard(t *testing.T) {
	series := []models.HistoryEntry{
		entry(10, 0),
	}
	got := Change(series, current(500), 7)
	assert.Equal(t, 0.0, got)
}

func TestChangeSkipsZeroHashrateGaps(t *testing.T) {
	series := []models.HistoryEntry{
		entry(20, 250),
		entry(9, 0), // failed collection run
		entry(1, 480),
	}
	got := Change(series, current(500), 7)
	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestChangeEmptySeries(t *testing.T) {
	assert.Equal(t, 0.0, Change(nil, current(500), 7))
	assert.Equal(t, 0.0, Change([]models.HistoryEntry{}, current(500), 30))
}

func TestChangeNegativeTrend(t *testing.T) {
	series := []models.HistoryEntry{entry(10, 200)}
	got := Change(series, current(150), 7)
	assert.InDelta(t, -25.0, got, 1e-9)
}

func TestChangesCoversStandardWindows(t *testing.T) {
	series := []models.HistoryEntry{
		entry(100, 100),
		entry(40, 200),
		entry(10, 250),
	}
	windows := Changes(series, current(500))
	assert.Len(t, windows, 3)
	assert.Equal(t, 7, windows[0].WindowDays)
	assert.Equal(t, 30, windows[1].WindowDays)
	assert.Equal(t, 90, windows[2].WindowDays)
	// 90d lookback lands on the 100-day-old entry.
	assert.InDelta(t, 400.0, windows[2].PctChange, 1e-9)
	// 30d lookback lands on the 40-day-old entry.
	assert.InDelta(t, 150.0, windows[1].PctChange, 1e-9)
}

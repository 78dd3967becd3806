package history

import (
	"path/filepath"
	"testing"
	"time"

	"hashwatch/internal/database"
	"hashwatch/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func snapAt(observed time.Time, hashrate float64) models.NetworkSnapshot {
	return models.NetworkSnapshot{
		Hashrate:   hashrate,
		Difficulty: hashrate * 1e11,
		PriceUsd:   65000,
		ObservedAt: observed,
	}
}

func TestAppendAndReadSortsAscending(t *testing.T) {
	store := New(testDB(t), 0, zerolog.Nop())
	now := time.Now().Truncate(time.Second)

	// writes arrive out of timestamp order
	require.NoError(t, store.Append("BTC", snapAt(now.Add(-4*time.Hour), 580)))
	require.NoError(t, store.Append("btc", snapAt(now, 600)))
	require.NoError(t, store.Append("BTC", snapAt(now.Add(-8*time.Hour), 570)))

	header, series, err := store.ReadAll("BTC")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", header.Name)
	assert.Equal(t, "SHA-256", header.Algorithm)

	require.Len(t, series, 3)
	assert.Equal(t, 570.0, series[0].Hashrate)
	assert.Equal(t, 580.0, series[1].Hashrate)
	assert.Equal(t, 600.0, series[2].Hashrate)
	for i := 1; i < len(series); i++ {
		assert.LessOrEqual(t, series[i-1].ObservedAt, series[i].ObservedAt)
	}
}

func TestReadAllNoHistory(t *testing.T) {
	store := New(testDB(t), 0, zerolog.Nop())
	_, _, err := store.ReadAll("LTC")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestReadAllUnknownCoin(t *testing.T) {
	store := New(testDB(t), 0, zerolog.Nop())
	_, _, err := store.ReadAll("NOPE")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoHistory)
}

func TestReadAllServesFromCacheUntilTTL(t *testing.T) {
	db := testDB(t)
	store := New(db, time.Hour, zerolog.Nop())
	require.NoError(t, store.Append("BTC", snapAt(time.Now().Add(-time.Hour), 580)))

	_, series, err := store.ReadAll("BTC")
	require.NoError(t, err)
	require.Len(t, series, 1)

	// a write inside the TTL window is invisible until the cache ages out
	require.NoError(t, store.Append("BTC", snapAt(time.Now(), 600)))
	_, series, err = store.ReadAll("BTC")
	require.NoError(t, err)
	assert.Len(t, series, 1)

	// a store with no cache sees both rows
	fresh := New(db, 0, zerolog.Nop())
	_, series, err = fresh.ReadAll("BTC")
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestReadRecentFiltersByAge(t *testing.T) {
	store := New(testDB(t), 0, zerolog.Nop())
	now := time.Now()
	require.NoError(t, store.Append("BTC", snapAt(now.AddDate(0, 0, -40), 500)))
	require.NoError(t, store.Append("BTC", snapAt(now.AddDate(0, 0, -10), 550)))
	require.NoError(t, store.Append("BTC", snapAt(now, 600)))

	_, series, err := store.ReadRecent("BTC", 30)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 550.0, series[0].Hashrate)

	_, series, err = store.ReadRecent("BTC", 0)
	require.NoError(t, err)
	assert.Len(t, series, 3)
}

func TestChartingDropsFailedRuns(t *testing.T) {
	series := []models.HistoryEntry{
		{Hashrate: 580},
		{Hashrate: 0},
		{Hashrate: 600},
	}
	charted := Charting(series)
	require.Len(t, charted, 2)
	assert.Equal(t, 580.0, charted[0].Hashrate)
	assert.Equal(t, 600.0, charted[1].Hashrate)
}

func TestSummaries(t *testing.T) {
	store := New(testDB(t), 0, zerolog.Nop())
	require.NoError(t, store.Append("BTC", snapAt(time.Now(), 600)))
	require.NoError(t, store.Append("BTC", snapAt(time.Now(), 610)))

	summaries := store.Summaries()
	bySymbol := make(map[string]models.HistorySummary, len(summaries))
	for _, s := range summaries {
		bySymbol[s.Symbol] = s
	}

	btc := bySymbol["BTC"]
	assert.Equal(t, int64(2), btc.Entries)
	require.NotNil(t, btc.LastUpdated)

	ltc := bySymbol["LTC"]
	assert.Zero(t, ltc.Entries)
	assert.Nil(t, ltc.LastUpdated)
}

package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrNoHistory means nothing has been collected yet for a configured coin.
// The serving layer maps it to 404, distinct from the unknown-coin case.
var ErrNoHistory = errors.New("no history collected")

// Store owns the per-coin snapshot logs: one header row plus an append-only
// entry set per symbol. Append is called only by the scheduled collector;
// reads go through a short TTL cache so request handling does not hit the
// database on every call. Cache entries expire purely by age.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
	log zerolog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	header models.CoinHistory
	series []models.HistoryEntry
	readAt time.Time
}

func New(db *gorm.DB, ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		db:    db,
		ttl:   ttl,
		log:   log,
		cache: make(map[string]cacheEntry),
	}
}

// Append records one snapshot for a coin. Header upsert and entry insert run
// in one transaction so an interrupted write never leaves a torn record.
// Writes need not arrive in timestamp order; reads sort.
func (s *Store) Append(symbol string, snap models.NetworkSnapshot) error {
	cfg, ok := coins.Get(symbol)
	if !ok {
		return fmt.Errorf("unknown coin %s", symbol)
	}
	observed := snap.ObservedAt
	if observed.IsZero() {
		observed = time.Now()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var header models.CoinHistory
		res := tx.Where("symbol = ?", cfg.Symbol).First(&header)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return res.Error
			}
			header = models.CoinHistory{
				Symbol:      cfg.Symbol,
				Name:        cfg.Name,
				Algorithm:   cfg.Algorithm,
				BlockTime:   cfg.BlockTime,
				DataStarted: observed,
			}
			if err := tx.Create(&header).Error; err != nil {
				return err
			}
		}
		header.LastUpdated = observed
		if err := tx.Model(&models.CoinHistory{}).
			Where("id = ?", header.ID).
			Update("last_updated", observed).Error; err != nil {
			return err
		}

		entry := models.HistoryEntry{
			Symbol:     cfg.Symbol,
			ObservedAt: observed.Unix(),
			Difficulty: snap.Difficulty,
			Hashrate:   snap.Hashrate,
			Price:      snap.PriceUsd,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", cfg.Symbol, err)
	}
	return nil
}

// ReadAll returns the header and the full series sorted ascending by
// timestamp. Served from the cache while it is fresh, so a write landing
// inside the TTL window becomes visible on the next cache miss.
func (s *Store) ReadAll(symbol string) (models.CoinHistory, []models.HistoryEntry, error) {
	cfg, ok := coins.Get(symbol)
	if !ok {
		return models.CoinHistory{}, nil, fmt.Errorf("unknown coin %s", symbol)
	}

	s.mu.Lock()
	if cached, ok := s.cache[cfg.Symbol]; ok && time.Since(cached.readAt) < s.ttl {
		header, series := cached.header, cached.series
		s.mu.Unlock()
		return header, series, nil
	}
	s.mu.Unlock()

	var header models.CoinHistory
	if err := s.db.Where("symbol = ?", cfg.Symbol).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CoinHistory{}, nil, fmt.Errorf("%s: %w", cfg.Symbol, ErrNoHistory)
		}
		return models.CoinHistory{}, nil, fmt.Errorf("read %s: %w", cfg.Symbol, err)
	}
	var series []models.HistoryEntry
	if err := s.db.Where("symbol = ?", cfg.Symbol).
		Order("observed_at asc").
		Find(&series).Error; err != nil {
		return models.CoinHistory{}, nil, fmt.Errorf("read %s: %w", cfg.Symbol, err)
	}
	if len(series) == 0 {
		return models.CoinHistory{}, nil, fmt.Errorf("%s: %w", cfg.Symbol, ErrNoHistory)
	}

	s.mu.Lock()
	s.cache[cfg.Symbol] = cacheEntry{header: header, series: series, readAt: time.Now()}
	s.mu.Unlock()
	return header, series, nil
}

// ReadRecent filters the full series down to the last N days.
func (s *Store) ReadRecent(symbol string, days int) (models.CoinHistory, []models.HistoryEntry, error) {
	header, series, err := s.ReadAll(symbol)
	if err != nil {
		return models.CoinHistory{}, nil, err
	}
	if days <= 0 {
		return header, series, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	for i, e := range series {
		if e.ObservedAt >= cutoff {
			return header, series[i:], nil
		}
	}
	return header, []models.HistoryEntry{}, nil
}

// Charting filters out entries where collection produced no hashrate.
func Charting(series []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(series))
	for _, e := range series {
		if e.Hashrate > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Summaries reports per-coin entry counts for the history index endpoint.
// Coins with no data yet appear with zero entries and a nil timestamp.
func (s *Store) Summaries() []models.HistorySummary {
	out := make([]models.HistorySummary, 0, len(coins.Symbols()))
	for _, cfg := range coins.All() {
		summary := models.HistorySummary{Symbol: cfg.Symbol, Name: cfg.Name}
		var header models.CoinHistory
		if err := s.db.Where("symbol = ?", cfg.Symbol).First(&header).Error; err == nil {
			var count int64
			if err := s.db.Model(&models.HistoryEntry{}).
				Where("symbol = ?", cfg.Symbol).
				Count(&count).Error; err == nil {
				summary.Entries = count
			}
			if !header.LastUpdated.IsZero() {
				t := header.LastUpdated
				summary.LastUpdated = &t
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error().Str("coin", cfg.Symbol).Err(err).Msg("history summary read failed")
		}
		out = append(out, summary)
	}
	return out
}

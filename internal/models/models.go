package models

import (
	"time"
)

// NetworkSnapshot is one coin's mining and financial state at a point in time.
// Hashrate and Difficulty are always set by a mining source; the financial
// fields may legitimately be all zero when every price provider was down.
type NetworkSnapshot struct {
	Symbol string `json:"symbol"`
	Name   string `json:"coin"`

	// Hashrate is expressed in the coin's conventional display unit (Unit),
	// not raw H/s. Coins are not comparable in absolute terms.
	Hashrate   float64 `json:"currentHashrate"`
	Unit       string  `json:"unit"`
	Difficulty float64 `json:"currentDifficulty"`

	PriceUsd       float64 `json:"currentPrice"`
	PriceChange24h float64 `json:"priceChange24h"`
	MarketCapUsd   float64 `json:"marketCap"`

	Change7d  float64 `json:"change7d"`
	Change30d float64 `json:"change30d"`
	Change90d float64 `json:"change90d"`

	// Epoch milliseconds mirror of ObservedAt for the wire format.
	LastUpdated int64     `json:"lastUpdated"`
	ObservedAt  time.Time `json:"-"`
}

// CoinHistory is the per-coin history header row.
type CoinHistory struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	Symbol      string    `json:"coin" gorm:"uniqueIndex;size:16;not null"`
	Name        string    `json:"name"`
	Algorithm   string    `json:"algorithm"`
	BlockTime   float64   `json:"blockTime"`
	DataStarted time.Time `json:"dataStarted"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// HistoryEntry is one appended snapshot in a coin's series. ObservedAt is
// Unix seconds; entries are sorted ascending on read, duplicates tolerated.
type HistoryEntry struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	Symbol     string    `json:"-" gorm:"index:idx_entry_symbol_observed;size:16;not null"`
	ObservedAt int64     `json:"t" gorm:"index:idx_entry_symbol_observed;not null"`
	Difficulty float64   `json:"d"`
	Hashrate   float64   `json:"h"`
	Price      float64   `json:"p"`
	CreatedAt  time.Time `json:"-"`
}

// HistorySummary is the per-coin line item of the history index endpoint.
type HistorySummary struct {
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	Entries     int64      `json:"entries"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// TrendWindow is a derived percentage change over a fixed lookback window.
// Never stored, always computed from a series plus a current snapshot.
type TrendWindow struct {
	WindowDays int     `json:"windowDays"`
	PctChange  float64 `json:"pctChange"`
}

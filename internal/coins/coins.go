package coins

import (
	"fmt"
	"sort"
	"strings"
)

// Config is the static per-coin configuration. The table below is the single
// source of truth for supported coins, their display conventions and the
// ordered source lists the resolver walks.
type Config struct {
	Symbol    string
	Name      string
	Algorithm string
	// Nominal seconds between blocks (sub-second for Kaspa/Conflux).
	BlockTime float64
	// Conventional display unit for the coin's network hashrate.
	Unit string
	// CoinGecko asset id, empty if the coin is not listed there.
	CoinGeckoID string

	// Ordered fallback chains, first success wins.
	MiningSources    []string
	FinancialSources []string
	// Source whose difficulty value is preferred when more than one
	// succeeded with a non-zero reading.
	DifficultyAuthority string

	// Baselines seeding the synthetic source when every real provider is down.
	BaselineHashrate   float64 // in Unit
	BaselineDifficulty float64
}

// Hashrate unit scales relative to H/s.
var unitScale = map[string]float64{
	"EH/s": 1e18,
	"PH/s": 1e15,
	"TH/s": 1e12,
	"GH/s": 1e9,
	"MH/s": 1e6,
	"H/s":  1,
}

var table = []Config{
	{
		Symbol: "BTC", Name: "Bitcoin", Algorithm: "SHA-256", BlockTime: 600,
		Unit: "EH/s", CoinGeckoID: "bitcoin",
		MiningSources:       []string{"blockchaininfo", "minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "blockchaininfo",
		BaselineHashrate: 620, BaselineDifficulty: 9.1e13,
	},
	{
		Symbol: "LTC", Name: "Litecoin", Algorithm: "Scrypt", BlockTime: 150,
		Unit: "PH/s", CoinGeckoID: "litecoin",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 1.6, BaselineDifficulty: 5.4e7,
	},
	{
		Symbol: "XMR", Name: "Monero", Algorithm: "RandomX", BlockTime: 120,
		Unit: "GH/s", CoinGeckoID: "monero",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 4.3, BaselineDifficulty: 5.2e11,
	},
	{
		Symbol: "DOGE", Name: "Dogecoin", Algorithm: "Scrypt", BlockTime: 60,
		Unit: "PH/s", CoinGeckoID: "dogecoin",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 2.1, BaselineDifficulty: 2.6e7,
	},
	{
		Symbol: "KAS", Name: "Kaspa", Algorithm: "kHeavyHash", BlockTime: 1,
		Unit: "PH/s", CoinGeckoID: "kaspa",
		MiningSources:       []string{"kaspagrid", "minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 860, BaselineDifficulty: 6.3e16,
	},
	{
		Symbol: "ETC", Name: "Ethereum Classic", Algorithm: "Etchash", BlockTime: 13,
		Unit: "TH/s", CoinGeckoID: "ethereum-classic",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 180, BaselineDifficulty: 2.4e15,
	},
	{
		Symbol: "RVN", Name: "Ravencoin", Algorithm: "KAWPOW", BlockTime: 60,
		Unit: "TH/s", CoinGeckoID: "ravencoin",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 4.8, BaselineDifficulty: 6.2e4,
	},
	{
		Symbol: "ZEC", Name: "Zcash", Algorithm: "Equihash", BlockTime: 75,
		Unit: "GH/s", CoinGeckoID: "zcash",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 11, BaselineDifficulty: 6.5e7,
	},
	{
		Symbol: "BCH", Name: "Bitcoin Cash", Algorithm: "SHA-256", BlockTime: 600,
		Unit: "EH/s", CoinGeckoID: "bitcoin-cash",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 3.7, BaselineDifficulty: 5.1e11,
	},
	{
		Symbol: "ERG", Name: "Ergo", Algorithm: "Autolykos2", BlockTime: 120,
		Unit: "TH/s", CoinGeckoID: "ergo",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 13, BaselineDifficulty: 1.6e15,
	},
	{
		Symbol: "CFX", Name: "Conflux", Algorithm: "Octopus", BlockTime: 0.5,
		Unit: "TH/s", CoinGeckoID: "conflux-token",
		MiningSources:       []string{"minerstat", "synthetic"},
		FinancialSources:    []string{"coingecko", "minerstat"},
		DifficultyAuthority: "minerstat",
		BaselineHashrate: 2.4, BaselineDifficulty: 1.1e15,
	},
}

var bySymbol = func() map[string]Config {
	m := make(map[string]Config, len(table))
	for _, c := range table {
		m[c.Symbol] = c
	}
	return m
}()

// All returns the configured coins in their fixed display order.
func All() []Config {
	out := make([]Config, len(table))
	copy(out, table)
	return out
}

// Get looks up one coin config by symbol, case-insensitive.
func Get(symbol string) (Config, bool) {
	c, ok := bySymbol[strings.ToUpper(symbol)]
	return c, ok
}

func IsSupported(symbol string) bool {
	_, ok := bySymbol[strings.ToUpper(symbol)]
	return ok
}

// Symbols returns the supported tickers in display order.
func Symbols() []string {
	out := make([]string, 0, len(table))
	for _, c := range table {
		out = append(out, c.Symbol)
	}
	return out
}

// UnitScale returns the H/s multiplier for a display unit, 1 for unknown units.
func UnitScale(unit string) float64 {
	if s, ok := unitScale[unit]; ok {
		return s
	}
	return 1
}

// FromRawHashrate converts a raw H/s reading into the coin's display unit.
func FromRawHashrate(rawHs float64, unit string) float64 {
	return rawHs / UnitScale(unit)
}

// FormatHashrate renders a raw H/s value with an auto-picked unit, for logs.
func FormatHashrate(rawHs float64) string {
	type step struct {
		scale float64
		unit  string
	}
	steps := []step{
		{1e18, "EH/s"}, {1e15, "PH/s"}, {1e12, "TH/s"}, {1e9, "GH/s"}, {1e6, "MH/s"},
	}
	for _, s := range steps {
		if rawHs >= s.scale {
			return fmt.Sprintf("%.2f %s", rawHs/s.scale, s.unit)
		}
	}
	return fmt.Sprintf("%.2f H/s", rawHs)
}

// SortedSymbols is Symbols() sorted alphabetically, for stable log output.
func SortedSymbols() []string {
	out := Symbols()
	sort.Strings(out)
	return out
}

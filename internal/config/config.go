package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Optional CoinGecko demo key. Without it the coingecko source reports
	// itself unavailable and price data falls through to the next source.
	CoinGeckoAPIKey string

	// Provider base URLs, overridable for tests and proxies.
	MinerstatBaseURL      string
	BlockchainInfoBaseURL string
	KaspaBaseURL          string
	CoinGeckoBaseURL      string

	SourceTimeout     time.Duration
	AggregateCacheTTL time.Duration
	HistoryCacheTTL   time.Duration

	// Collector schedule (cron spec, default every 4 hours).
	CollectCron string
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "data/hashwatch.db"),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		CoinGeckoAPIKey: getEnv("COINGECKO_API_KEY", ""),

		MinerstatBaseURL:      getEnv("MINERSTAT_BASE_URL", "https://api.minerstat.com/v2"),
		BlockchainInfoBaseURL: getEnv("BLOCKCHAIN_INFO_BASE_URL", "https://blockchain.info"),
		KaspaBaseURL:          getEnv("KASPA_BASE_URL", "https://api.kaspa.org"),
		CoinGeckoBaseURL:      getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),

		SourceTimeout:     getEnvDuration("SOURCE_TIMEOUT_SECONDS", 10*time.Second),
		AggregateCacheTTL: getEnvDuration("AGGREGATE_CACHE_TTL_SECONDS", 10*time.Minute),
		HistoryCacheTTL:   getEnvDuration("HISTORY_CACHE_TTL_SECONDS", time.Minute),

		CollectCron: getEnv("COLLECT_CRON", "0 */4 * * *"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

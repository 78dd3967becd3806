package main

import (
	"net/http"
	"os"
	"time"

	"hashwatch/internal/api"
	"hashwatch/internal/config"
	"hashwatch/internal/database"
	"hashwatch/internal/history"
	"hashwatch/internal/resolver"
	"hashwatch/internal/sources"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// Load environment variables; a missing .env file is fine in production
	_ = godotenv.Load()

	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "hashwatch-api").Logger()
	if cfg.Environment == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	store := history.New(db, cfg.HistoryCacheTTL, log)
	res := resolver.New(log, cfg.SourceTimeout,
		sources.NewMinerstat(cfg.MinerstatBaseURL, cfg.SourceTimeout),
		sources.NewBlockchainInfo(cfg.BlockchainInfoBaseURL, cfg.SourceTimeout),
		sources.NewKaspaGrid(cfg.KaspaBaseURL, cfg.SourceTimeout),
		sources.NewCoinGecko(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.SourceTimeout),
		sources.NewSynthetic(),
	)

	if cfg.CoinGeckoAPIKey == "" {
		log.Warn().Msg("COINGECKO_API_KEY not set, price data served from fallback sources")
	}

	r := gin.Default()

	// CORS middleware: these are intentionally public, read-only endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, store, res, cfg.AggregateCacheTTL, log)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

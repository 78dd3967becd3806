package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hashwatch/internal/collector"
	"hashwatch/internal/config"
	"hashwatch/internal/database"
	"hashwatch/internal/history"
	"hashwatch/internal/resolver"
	"hashwatch/internal/sources"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	var (
		once     = flag.Bool("once", false, "run a single collection pass and exit")
		cronSpec = flag.String("cron", "", "override collection schedule (cron spec)")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "hashwatch-collector").Logger()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	store := history.New(db, cfg.HistoryCacheTTL, log)
	minerstat := sources.NewMinerstat(cfg.MinerstatBaseURL, cfg.SourceTimeout)
	res := resolver.New(log, cfg.SourceTimeout,
		minerstat,
		sources.NewBlockchainInfo(cfg.BlockchainInfoBaseURL, cfg.SourceTimeout),
		sources.NewKaspaGrid(cfg.KaspaBaseURL, cfg.SourceTimeout),
		sources.NewCoinGecko(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.SourceTimeout),
		sources.NewSynthetic(),
	)
	coll := collector.New(store, minerstat, res, log)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		updated, err := coll.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("collection pass failed")
			os.Exit(1)
		}
		log.Info().Int("updated", updated).Msg("collection pass complete")
		return
	}

	spec := cfg.CollectCron
	if *cronSpec != "" {
		spec = *cronSpec
	}

	// Overlapping runs would mean two writers on the history store; skip
	// instead of queueing when a pass overruns the schedule.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})))
	_, err = c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		updated, err := coll.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("scheduled collection failed")
			return
		}
		log.Info().Int("updated", updated).Msg("scheduled collection complete")
	})
	if err != nil {
		log.Fatal().Err(err).Str("spec", spec).Msg("invalid cron spec")
	}

	log.Info().Str("spec", spec).Msg("collector scheduled")
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopCtx := c.Stop()
	<-stopCtx.Done()
	log.Info().Msg("collector stopped")
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

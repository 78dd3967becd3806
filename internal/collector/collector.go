package collector

import (
	"context"
	"fmt"

	"hashwatch/internal/coins"
	"hashwatch/internal/history"
	"hashwatch/internal/models"
	"hashwatch/internal/resolver"
	"hashwatch/internal/sources"

	"github.com/rs/zerolog"
)

// Collector runs one collection pass: a single batch call for everything the
// batch source covers, per-coin resolver fallback for the rest, one history
// append per coin. It is the only writer of the history store.
type Collector struct {
	store *history.Store
	batch sources.BatchSource
	res   *resolver.Resolver
	log   zerolog.Logger
}

func New(store *history.Store, batch sources.BatchSource, res *resolver.Resolver, log zerolog.Logger) *Collector {
	return &Collector{store: store, batch: batch, res: res, log: log}
}

// Run appends one entry per resolvable coin and returns how many were
// updated. Per-coin failures are logged and skipped; only a pass that updates
// nothing at all is an error, so the job scheduler can exit non-zero on it.
func (c *Collector) Run(ctx context.Context) (int, error) {
	symbols := coins.Symbols()

	batch := map[string]models.NetworkSnapshot{}
	if c.batch != nil {
		var err error
		batch, err = c.batch.FetchBatch(ctx, symbols)
		if err != nil {
			c.log.Warn().Err(err).Msg("batch source failed, falling back per coin")
			batch = map[string]models.NetworkSnapshot{}
		}
	}

	updated := 0
	for _, cfg := range coins.All() {
		snap, ok := batch[cfg.Symbol]
		if !ok {
			var err error
			snap, err = c.res.Resolve(ctx, cfg.Symbol)
			if err != nil {
				c.log.Error().Str("coin", cfg.Symbol).Err(err).Msg("coin unresolvable, skipping")
				continue
			}
		}
		if snap.Hashrate < 0 || snap.Difficulty < 0 {
			c.log.Warn().Str("coin", cfg.Symbol).Msg("invalid reading, skipping")
			continue
		}

		if err := c.store.Append(cfg.Symbol, snap); err != nil {
			// Persistence failures hit one coin, not the whole run.
			c.log.Error().Str("coin", cfg.Symbol).Err(err).Msg("history append failed")
			continue
		}
		updated++
		c.log.Info().
			Str("coin", cfg.Symbol).
			Str("hashrate", coins.FormatHashrate(snap.Hashrate*coins.UnitScale(snap.Unit))).
			Float64("difficulty", snap.Difficulty).
			Float64("price", snap.PriceUsd).
			Msg("snapshot appended")
	}

	if updated == 0 {
		return 0, fmt.Errorf("no coins updated")
	}
	return updated, nil
}

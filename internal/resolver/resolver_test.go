package resolver

import (
	"context"
	"testing"
	"time"

	"hashwatch/internal/models"
	"hashwatch/internal/sources"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name  string
	snap  models.NetworkSnapshot
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	s.calls++
	if s.err != nil {
		return models.NetworkSnapshot{}, s.err
	}
	return s.snap, nil
}

func down(name string) *stubSource {
	return &stubSource{name: name, err: sources.ErrSourceUnavailable}
}

func TestResolveFallsThroughChainInOrder(t *testing.T) {
	primary := down("blockchaininfo")
	secondary := &stubSource{
		name: "minerstat",
		snap: models.NetworkSnapshot{Hashrate: 600, Difficulty: 9.1e13, PriceUsd: 65000},
	}
	res := New(zerolog.Nop(), time.Second, primary, secondary, down("coingecko"), down("synthetic"))

	snap, err := res.Resolve(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Positive(t, primary.calls, "first source in the chain must be tried")
	assert.Equal(t, 600.0, snap.Hashrate)
	assert.Equal(t, "BTC", snap.Symbol)
	assert.Equal(t, "EH/s", snap.Unit)
	assert.NotZero(t, snap.LastUpdated)
}

func TestResolvePartialSuccessWhenFinancialGroupFails(t *testing.T) {
	mining := &stubSource{
		name: "blockchaininfo",
		snap: models.NetworkSnapshot{Hashrate: 600, Difficulty: 9.1e13},
	}
	res := New(zerolog.Nop(), time.Second, mining, down("minerstat"), down("coingecko"), down("synthetic"))

	snap, err := res.Resolve(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 600.0, snap.Hashrate)
	assert.Zero(t, snap.PriceUsd)
	assert.Zero(t, snap.PriceChange24h)
	assert.Zero(t, snap.MarketCapUsd)
}

func TestResolveFailsWhenMiningGroupExhausted(t *testing.T) {
	financial := &stubSource{
		name: "coingecko",
		snap: models.NetworkSnapshot{PriceUsd: 65000},
	}
	res := New(zerolog.Nop(), time.Second,
		down("blockchaininfo"), down("minerstat"), down("synthetic"), financial)

	_, err := res.Resolve(context.Background(), "BTC")
	assert.ErrorIs(t, err, ErrFieldGroupExhausted)
}

func TestResolvePrefersDifficultyAuthority(t *testing.T) {
	// both groups report a difficulty; the authority's reading wins
	mining := &stubSource{
		name: "blockchaininfo",
		snap: models.NetworkSnapshot{Hashrate: 600, Difficulty: 9.1e13},
	}
	financial := &stubSource{
		name: "minerstat",
		snap: models.NetworkSnapshot{PriceUsd: 65000, Difficulty: 5},
	}
	res := New(zerolog.Nop(), time.Second, mining, down("coingecko"), financial, down("synthetic"))

	// minerstat serves both groups here, so mining must not reach it first
	snap, err := res.Resolve(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 9.1e13, snap.Difficulty)
}

func TestResolveBackfillsDifficultyFromOtherGroup(t *testing.T) {
	// KAS mining source reports no difficulty, the financial source does
	mining := &stubSource{
		name: "kaspagrid",
		snap: models.NetworkSnapshot{Hashrate: 1.2},
	}
	minerstat := &stubSource{
		name: "minerstat",
		snap: models.NetworkSnapshot{PriceUsd: 0.11, Difficulty: 2.4e15},
	}
	res := New(zerolog.Nop(), time.Second, mining, down("coingecko"), minerstat, down("synthetic"))

	snap, err := res.Resolve(context.Background(), "KAS")
	require.NoError(t, err)
	assert.Equal(t, 1.2, snap.Hashrate)
	assert.Equal(t, 2.4e15, snap.Difficulty)
}

func TestResolveUnknownCoin(t *testing.T) {
	res := New(zerolog.Nop(), time.Second)
	_, err := res.Resolve(context.Background(), "NOPE")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFieldGroupExhausted)
}

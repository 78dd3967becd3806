package sources

import (
	"context"
	"testing"

	"hashwatch/internal/coins"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticStaysNearBaseline(t *testing.T) {
	src := NewSynthetic()
	cfg, _ := coins.Get("BTC")

	for i := 0; i < 50; i++ {
		snap, err := src.Fetch(context.Background(), "BTC")
		require.NoError(t, err)
		assert.Equal(t, "BTC", snap.Symbol)
		assert.Equal(t, cfg.Unit, snap.Unit)
		assert.GreaterOrEqual(t, snap.Hashrate, cfg.BaselineHashrate*0.92)
		assert.LessOrEqual(t, snap.Hashrate, cfg.BaselineHashrate*1.08)
		assert.Positive(t, snap.Difficulty)
	}
}

func TestSyntheticUnknownCoin(t *testing.T) {
	src := NewSynthetic()
	_, err := src.Fetch(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

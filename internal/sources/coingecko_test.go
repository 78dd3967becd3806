package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoFetchBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-cg-demo-api-key"))
		assert.Contains(t, r.URL.Query().Get("ids"), "bitcoin")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bitcoin":{"usd":65000,"usd_24h_change":-1.2,"usd_market_cap":1.28e12},
			"litecoin":{"usd":80,"usd_24h_change":0.4,"usd_market_cap":6e9}
		}`))
	}))
	defer server.Close()

	src := NewCoinGecko(server.URL, "test-key", 5*time.Second)
	batch, err := src.FetchBatch(context.Background(), []string{"BTC", "LTC"})
	require.NoError(t, err)

	btc, ok := batch["BTC"]
	require.True(t, ok)
	assert.Equal(t, 65000.0, btc.PriceUsd)
	assert.Equal(t, -1.2, btc.PriceChange24h)
	assert.Equal(t, 1.28e12, btc.MarketCapUsd)
	// financial source contributes no mining fields
	assert.Zero(t, btc.Hashrate)

	ltc, ok := batch["LTC"]
	require.True(t, ok)
	assert.Equal(t, 80.0, ltc.PriceUsd)
}

func TestCoinGeckoWithoutAPIKey(t *testing.T) {
	src := NewCoinGecko("http://localhost:0", "", time.Second)
	_, err := src.FetchBatch(context.Background(), []string{"BTC"})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestCoinGeckoRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewCoinGecko(server.URL, "test-key", 5*time.Second)
	_, err := src.FetchBatch(context.Background(), []string{"BTC"})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

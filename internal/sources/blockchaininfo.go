package sources

import (
	"context"
	"strings"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// BlockchainInfo wraps the blockchain.info charts API. It only knows Bitcoin,
// where it is the authoritative difficulty source. Chart values arrive as
// {values: [{x: unix_seconds, y: value}, ...]} with hashrate in TH/s.
type BlockchainInfo struct {
	client *resty.Client
}

func NewBlockchainInfo(baseURL string, timeout time.Duration) *BlockchainInfo {
	return &BlockchainInfo{client: newClient(baseURL, timeout)}
}

func (b *BlockchainInfo) Name() string { return "blockchaininfo" }

func (b *BlockchainInfo) Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	if !strings.EqualFold(symbol, "BTC") {
		return models.NetworkSnapshot{}, unavailablef(b.Name(), "unsupported coin %s", symbol)
	}
	cfg, _ := coins.Get("BTC")

	hashrate, observed, err := b.latestChartValue(ctx, "hash-rate")
	if err != nil {
		return models.NetworkSnapshot{}, err
	}
	difficulty, _, err := b.latestChartValue(ctx, "difficulty")
	if err != nil {
		return models.NetworkSnapshot{}, err
	}

	return models.NetworkSnapshot{
		Symbol:     cfg.Symbol,
		Name:       cfg.Name,
		Hashrate:   coins.FromRawHashrate(hashrate*1e12, cfg.Unit), // chart unit is TH/s
		Unit:       cfg.Unit,
		Difficulty: difficulty,
		ObservedAt: observed,
	}, nil
}

func (b *BlockchainInfo) latestChartValue(ctx context.Context, chart string) (float64, time.Time, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"timespan": "7days",
			"format":   "json",
			"cors":     "true",
		}).
		Get("/charts/" + chart)
	if err != nil {
		return 0, time.Time{}, unavailable(b.Name(), err)
	}
	if resp.StatusCode() != 200 {
		return 0, time.Time{}, unavailablef(b.Name(), "chart %s status %d", chart, resp.StatusCode())
	}

	values := gjson.GetBytes(resp.Body(), "values")
	if !values.Exists() || len(values.Array()) == 0 {
		return 0, time.Time{}, unavailablef(b.Name(), "chart %s has no values", chart)
	}
	last := values.Array()[len(values.Array())-1]
	y := last.Get("y").Float()
	if y <= 0 {
		return 0, time.Time{}, unavailablef(b.Name(), "chart %s last value not positive", chart)
	}
	observed := time.Unix(last.Get("x").Int(), 0)
	return y, observed, nil
}

var _ Source = (*BlockchainInfo)(nil)

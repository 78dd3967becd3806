package sources

import (
	"context"
	"strings"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// CoinGecko wraps the /simple/price endpoint for the financial field group:
// USD price, 24h change and market cap. The demo API requires a key; when
// none is configured the source degrades to unavailable instead of burning
// requests that will be rejected upstream.
type CoinGecko struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

func NewCoinGecko(baseURL, apiKey string, timeout time.Duration) *CoinGecko {
	return &CoinGecko{
		client: newClient(baseURL, timeout),
		apiKey: apiKey,
		// Free tier allows ~30 calls/min; stay well under it.
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 1),
	}
}

func (g *CoinGecko) Name() string { return "coingecko" }

func (g *CoinGecko) Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	batch, err := g.FetchBatch(ctx, []string{symbol})
	if err != nil {
		return models.NetworkSnapshot{}, err
	}
	snap, ok := batch[strings.ToUpper(symbol)]
	if !ok {
		return models.NetworkSnapshot{}, unavailablef(g.Name(), "coin %s missing from response", symbol)
	}
	return snap, nil
}

func (g *CoinGecko) FetchBatch(ctx context.Context, symbols []string) (map[string]models.NetworkSnapshot, error) {
	if g.apiKey == "" {
		return nil, unavailablef(g.Name(), "no API key configured")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, unavailable(g.Name(), err)
	}

	ids := make([]string, 0, len(symbols))
	idToSymbol := make(map[string]string, len(symbols))
	for _, s := range symbols {
		cfg, ok := coins.Get(s)
		if !ok || cfg.CoinGeckoID == "" {
			continue
		}
		ids = append(ids, cfg.CoinGeckoID)
		idToSymbol[cfg.CoinGeckoID] = cfg.Symbol
	}
	if len(ids) == 0 {
		return nil, unavailablef(g.Name(), "no mappable coins requested")
	}

	payload := map[string]struct {
		Usd          float64 `json:"usd"`
		Usd24hChange float64 `json:"usd_24h_change"`
		UsdMarketCap float64 `json:"usd_market_cap"`
	}{}
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-cg-demo-api-key", g.apiKey).
		SetQueryParams(map[string]string{
			"ids":                 strings.Join(ids, ","),
			"vs_currencies":       "usd",
			"include_24hr_change": "true",
			"include_market_cap":  "true",
		}).
		SetResult(&payload).
		Get("/simple/price")
	if err != nil {
		return nil, unavailable(g.Name(), err)
	}
	if resp.StatusCode() != 200 {
		return nil, unavailablef(g.Name(), "status %d", resp.StatusCode())
	}

	now := time.Now()
	out := make(map[string]models.NetworkSnapshot, len(payload))
	for id, p := range payload {
		symbol, ok := idToSymbol[id]
		if !ok {
			continue
		}
		cfg, _ := coins.Get(symbol)
		out[symbol] = models.NetworkSnapshot{
			Symbol:         cfg.Symbol,
			Name:           cfg.Name,
			Unit:           cfg.Unit,
			PriceUsd:       p.Usd,
			PriceChange24h: p.Usd24hChange,
			MarketCapUsd:   p.UsdMarketCap,
			ObservedAt:     now,
		}
	}
	if len(out) == 0 {
		return nil, unavailablef(g.Name(), "no usable coins in response")
	}
	return out, nil
}

var _ BatchSource = (*CoinGecko)(nil)

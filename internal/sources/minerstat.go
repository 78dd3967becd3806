package sources

import (
	"context"
	"strings"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"

	"github.com/go-resty/resty/v2"
)

// Minerstat wraps api.minerstat.com. One call returns hashrate, difficulty
// and price for a whole coin list, so it serves as the primary mining source
// for most coins and as the financial fallback behind coingecko.
type Minerstat struct {
	client *resty.Client
}

type minerstatCoin struct {
	Coin            string  `json:"coin"`
	Name            string  `json:"name"`
	Algorithm       string  `json:"algorithm"`
	NetworkHashrate float64 `json:"network_hashrate"`
	Difficulty      float64 `json:"difficulty"`
	Price           float64 `json:"price"`
	Volume          float64 `json:"volume"`
	Updated         int64   `json:"updated"`
}

func NewMinerstat(baseURL string, timeout time.Duration) *Minerstat {
	return &Minerstat{client: newClient(baseURL, timeout)}
}

func (m *Minerstat) Name() string { return "minerstat" }

func (m *Minerstat) Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	batch, err := m.FetchBatch(ctx, []string{symbol})
	if err != nil {
		return models.NetworkSnapshot{}, err
	}
	snap, ok := batch[strings.ToUpper(symbol)]
	if !ok {
		return models.NetworkSnapshot{}, unavailablef(m.Name(), "coin %s missing from response", symbol)
	}
	return snap, nil
}

func (m *Minerstat) FetchBatch(ctx context.Context, symbols []string) (map[string]models.NetworkSnapshot, error) {
	list := make([]string, 0, len(symbols))
	for _, s := range symbols {
		list = append(list, strings.ToUpper(s))
	}

	var payload []minerstatCoin
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParam("list", strings.Join(list, ",")).
		SetResult(&payload).
		Get("/coins")
	if err != nil {
		return nil, unavailable(m.Name(), err)
	}
	if resp.StatusCode() != 200 {
		return nil, unavailablef(m.Name(), "status %d", resp.StatusCode())
	}
	if len(payload) == 0 {
		return nil, unavailablef(m.Name(), "empty coin list")
	}

	out := make(map[string]models.NetworkSnapshot, len(payload))
	for _, c := range payload {
		cfg, ok := coins.Get(c.Coin)
		if !ok {
			continue
		}
		// Minerstat reports -1 for metrics it could not determine.
		if c.NetworkHashrate < 0 || c.Difficulty < 0 {
			continue
		}
		observed := time.Now()
		if c.Updated > 0 {
			observed = time.Unix(c.Updated, 0)
		}
		out[cfg.Symbol] = models.NetworkSnapshot{
			Symbol:     cfg.Symbol,
			Name:       cfg.Name,
			Hashrate:   coins.FromRawHashrate(c.NetworkHashrate, cfg.Unit),
			Unit:       cfg.Unit,
			Difficulty: c.Difficulty,
			PriceUsd:   c.Price,
			ObservedAt: observed,
		}
	}
	if len(out) == 0 {
		return nil, unavailablef(m.Name(), "no usable coins in response")
	}
	return out, nil
}

var _ BatchSource = (*Minerstat)(nil)

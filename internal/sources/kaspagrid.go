package sources

import (
	"context"
	"strings"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/models"

	"github.com/go-resty/resty/v2"
)

// KaspaGrid wraps the official api.kaspa.org node API. Hashrate arrives in
// TH/s; the API has no difficulty endpoint, so difficulty stays zero and the
// resolver fills it from the designated authority when one succeeded.
type KaspaGrid struct {
	client *resty.Client
}

func NewKaspaGrid(baseURL string, timeout time.Duration) *KaspaGrid {
	return &KaspaGrid{client: newClient(baseURL, timeout)}
}

func (k *KaspaGrid) Name() string { return "kaspagrid" }

func (k *KaspaGrid) Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error) {
	if !strings.EqualFold(symbol, "KAS") {
		return models.NetworkSnapshot{}, unavailablef(k.Name(), "unsupported coin %s", symbol)
	}
	cfg, _ := coins.Get("KAS")

	var payload struct {
		Hashrate float64 `json:"hashrate"`
	}
	resp, err := k.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/info/hashrate")
	if err != nil {
		return models.NetworkSnapshot{}, unavailable(k.Name(), err)
	}
	if resp.StatusCode() != 200 {
		return models.NetworkSnapshot{}, unavailablef(k.Name(), "status %d", resp.StatusCode())
	}
	if payload.Hashrate <= 0 {
		return models.NetworkSnapshot{}, unavailablef(k.Name(), "hashrate not positive")
	}

	return models.NetworkSnapshot{
		Symbol:     cfg.Symbol,
		Name:       cfg.Name,
		Hashrate:   coins.FromRawHashrate(payload.Hashrate*1e12, cfg.Unit), // API reports TH/s
		Unit:       cfg.Unit,
		ObservedAt: time.Now(),
	}, nil
}

var _ Source = (*KaspaGrid)(nil)

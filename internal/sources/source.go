package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hashwatch/internal/models"

	"github.com/go-resty/resty/v2"
)

// ErrSourceUnavailable is the single failure mode a source may surface.
// Network errors, timeouts, non-2xx statuses and malformed bodies all map to
// it; provider-specific error shapes never leak past the adapter boundary.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source normalizes one external provider into the canonical snapshot shape.
// Implementations are stateless and safe to call concurrently.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (models.NetworkSnapshot, error)
}

// BatchSource additionally fetches many coins in one upstream call. Symbols
// absent from the provider response are simply absent from the map.
type BatchSource interface {
	Source
	FetchBatch(ctx context.Context, symbols []string) (map[string]models.NetworkSnapshot, error)
}

func newClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "hashwatch/1.0")
	return client
}

// unavailable wraps a provider failure so errors.Is(err, ErrSourceUnavailable)
// holds while the cause stays visible in logs.
func unavailable(source string, cause error) error {
	return fmt.Errorf("%s: %w: %v", source, ErrSourceUnavailable, cause)
}

func unavailablef(source, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", source, ErrSourceUnavailable, fmt.Sprintf(format, args...))
}

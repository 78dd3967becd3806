package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/history"
	"hashwatch/internal/models"
	"hashwatch/internal/resolver"
	"hashwatch/internal/trend"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// historyCacheControl keeps the history endpoints cheap for CDNs; these are
// public read-only payloads refreshed every few hours.
const historyCacheControl = "public, s-maxage=300, stale-while-revalidate=600"

type APIHandler struct {
	store *history.Store
	res   *resolver.Resolver
	log   zerolog.Logger

	// aggregate response cache, keyed implicitly by the full coin set
	cacheTTL time.Duration
	cacheMu  sync.Mutex
	cached   []models.NetworkSnapshot
	cachedAt time.Time
}

func SetupRoutes(r *gin.RouterGroup, store *history.Store, res *resolver.Resolver, cacheTTL time.Duration, log zerolog.Logger) *APIHandler {
	handler := &APIHandler{
		store:    store,
		res:      res,
		log:      log,
		cacheTTL: cacheTTL,
	}

	r.GET("/networks", handler.GetNetworks)
	r.GET("/networks/:symbol", handler.GetNetwork)
	r.GET("/history", handler.GetHistoryIndex)
	r.GET("/history/:symbol", handler.GetHistory)

	return handler
}

// GetNetworks: GET /api/v1/networks
// Fans out to the resolver for every configured coin in parallel. A coin
// whose mining sources are all down is omitted, not fatal; only an empty
// result is a 500.
func (h *APIHandler) GetNetworks(c *gin.Context) {
	data := h.aggregate(c)
	if len(data) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch network data",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UnixMilli(),
	})
}

// GetNetwork: GET /api/v1/networks/:symbol
func (h *APIHandler) GetNetwork(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if !coins.IsSupported(symbol) {
		c.JSON(http.StatusNotFound, gin.H{
			"success":        false,
			"error":          "Unknown coin: " + c.Param("symbol"),
			"supportedCoins": coins.Symbols(),
		})
		return
	}

	for _, snap := range h.aggregate(c) {
		if snap.Symbol == symbol {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"data":      snap,
				"timestamp": time.Now().UnixMilli(),
			})
			return
		}
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error":   "Data temporarily unavailable for " + symbol,
	})
}

// GetHistoryIndex: GET /api/v1/history
func (h *APIHandler) GetHistoryIndex(c *gin.Context) {
	c.Header("Cache-Control", historyCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"coins":     h.store.Summaries(),
		"timestamp": time.Now().UnixMilli(),
	})
}

// GetHistory: GET /api/v1/history/:symbol?days=N&format=full|compact
func (h *APIHandler) GetHistory(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if !coins.IsSupported(symbol) {
		c.JSON(http.StatusNotFound, gin.H{
			"success":        false,
			"error":          "Unknown coin: " + c.Param("symbol"),
			"supportedCoins": coins.Symbols(),
		})
		return
	}

	days := 0
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	format := c.DefaultQuery("format", "full")

	header, full, err := h.store.ReadAll(symbol)
	if err != nil {
		if !errors.Is(err, history.ErrNoHistory) {
			// A broken backing store reads the same as no data, but is logged.
			h.log.Error().Str("coin", symbol).Err(err).Msg("history read failed")
		}
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "No data available for " + symbol,
			"message": "Data collection may not have started yet. Check back after the next update.",
		})
		return
	}

	series := filterDays(full, days)
	current := currentStats(full)
	c.Header("Cache-Control", historyCacheControl)

	if format == "compact" {
		timestamps := make([]int64, len(series))
		hashrates := make([]float64, len(series))
		difficulties := make([]float64, len(series))
		prices := make([]float64, len(series))
		for i, e := range series {
			timestamps[i] = e.ObservedAt
			hashrates[i] = e.Hashrate
			difficulties[i] = e.Difficulty
			prices[i] = e.Price
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"coin":    symbol,
			"name":    header.Name,
			"current": current,
			"data": gin.H{
				"timestamps":   timestamps,
				"hashrates":    hashrates,
				"difficulties": difficulties,
				"prices":       prices,
			},
			"totalEntries": len(series),
		})
		return
	}

	entries := make([]gin.H, len(series))
	for i, e := range series {
		entries[i] = gin.H{
			"timestamp":  e.ObservedAt,
			"datetime":   time.Unix(e.ObservedAt, 0).UTC().Format(time.RFC3339),
			"hashrate":   e.Hashrate,
			"difficulty": e.Difficulty,
			"price":      e.Price,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"coin":            symbol,
		"name":            header.Name,
		"algorithm":       header.Algorithm,
		"blockTime":       header.BlockTime,
		"dataStarted":     header.DataStarted.UTC().Format(time.RFC3339),
		"lastUpdated":     header.LastUpdated.UTC().Format(time.RFC3339),
		"current":         current,
		"data":            entries,
		"totalEntries":    len(series),
		"updateFrequency": "Every 4 hours",
	})
}

func filterDays(series []models.HistoryEntry, days int) []models.HistoryEntry {
	if days <= 0 {
		return series
	}
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	for i, e := range series {
		if e.ObservedAt >= cutoff {
			return series[i:]
		}
	}
	return []models.HistoryEntry{}
}

// currentStats builds the latest-snapshot block served next to a history
// series: last readings plus 7/30/90 day hashrate change.
func currentStats(full []models.HistoryEntry) gin.H {
	charting := history.Charting(full)
	if len(charting) == 0 {
		return gin.H{}
	}
	latest := charting[len(charting)-1]
	snap := models.NetworkSnapshot{
		Hashrate:   latest.Hashrate,
		ObservedAt: time.Unix(latest.ObservedAt, 0),
	}
	return gin.H{
		"hashrate":   latest.Hashrate,
		"difficulty": latest.Difficulty,
		"price":      latest.Price,
		"change7d":   trend.Change(charting, snap, 7),
		"change30d":  trend.Change(charting, snap, 30),
		"change90d":  trend.Change(charting, snap, 90),
	}
}

// aggregate resolves every configured coin concurrently, attaching trend
// figures from stored history. Results keep the static config order and the
// whole payload is cached briefly to bound upstream load.
func (h *APIHandler) aggregate(c *gin.Context) []models.NetworkSnapshot {
	h.cacheMu.Lock()
	if h.cached != nil && time.Since(h.cachedAt) < h.cacheTTL {
		data := h.cached
		h.cacheMu.Unlock()
		return data
	}
	h.cacheMu.Unlock()

	cfgs := coins.All()
	results := make([]*models.NetworkSnapshot, len(cfgs))
	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			snap, err := h.res.Resolve(c.Request.Context(), symbol)
			if err != nil {
				h.log.Error().Str("coin", symbol).Err(err).Msg("coin excluded from aggregate")
				return
			}
			if _, series, err := h.store.ReadAll(symbol); err == nil {
				charting := history.Charting(series)
				snap.Change7d = trend.Change(charting, snap, 7)
				snap.Change30d = trend.Change(charting, snap, 30)
				snap.Change90d = trend.Change(charting, snap, 90)
			}
			results[i] = &snap
		}(i, cfg.Symbol)
	}
	wg.Wait()

	data := make([]models.NetworkSnapshot, 0, len(results))
	for _, r := range results {
		if r != nil {
			data = append(data, *r)
		}
	}
	if len(data) == 0 {
		return nil
	}

	h.cacheMu.Lock()
	h.cached = data
	h.cachedAt = time.Now()
	h.cacheMu.Unlock()
	return data
}

// Package trend computes percentage change of network hashrate over fixed
// lookback windows. Pure functions, no I/O.
package trend

import (
	"time"

	"hashwatch/internal/models"
)

// Windows are the lookbacks surfaced by the API.
var Windows = []int{7, 30, 90}

// Change returns the percent change of the current hashrate against the
// series entry closest at or before now-windowDays.
//
// Policy for short series: when nothing reaches back far enough, the oldest
// usable entry is the comparison point. Entries with zero hashrate are
// ignored, and a zero past value yields 0 rather than dividing by it.
func Change(series []models.HistoryEntry, current models.NetworkSnapshot, windowDays int) float64 {
	if len(series) == 0 || windowDays <= 0 {
		return 0
	}

	now := current.ObservedAt
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour).Unix()

	// Series is sorted ascending; walk from the end to the last entry at or
	// before the cutoff, skipping gaps where collection produced no hashrate.
	var past *models.HistoryEntry
	for i := len(series) - 1; i >= 0; i-- {
		e := series[i]
		if e.Hashrate <= 0 {
			continue
		}
		if e.ObservedAt <= cutoff {
			past = &e
			break
		}
		// Track the oldest usable entry as the fallback.
		past = &e
	}
	if past == nil || past.Hashrate == 0 {
		return 0
	}
	return ((current.Hashrate - past.Hashrate) / past.Hashrate) * 100
}

// Changes computes the standard window set in one pass.
func Changes(series []models.HistoryEntry, current models.NetworkSnapshot) []models.TrendWindow {
	out := make([]models.TrendWindow, 0, len(Windows))
	for _, w := range Windows {
		out = append(out, models.TrendWindow{WindowDays: w, PctChange: Change(series, current, w)})
	}
	return out
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package ingest

import (
	"strconv"
	"strings"
)

// Summary reports what the cleaning pass did to a raw dataset.
type Summary struct {
	RowsRead         int `json:"rows_read"`
	Kept             int `json:"kept"`
	DroppedMissing   int `json:"dropped_missing"`
	DroppedBadRating int `json:"dropped_bad_rating"`
	DroppedBadPrice  int `json:"dropped_bad_price"`
	DroppedDuplicate int `json:"dropped_duplicate"`
}

// parseRating extracts a numeric rating from raw dataset values such as
// "4.1/5", "4.1 /5" or plain "4.1". Placeholder values ("NEW", "-", empty)
// and ratings outside [0, 5] are rejected.
func parseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "NEW") || raw == "-" {
		return 0, false
	}
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil || rating < 0 || rating > 5 {
		return 0, false
	}
	return rating, true
}

// parsePrice parses a price value, stripping thousands separators. When
// forTwo is set the source column holds the approximate cost for two
// people, so the value is halved to a per-person price. Negative prices
// are rejected.
func parsePrice(raw string, forTwo bool) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return 0, false
	}
	if forTwo {
		price /= 2
	}
	return price, true
}

// normalizeCuisine reduces a comma-separated cuisine list to its primary
// entry, trimmed and lowercased. "North Indian, Chinese" becomes
// "north indian".
func normalizeCuisine(raw string) string {
	if idx := strings.Index(raw, ","); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeLocation trims and lowercases a location value.
func normalizeLocation(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

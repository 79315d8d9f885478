// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"strings"

	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/models"
)

// Enricher joins shortlist entries back against full candidate records.
// It never fails; a name with no matching candidate degrades to a bare
// entry carrying a note instead of erroring.
type Enricher struct{}

// NewEnricher builds an Enricher.
func NewEnricher() *Enricher {
	return &Enricher{}
}

// Enrich resolves each shortlist item against the candidates, in order,
// stopping once limit entries have been emitted. Deduplication is
// two-tier: the bare lowercased name is a fast pre-check, then the
// (name, location) identity is the authoritative key once a record is
// matched. This keeps the same physical restaurant from surfacing twice
// even when the model produced a near-duplicate name.
func (e *Enricher) Enrich(shortlist []models.RecommendationItem, candidates []models.Restaurant, limit int) []models.EnrichedRecommendation {
	lookup := make(map[string]models.Restaurant, len(candidates))
	for _, r := range candidates {
		key := strings.ToLower(r.Name)
		if _, ok := lookup[key]; !ok {
			lookup[key] = r
		}
	}

	seenNames := make(map[string]bool, len(shortlist))
	seenIdentity := make(map[models.RestaurantIdentity]bool, len(shortlist))
	enriched := make([]models.EnrichedRecommendation, 0, len(shortlist))

	for _, item := range shortlist {
		if limit > 0 && len(enriched) >= limit {
			break
		}

		nameKey := strings.ToLower(item.Name)
		if seenNames[nameKey] {
			logging.Debug().Str("name", item.Name).Msg("Skipping duplicate shortlist entry")
			continue
		}

		record, ok := lookup[nameKey]
		if !ok {
			seenNames[nameKey] = true
			enriched = append(enriched, models.EnrichedRecommendation{
				Name:        item.Name,
				Explanation: item.Explanation,
				Note:        models.NoteDetailsUnavailable,
			})
			continue
		}

		id := record.Identity()
		if seenIdentity[id] {
			continue
		}
		seenNames[nameKey] = true
		seenIdentity[id] = true

		rating := record.Rating
		price := record.Price
		enriched = append(enriched, models.EnrichedRecommendation{
			Name:        record.Name,
			Cuisine:     record.Cuisine,
			Location:    record.Location,
			Rating:      &rating,
			Price:       &price,
			Explanation: item.Explanation,
		})
	}

	return enriched
}

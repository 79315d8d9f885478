// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"context"
	"fmt"

	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/models"
)

// Store is the read surface the engine needs from the restaurant store.
// It must be safe for concurrent use and must return an empty slice, not
// an error, when nothing matches.
type Store interface {
	FilterRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error)
	Stats(ctx context.Context) (models.StoreStats, error)
	Ping(ctx context.Context) error
}

// Retriever turns normalized preferences into a bounded, deduplicated
// candidate list. It retrieves up to workingLimit rows so the ranking step
// has a larger pool than the user-requested limit to choose from.
type Retriever struct {
	store        Store
	workingLimit int
}

// NewRetriever builds a Retriever. A workingLimit below the maximum
// requestable limit is raised to it.
func NewRetriever(store Store, workingLimit int) *Retriever {
	if workingLimit < MaxLimit {
		workingLimit = MaxLimit
	}
	return &Retriever{store: store, workingLimit: workingLimit}
}

// Retrieve applies each present preference as a conjunctive filter and
// deduplicates the result by (name, location) identity, keeping the first,
// highest-ranked occurrence.
func (r *Retriever) Retrieve(ctx context.Context, prefs models.PreferenceSet) ([]models.Restaurant, error) {
	filter := models.RestaurantFilter{
		Cuisine:   prefs.Cuisine,
		Location:  prefs.Location,
		MinRating: prefs.MinRating,
		MaxPrice:  prefs.MaxPrice,
		Limit:     r.workingLimit,
	}

	restaurants, err := r.store.FilterRestaurants(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("candidate retrieval failed: %w", err)
	}

	seen := make(map[models.RestaurantIdentity]bool, len(restaurants))
	candidates := restaurants[:0]
	for _, restaurant := range restaurants {
		id := restaurant.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, restaurant)
	}

	if dropped := len(restaurants) - len(candidates); dropped > 0 {
		logging.Debug().Int("dropped", dropped).Msg("Deduplicated candidate list")
	}
	return candidates, nil
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/plateful/plateful/internal/config"
	"github.com/plateful/plateful/internal/models"
)

// mockStore implements Store over an in-memory slice, mirroring the real
// store's filter and ordering semantics.
type mockStore struct {
	restaurants []models.Restaurant
	filterErr   error
	statsErr    error
	filterCalls int
	lastFilter  models.RestaurantFilter
}

func (m *mockStore) FilterRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error) {
	m.filterCalls++
	m.lastFilter = filter
	if m.filterErr != nil {
		return nil, m.filterErr
	}

	matched := []models.Restaurant{}
	for _, r := range m.restaurants {
		if filter.Cuisine != nil && !strings.Contains(strings.ToLower(r.Cuisine), strings.ToLower(*filter.Cuisine)) {
			continue
		}
		if filter.Location != nil && !strings.Contains(strings.ToLower(r.Location), strings.ToLower(*filter.Location)) {
			continue
		}
		if filter.MinRating != nil && r.Rating < *filter.MinRating {
			continue
		}
		if filter.MaxPrice != nil && r.Price > *filter.MaxPrice {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].Price < matched[j].Price
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *mockStore) Stats(ctx context.Context) (models.StoreStats, error) {
	if m.statsErr != nil {
		return models.StoreStats{}, m.statsErr
	}
	cuisines := make(map[string]bool)
	locations := make(map[string]bool)
	for _, r := range m.restaurants {
		cuisines[r.Cuisine] = true
		locations[r.Location] = true
	}
	return models.StoreStats{
		TotalRestaurants: len(m.restaurants),
		UniqueCuisines:   len(cuisines),
		UniqueLocations:  len(locations),
	}, nil
}

func (m *mockStore) Ping(ctx context.Context) error { return nil }

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		DefaultLimit: 10,
		WorkingLimit: 100,
		MaxRetries:   3,
		RetryDelay:   time.Millisecond,
	}
}

func scenarioStore() *mockStore {
	return &mockStore{restaurants: []models.Restaurant{
		{Name: "Luigi's", Cuisine: "italian", Location: "downtown", Rating: 4.5, Price: 40},
		{Name: "Mario's", Cuisine: "italian", Location: "uptown", Rating: 4.2, Price: 30},
		{Name: "Trattoria", Cuisine: "italian", Location: "midtown", Rating: 3.9, Price: 25},
		{Name: "Golden Dragon", Cuisine: "chinese", Location: "downtown", Rating: 4.8, Price: 35},
		{Name: "Taqueria", Cuisine: "mexican", Location: "uptown", Rating: 4.1, Price: 15},
	}}
}

func TestGetRecommendationsValidationFailure(t *testing.T) {
	engine := NewEngine(scenarioStore(), nil, testEngineConfig())

	result, err := engine.GetRecommendations(context.Background(), map[string]any{
		"min_rating": 7.5,
	})
	if err != nil {
		t.Fatalf("validation failure must not be an engine error: %v", err)
	}
	if result.Success {
		t.Fatal("expected Success=false")
	}
	if result.Error != "Invalid preferences" {
		t.Errorf("Error = %q", result.Error)
	}
	if len(result.Details) != 1 || !strings.Contains(result.Details[0], "between 0.0 and 5.0") {
		t.Errorf("Details = %v", result.Details)
	}
}

func TestGetRecommendationsScenarioItalian(t *testing.T) {
	// 3 italian restaurants rated [4.5, 4.2, 3.9]; min_rating 4.0 keeps 2.
	store := scenarioStore()
	engine := NewEngine(store, nil, testEngineConfig())

	result, err := engine.GetRecommendations(context.Background(), map[string]any{
		"cuisine":    "italian",
		"min_rating": 4.0,
		"limit":      5,
	})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success=false: %+v", result)
	}
	if result.TotalFound != 2 {
		t.Errorf("TotalFound = %d, want 2", result.TotalFound)
	}
	if result.Returned > 2 || result.Returned != len(result.Recommendations) {
		t.Errorf("Returned = %d with %d recommendations", result.Returned, len(result.Recommendations))
	}
	if store.lastFilter.Limit != 100 {
		t.Errorf("retrieval limit = %d, want working limit 100", store.lastFilter.Limit)
	}
	want := map[string]any{"cuisine": "italian", "min_rating": 4.0, "limit": 5}
	if !reflect.DeepEqual(result.FiltersApplied, want) {
		t.Errorf("FiltersApplied = %v, want %v", result.FiltersApplied, want)
	}
}

func TestGetRecommendationsNoMatches(t *testing.T) {
	engine := NewEngine(scenarioStore(), nil, testEngineConfig())

	result, err := engine.GetRecommendations(context.Background(), map[string]any{
		"cuisine": "klingon",
		"limit":   10,
	})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if !result.Success {
		t.Fatal("no matches must still succeed")
	}
	if result.TotalFound != 0 || result.Returned != 0 || len(result.Recommendations) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Message == "" {
		t.Error("expected a human-facing message for empty results")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("unknown cuisine should warn, got %v", result.Warnings)
	}
}

func TestGetRecommendationsStoreFailure(t *testing.T) {
	store := scenarioStore()
	store.filterErr = errors.New("disk I/O error")
	engine := NewEngine(store, nil, testEngineConfig())

	_, err := engine.GetRecommendations(context.Background(), map[string]any{"cuisine": "italian"})
	if err == nil {
		t.Fatal("store failure must propagate as an engine error")
	}
}

func TestGetRecommendationsLLMFailureFallsBack(t *testing.T) {
	completer := &mockCompleter{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	engine := NewEngine(scenarioStore(), completer, testEngineConfig())

	result, err := engine.GetRecommendations(context.Background(), map[string]any{
		"cuisine": "italian",
		"limit":   2,
	})
	if err != nil {
		t.Fatalf("LLM failure must never fail the request: %v", err)
	}
	if !result.Success || result.Returned != 2 {
		t.Fatalf("result = %+v", result)
	}
	// Fallback order: rating descending.
	if result.Recommendations[0].Name != "Luigi's" {
		t.Errorf("first recommendation = %q, want Luigi's", result.Recommendations[0].Name)
	}
}

func TestGetRecommendationsEnrichesLLMOutput(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`[{"name": "mario's", "explanation": "Cozy"}, {"name": "Invented Place", "explanation": "Made up"}]`,
	}}
	engine := NewEngine(scenarioStore(), completer, testEngineConfig())

	result, err := engine.GetRecommendations(context.Background(), map[string]any{"cuisine": "italian"})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if result.Returned != 2 {
		t.Fatalf("Returned = %d: %+v", result.Returned, result)
	}
	if result.Recommendations[0].Name != "Mario's" || result.Recommendations[0].Rating == nil {
		t.Errorf("matched entry not enriched: %+v", result.Recommendations[0])
	}
	if result.Recommendations[1].Note != models.NoteDetailsUnavailable {
		t.Errorf("unmatched entry missing note: %+v", result.Recommendations[1])
	}
}

func TestGetRecommendationsIdempotent(t *testing.T) {
	engine := NewEngine(scenarioStore(), nil, testEngineConfig())
	raw := map[string]any{"cuisine": "italian", "min_rating": 4.0}

	first, err := engine.GetRecommendations(context.Background(), raw)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := engine.GetRecommendations(context.Background(), raw)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.TotalFound != second.TotalFound {
		t.Errorf("TotalFound changed: %d vs %d", first.TotalFound, second.TotalFound)
	}
	if !reflect.DeepEqual(first.FiltersApplied, second.FiltersApplied) {
		t.Errorf("FiltersApplied changed: %v vs %v", first.FiltersApplied, second.FiltersApplied)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy store, no llm", func(t *testing.T) {
		engine := NewEngine(scenarioStore(), nil, testEngineConfig())
		health := engine.HealthCheck(context.Background())
		if health.Status != models.HealthHealthy {
			t.Errorf("Status = %q", health.Status)
		}
		if health.Database != models.HealthHealthy {
			t.Errorf("Database = %q", health.Database)
		}
		if health.LLMService != models.HealthNotConfigured {
			t.Errorf("LLMService = %q", health.LLMService)
		}
		if health.DatabaseStats == nil || health.DatabaseStats.TotalRestaurants != 5 {
			t.Errorf("DatabaseStats = %+v", health.DatabaseStats)
		}
	})

	t.Run("empty store is degraded", func(t *testing.T) {
		engine := NewEngine(&mockStore{}, nil, testEngineConfig())
		health := engine.HealthCheck(context.Background())
		if health.Database != models.HealthUnhealthy {
			t.Errorf("Database = %q", health.Database)
		}
		if health.Status != models.HealthDegraded {
			t.Errorf("Status = %q", health.Status)
		}
		if health.DatabaseError == "" {
			t.Error("expected a database error message")
		}
	})

	t.Run("stats failure is degraded", func(t *testing.T) {
		store := scenarioStore()
		store.statsErr = errors.New("corrupt file")
		engine := NewEngine(store, nil, testEngineConfig())
		health := engine.HealthCheck(context.Background())
		if health.Status != models.HealthDegraded || health.Database != models.HealthUnhealthy {
			t.Errorf("health = %+v", health)
		}
	})

	t.Run("llm unreachable stays healthy overall", func(t *testing.T) {
		completer := &mockCompleter{pingErr: errors.New("401 unauthorized")}
		engine := NewEngine(scenarioStore(), completer, testEngineConfig())
		health := engine.HealthCheck(context.Background())
		if health.LLMService != models.HealthUnhealthy {
			t.Errorf("LLMService = %q", health.LLMService)
		}
		if health.Status != models.HealthHealthy {
			t.Errorf("Status = %q, LLM degradation must not fail the system", health.Status)
		}
	})

	t.Run("llm reachable", func(t *testing.T) {
		engine := NewEngine(scenarioStore(), &mockCompleter{}, testEngineConfig())
		health := engine.HealthCheck(context.Background())
		if health.LLMService != models.HealthHealthy {
			t.Errorf("LLMService = %q", health.LLMService)
		}
	})
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Package models defines the shared domain types for Plateful: restaurant
// records, preference sets, validation results, and the recommendation
// result envelope consumed by the HTTP layer.
package models

import "strings"

// Restaurant is a single restaurant record as stored in the database.
// Cuisine and location are stored lowercase by the ingestion pipeline.
type Restaurant struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Cuisine  string  `json:"cuisine"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating"`
	Price    float64 `json:"price"`
	Address  string  `json:"address,omitempty"`
}

// Identity returns the deduplication key for a restaurant: the pair
// (lowercased name, lowercased location). Two records with the same
// identity describe the same physical restaurant.
func (r Restaurant) Identity() RestaurantIdentity {
	return RestaurantIdentity{
		Name:     strings.ToLower(r.Name),
		Location: strings.ToLower(r.Location),
	}
}

// RestaurantIdentity is the (name, location) pair used for deduplication.
// It is a comparable struct so it can key a map directly.
type RestaurantIdentity struct {
	Name     string
	Location string
}

// RestaurantFilter holds the conjunctive predicates applied by the store.
// Nil pointer fields mean "filter not applied".
type RestaurantFilter struct {
	Cuisine   *string
	Location  *string
	MinRating *float64
	MaxPrice  *float64
	Limit     int
}

// StoreStats summarizes the restaurant corpus.
type StoreStats struct {
	TotalRestaurants int `json:"total_restaurants"`
	UniqueCuisines   int `json:"unique_cuisines"`
	UniqueLocations  int `json:"unique_locations"`
}

// PreferenceSet is a validated, normalized set of user filters. Pointer
// fields are nil when the user did not supply the preference; Limit always
// carries a value, with LimitDefaulted reporting whether it came from the
// user or from configuration.
type PreferenceSet struct {
	Cuisine        *string
	Location       *string
	MinRating      *float64
	MaxPrice       *float64
	Limit          int
	LimitDefaulted bool
}

// Map converts the preference set back into the raw map form accepted by
// the preference processor. Re-validating the result of a successful
// validation yields the same normalized set.
func (p PreferenceSet) Map() map[string]any {
	m := make(map[string]any)
	if p.Cuisine != nil {
		m["cuisine"] = *p.Cuisine
	}
	if p.Location != nil {
		m["location"] = *p.Location
	}
	if p.MinRating != nil {
		m["min_rating"] = *p.MinRating
	}
	if p.MaxPrice != nil {
		m["max_price"] = *p.MaxPrice
	}
	if !p.LimitDefaulted {
		m["limit"] = p.Limit
	}
	return m
}

// FilterSummary returns the human-facing subset of applied filters for the
// result envelope. Unset fields are omitted, and limit is omitted when it
// was defaulted rather than user-supplied.
func (p PreferenceSet) FilterSummary() map[string]any {
	summary := make(map[string]any)
	if p.Cuisine != nil {
		summary["cuisine"] = *p.Cuisine
	}
	if p.Location != nil {
		summary["location"] = *p.Location
	}
	if p.MinRating != nil {
		summary["min_rating"] = *p.MinRating
	}
	if p.MaxPrice != nil {
		summary["max_price"] = *p.MaxPrice
	}
	if !p.LimitDefaulted {
		summary["limit"] = p.Limit
	}
	return summary
}

// ValidationResult reports the outcome of preference validation. It is
// constructed once per request and immutable after construction. Warnings
// never affect IsValid.
type ValidationResult struct {
	IsValid    bool
	Errors     []string
	Warnings   []string
	Normalized PreferenceSet
}

// RecommendationItem is a single ranked entry produced by the LLM or the
// fallback ranker, before enrichment.
type RecommendationItem struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package models

// NoteDetailsUnavailable marks an enriched recommendation whose name could
// not be matched back to a candidate record.
const NoteDetailsUnavailable = "Full details not available"

// EnrichedRecommendation is a shortlist entry joined back against the full
// candidate record. When no candidate matched the recommended name, only
// Name, Explanation and Note are set.
type EnrichedRecommendation struct {
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine,omitempty"`
	Location    string   `json:"location,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Explanation string   `json:"explanation"`
	Note        string   `json:"note,omitempty"`
}

// Identity returns the deduplication key for an enriched entry.
func (e EnrichedRecommendation) Identity() RestaurantIdentity {
	return Restaurant{Name: e.Name, Location: e.Location}.Identity()
}

// RecommendationResult is the engine's result envelope. On validation
// failure Success is false and Details carries the field-level messages; on
// success Recommendations holds up to the requested limit of entries.
type RecommendationResult struct {
	Success         bool                     `json:"success"`
	Recommendations []EnrichedRecommendation `json:"recommendations"`
	TotalFound      int                      `json:"total_found"`
	Returned        int                      `json:"returned"`
	FiltersApplied  map[string]any           `json:"filters_applied,omitempty"`
	Warnings        []string                 `json:"warnings"`
	Message         string                   `json:"message,omitempty"`
	Error           string                   `json:"error,omitempty"`
	Details         []string                 `json:"details,omitempty"`
}

// Component health values reported by HealthStatus.
const (
	HealthHealthy       = "healthy"
	HealthUnhealthy     = "unhealthy"
	HealthDegraded      = "degraded"
	HealthNotConfigured = "not_configured"
)

// HealthStatus aggregates the health of the engine's collaborators. The
// overall Status is healthy iff the database is healthy; LLM degradation
// alone never fails the system because the fallback ranker keeps it
// functioning.
type HealthStatus struct {
	Status        string      `json:"status"`
	Database      string      `json:"database"`
	LLMService    string      `json:"llm_service"`
	DatabaseStats *StoreStats `json:"database_stats,omitempty"`
	DatabaseError string      `json:"database_error,omitempty"`
	LLMError      string      `json:"llm_error,omitempty"`
}

// APIError is the structured error carried by HTTP error responses.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/plateful/plateful/internal/database"
	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/models"
	"github.com/plateful/plateful/internal/recommend"
	"github.com/plateful/plateful/internal/validation"
)

// maxRequestBody bounds the recommendations request body.
const maxRequestBody = 1 << 20

// Store extends the engine's read surface with the direct name lookup used
// by the restaurant detail endpoint.
type Store interface {
	recommend.Store
	GetRestaurantByName(ctx context.Context, name string) (*models.Restaurant, error)
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	engine *recommend.Engine
	store  Store
}

// NewHandler creates a Handler.
func NewHandler(engine *recommend.Engine, store Store) *Handler {
	return &Handler{engine: engine, store: store}
}

// Root godoc
//
//	@Summary		Service information
//	@Description	Returns service name and API version
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/ [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "plateful",
		"version": "v1",
		"docs":    "/swagger/index.html",
	})
}

// Recommendations godoc
//
//	@Summary		Get restaurant recommendations
//	@Description	Runs the recommendation pipeline over a preference map. Unknown keys are ignored.
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			preferences	body		map[string]interface{}	true	"Preference map: cuisine, location, min_rating, max_price, limit"
//	@Success		200			{object}	models.RecommendationResult
//	@Failure		400			{object}	models.RecommendationResult
//	@Failure		500			{object}	errorResponse
//	@Router			/api/v1/recommendations [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "Failed to read request body")
		return
	}

	var raw map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			respondJSON(w, http.StatusBadRequest, models.RecommendationResult{
				Success:         false,
				Recommendations: []models.EnrichedRecommendation{},
				Error:           "Invalid request body",
				Details:         []string{"Request body must be a JSON object"},
				Warnings:        []string{},
			})
			return
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	result, err := h.engine.GetRecommendations(r.Context(), raw)
	if err != nil {
		logging.Err(err).Msg("Recommendation pipeline failed")
		respondError(w, http.StatusInternalServerError, "internal_error",
			"Failed to generate recommendations")
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, result)
}

// restaurantQuery carries the typed query parameters for listing
// restaurants directly, bypassing the recommendation pipeline.
type restaurantQuery struct {
	Cuisine   string   `validate:"omitempty,min=1"`
	Location  string   `validate:"omitempty,min=1"`
	MinRating *float64 `validate:"omitempty,gte=0,lte=5"`
	MaxPrice  *float64 `validate:"omitempty,gte=0,lte=10000"`
	Limit     int      `validate:"min=1,max=100"`
}

// Restaurants godoc
//
//	@Summary		List restaurants
//	@Description	Filters the restaurant corpus directly without ranking
//	@Tags			restaurants
//	@Produce		json
//	@Param			cuisine		query		string	false	"Cuisine substring filter"
//	@Param			location	query		string	false	"Location substring filter"
//	@Param			min_rating	query		number	false	"Minimum rating (0-5)"
//	@Param			max_price	query		number	false	"Maximum price"
//	@Param			limit		query		int		false	"Maximum rows (1-100, default 20)"
//	@Success		200			{object}	map[string]interface{}
//	@Failure		400			{object}	errorResponse
//	@Failure		500			{object}	errorResponse
//	@Router			/api/v1/restaurants [get]
func (h *Handler) Restaurants(w http.ResponseWriter, r *http.Request) {
	query, err := parseRestaurantQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if verr := validation.ValidateStruct(query); verr != nil {
		respondError(w, http.StatusBadRequest, "invalid_query", verr.Error())
		return
	}

	filter := models.RestaurantFilter{Limit: query.Limit}
	if query.Cuisine != "" {
		filter.Cuisine = &query.Cuisine
	}
	if query.Location != "" {
		filter.Location = &query.Location
	}
	filter.MinRating = query.MinRating
	filter.MaxPrice = query.MaxPrice

	restaurants, err := h.store.FilterRestaurants(r.Context(), filter)
	if err != nil {
		logging.Err(err).Msg("Restaurant listing failed")
		respondError(w, http.StatusInternalServerError, "internal_error",
			"Failed to list restaurants")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// parseRestaurantQuery decodes and type-checks the query string. Range
// checks are left to the validator tags.
func parseRestaurantQuery(r *http.Request) (restaurantQuery, error) {
	q := r.URL.Query()
	query := restaurantQuery{
		Cuisine:  q.Get("cuisine"),
		Location: q.Get("location"),
		Limit:    20,
	}

	if raw := q.Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("min_rating must be a number")
		}
		query.MinRating = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("max_price must be a number")
		}
		query.MaxPrice = &v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("limit must be an integer")
		}
		query.Limit = v
	}
	return query, nil
}

// RestaurantByName godoc
//
//	@Summary		Restaurant detail
//	@Description	Looks up a single restaurant by name, case-insensitively
//	@Tags			restaurants
//	@Produce		json
//	@Param			name	path		string	true	"Restaurant name"
//	@Success		200		{object}	models.Restaurant
//	@Failure		404		{object}	errorResponse
//	@Failure		500		{object}	errorResponse
//	@Router			/api/v1/restaurants/{name} [get]
func (h *Handler) RestaurantByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	restaurant, err := h.store.GetRestaurantByName(r.Context(), name)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "Restaurant not found")
		return
	}
	if err != nil {
		logging.Err(err).Str("name", name).Msg("Restaurant lookup failed")
		respondError(w, http.StatusInternalServerError, "internal_error",
			"Failed to look up restaurant")
		return
	}
	respondJSON(w, http.StatusOK, restaurant)
}

// Stats godoc
//
//	@Summary		Corpus statistics
//	@Description	Returns aggregate counts over the restaurant corpus
//	@Tags			restaurants
//	@Produce		json
//	@Success		200	{object}	models.StoreStats
//	@Failure		500	{object}	errorResponse
//	@Router			/api/v1/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		logging.Err(err).Msg("Stats query failed")
		respondError(w, http.StatusInternalServerError, "internal_error",
			"Failed to load statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Health godoc
//
//	@Summary		Aggregate health
//	@Description	Reports database and LLM health. Overall status is healthy iff the database is healthy.
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	models.HealthStatus
//	@Failure		503	{object}	models.HealthStatus
//	@Router			/api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := h.engine.HealthCheck(r.Context())
	status := http.StatusOK
	if health.Status != models.HealthHealthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, health)
}

// HealthLive godoc
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady godoc
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := h.engine.HealthCheck(r.Context())
	if health.Database != models.HealthHealthy {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Package recommend implements the recommendation pipeline: preference
// validation and normalization, candidate retrieval, LLM-assisted ranking
// with a deterministic fallback, and response enrichment. The Engine
// orchestrates the stages; each stage is an explicitly wired collaborator
// so tests can substitute any of them.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/plateful/plateful/internal/config"
	"github.com/plateful/plateful/internal/llm"
	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/metrics"
	"github.com/plateful/plateful/internal/models"
)

// Engine sequences the recommendation pipeline and exposes the aggregate
// health check. One Engine serves all requests; it holds no per-request
// state.
type Engine struct {
	processor *Processor
	retriever *Retriever
	generator *Generator
	enricher  *Enricher
	store     Store
	completer llm.Completer
}

// NewEngine wires the pipeline from configuration. completer may be nil
// when no LLM provider is configured; the engine then serves every request
// through the fallback ranker.
func NewEngine(store Store, completer llm.Completer, cfg config.EngineConfig) *Engine {
	return &Engine{
		processor: NewProcessor(cfg.DefaultLimit),
		retriever: NewRetriever(store, cfg.WorkingLimit),
		generator: NewGenerator(completer, cfg.MaxRetries, cfg.RetryDelay),
		enricher:  NewEnricher(),
		store:     store,
		completer: completer,
	}
}

// GetRecommendations runs the full pipeline over a raw preference map.
// Validation failures come back as a Success=false result, not an error.
// The returned error covers engine-level faults only: store failures and
// context cancellation.
func (e *Engine) GetRecommendations(ctx context.Context, raw map[string]any) (models.RecommendationResult, error) {
	validation := e.processor.Validate(raw)
	if !validation.IsValid {
		logging.Warn().Strs("errors", validation.Errors).Msg("Preference validation failed")
		return models.RecommendationResult{
			Success:         false,
			Recommendations: []models.EnrichedRecommendation{},
			Error:           "Invalid preferences",
			Details:         validation.Errors,
			Warnings:        validation.Warnings,
		}, nil
	}
	prefs := validation.Normalized

	candidates, err := e.retriever.Retrieve(ctx, prefs)
	if err != nil {
		return models.RecommendationResult{}, fmt.Errorf("recommendation pipeline failed: %w", err)
	}

	if len(candidates) == 0 {
		return models.RecommendationResult{
			Success:         true,
			Recommendations: []models.EnrichedRecommendation{},
			TotalFound:      0,
			Returned:        0,
			Message:         "No restaurants found matching your preferences",
			FiltersApplied:  prefs.FilterSummary(),
			Warnings:        validation.Warnings,
		}, nil
	}

	shortlist, err := e.generator.Generate(ctx, prefs, candidates, prefs.Limit)
	if err != nil {
		return models.RecommendationResult{}, fmt.Errorf("recommendation pipeline failed: %w", err)
	}

	enriched := e.enricher.Enrich(shortlist, candidates, prefs.Limit)
	metrics.RecommendationsReturned.Observe(float64(len(enriched)))

	logging.Info().
		Int("total_found", len(candidates)).
		Int("returned", len(enriched)).
		Msg("Recommendations generated")

	return models.RecommendationResult{
		Success:         true,
		Recommendations: enriched,
		TotalFound:      len(candidates),
		Returned:        len(enriched),
		FiltersApplied:  prefs.FilterSummary(),
		Warnings:        validation.Warnings,
	}, nil
}

// Stats returns aggregate counts over the restaurant corpus.
func (e *Engine) Stats(ctx context.Context) (models.StoreStats, error) {
	return e.store.Stats(ctx)
}

// HealthCheck aggregates collaborator health. The store must be reachable
// and non-empty to count as healthy. The LLM reports not_configured when
// absent. Overall status is healthy iff the store is healthy; LLM
// degradation alone never fails the system because the fallback ranker
// keeps it serving.
func (e *Engine) HealthCheck(ctx context.Context) models.HealthStatus {
	health := models.HealthStatus{}

	statsCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	stats, err := e.store.Stats(statsCtx)
	switch {
	case err != nil:
		health.Database = models.HealthUnhealthy
		health.DatabaseError = err.Error()
	case stats.TotalRestaurants == 0:
		health.Database = models.HealthUnhealthy
		health.DatabaseError = "No restaurants in database"
	default:
		health.Database = models.HealthHealthy
		health.DatabaseStats = &stats
	}

	if e.completer == nil {
		health.LLMService = models.HealthNotConfigured
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := e.completer.Ping(pingCtx); err != nil {
			health.LLMService = models.HealthUnhealthy
			health.LLMError = err.Error()
		} else {
			health.LLMService = models.HealthHealthy
		}
	}

	if health.Database == models.HealthHealthy {
		health.Status = models.HealthHealthy
	} else {
		health.Status = models.HealthDegraded
	}
	return health
}

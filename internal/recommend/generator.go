// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/plateful/plateful/internal/llm"
	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/metrics"
	"github.com/plateful/plateful/internal/models"
)

// genState is the generator's per-request state. Each request walks
// start -> llmAttempt -> (retry -> llmAttempt)* -> fallback as needed;
// success and empty-candidates are terminal without a named state.
type genState int

const (
	stateStart genState = iota
	stateLLMAttempt
	stateRetry
	stateFallback
)

// errNoValidItems marks a model response that decoded but contained zero
// usable recommendations. It is retryable like any transport failure.
var errNoValidItems = errors.New("response contained no valid recommendations")

// Generator produces a ranked shortlist from preferences and candidates,
// via the LLM when one is configured and via the deterministic fallback
// ranker otherwise or after retries are exhausted.
type Generator struct {
	completer  llm.Completer
	maxRetries int
	retryDelay time.Duration
}

// NewGenerator builds a Generator. A nil completer routes every request to
// the fallback ranker.
func NewGenerator(completer llm.Completer, maxRetries int, retryDelay time.Duration) *Generator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Generator{
		completer:  completer,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Generate runs the ranking state machine. The returned shortlist holds at
// most limit items; it is empty when candidates is empty (no LLM call is
// made). The only returned error is context cancellation during a backoff
// wait; LLM failures never propagate because the fallback cannot fail.
func (g *Generator) Generate(ctx context.Context, prefs models.PreferenceSet, candidates []models.Restaurant, limit int) ([]models.RecommendationItem, error) {
	state := stateStart
	attempt := 0

	for {
		switch state {
		case stateStart:
			if len(candidates) == 0 {
				return []models.RecommendationItem{}, nil
			}
			if g.completer == nil {
				logging.Debug().Msg("No LLM configured, using fallback ranking")
				state = stateFallback
				continue
			}
			state = stateLLMAttempt

		case stateLLMAttempt:
			shortlist, err := g.attemptLLM(ctx, prefs, candidates, limit)
			if err == nil {
				logging.Info().Int("count", len(shortlist)).Int("attempt", attempt+1).
					Msg("LLM ranking succeeded")
				return shortlist, nil
			}
			logging.Warn().Err(err).Int("attempt", attempt+1).Int("max_retries", g.maxRetries).
				Msg("LLM ranking attempt failed")
			state = stateRetry

		case stateRetry:
			if attempt >= g.maxRetries-1 {
				state = stateFallback
				continue
			}
			delay := g.retryDelay << attempt
			attempt++
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			state = stateLLMAttempt

		case stateFallback:
			metrics.FallbacksTotal.Inc()
			return g.fallback(candidates, limit), nil
		}
	}
}

// attemptLLM performs one completion call and parse. Transport errors and
// parse failures are reported identically; the caller decides retry policy.
func (g *Generator) attemptLLM(ctx context.Context, prefs models.PreferenceSet, candidates []models.Restaurant, limit int) ([]models.RecommendationItem, error) {
	content, err := g.completer.Complete(ctx, systemPrompt, buildUserPrompt(prefs, candidates, limit))
	if err != nil {
		metrics.LLMAttemptsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("completion call failed: %w", err)
	}

	shortlist, err := parseShortlist(content)
	if err != nil {
		metrics.LLMAttemptsTotal.WithLabelValues("parse_error").Inc()
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	metrics.LLMAttemptsTotal.WithLabelValues("success").Inc()
	return shortlist, nil
}

// rawItem tolerates non-string values so a malformed item is dropped
// instead of failing the whole response.
type rawItem struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// parseShortlist decodes a model response into recommendation items. It
// accepts either a bare JSON array or an object with a "recommendations"
// key. Items missing a non-empty name or explanation are dropped; a
// repeated name (case-insensitive) keeps the first occurrence. Zero valid
// items is a parse failure, not an empty result.
func parseShortlist(content string) ([]models.RecommendationItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("empty response")
	}

	var items []rawItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		var wrapped struct {
			Recommendations []rawItem `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, fmt.Errorf("response is neither an array nor a recommendations object: %w", err)
		}
		items = wrapped.Recommendations
	}

	seen := make(map[string]bool, len(items))
	shortlist := make([]models.RecommendationItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		explanation := strings.TrimSpace(item.Explanation)
		if name == "" || explanation == "" {
			logging.Warn().Str("name", item.Name).Msg("Skipping invalid recommendation item")
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			logging.Debug().Str("name", name).Msg("Skipping duplicate recommendation item")
			continue
		}
		seen[key] = true
		shortlist = append(shortlist, models.RecommendationItem{
			Name:        name,
			Explanation: explanation,
		})
	}

	if len(shortlist) == 0 {
		return nil, errNoValidItems
	}
	return shortlist, nil
}

// fallback ranks candidates deterministically: rating descending, ties
// broken by price ascending, deduplicated by identity, capped at limit.
// It synthesizes an explanation from the rating and cannot fail.
func (g *Generator) fallback(candidates []models.Restaurant, limit int) []models.RecommendationItem {
	ranked := make([]models.Restaurant, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].Price < ranked[j].Price
	})

	seen := make(map[models.RestaurantIdentity]bool, limit)
	shortlist := make([]models.RecommendationItem, 0, limit)
	for _, r := range ranked {
		if len(shortlist) >= limit {
			break
		}
		id := r.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		shortlist = append(shortlist, models.RecommendationItem{
			Name:        r.Name,
			Explanation: fmt.Sprintf("Highly rated restaurant with %g/5.0 stars", r.Rating),
		})
	}
	return shortlist
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/plateful/plateful/internal/models"
)

// Validation bounds for preference fields.
const (
	MinRating = 0.0
	MaxRating = 5.0
	MinPrice  = 0.0
	MaxPrice  = 10000.0
	MinLimit  = 1
	MaxLimit  = 100
)

// knownCuisines is the advisory cuisine vocabulary. A cuisine outside this
// set is still valid, it just earns a warning because results may be thin.
var knownCuisines = map[string]bool{
	"italian": true, "chinese": true, "mexican": true, "indian": true,
	"japanese": true, "thai": true, "french": true, "american": true,
	"mediterranean": true, "korean": true, "vietnamese": true,
	"greek": true, "spanish": true, "middle eastern": true,
	"brazilian": true, "caribbean": true,
}

// Processor validates and normalizes raw preference maps. It is a pure
// function over its input plus the configured default limit, so a single
// instance is safe for concurrent use.
type Processor struct {
	defaultLimit int
}

// NewProcessor builds a Processor. A non-positive defaultLimit falls back
// to 10.
func NewProcessor(defaultLimit int) *Processor {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Processor{defaultLimit: defaultLimit}
}

// Validate checks every recognized preference field independently and
// accumulates all errors in one pass. Unknown keys are ignored. Warnings
// never flip validity. A field absent or null is omitted from the
// normalized set; only limit receives a default.
func (p *Processor) Validate(raw map[string]any) models.ValidationResult {
	result := models.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}
	normalized := models.PreferenceSet{}

	if v, ok := present(raw, "cuisine"); ok {
		cuisine, warning, errMsg := validateCuisine(v)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
		} else {
			normalized.Cuisine = &cuisine
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	if v, ok := present(raw, "location"); ok {
		location, errMsg := validateLocation(v)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
		} else {
			normalized.Location = &location
		}
	}

	if v, ok := present(raw, "min_rating"); ok {
		rating, errMsg := validateRating(v)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
		} else {
			normalized.MinRating = &rating
		}
	}

	if v, ok := present(raw, "max_price"); ok {
		price, errMsg := validatePrice(v)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
		} else {
			normalized.MaxPrice = &price
		}
	}

	if v, ok := present(raw, "limit"); ok {
		limit, errMsg := validateLimit(v)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
		} else {
			normalized.Limit = limit
		}
	} else {
		normalized.Limit = p.defaultLimit
		normalized.LimitDefaulted = true
	}

	result.IsValid = len(result.Errors) == 0
	result.Normalized = normalized
	return result
}

// present reports whether key is in the map with a non-null value.
func present(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func validateCuisine(v any) (normalized, warning, errMsg string) {
	s, ok := v.(string)
	if !ok {
		return "", "", fmt.Sprintf("Cuisine must be a string, got %s", typeName(v))
	}
	normalized = strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", "", "Cuisine cannot be empty"
	}
	if !knownCuisines[normalized] {
		warning = fmt.Sprintf("Cuisine '%s' is not in the standard list. Results may be limited.", normalized)
	}
	return normalized, warning, ""
}

func validateLocation(v any) (normalized, errMsg string) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Sprintf("Location must be a string, got %s", typeName(v))
	}
	normalized = strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", "Location cannot be empty"
	}
	return normalized, ""
}

func validateRating(v any) (float64, string) {
	rating, ok := toFloat(v)
	if !ok {
		return 0, fmt.Sprintf("Rating must be a number, got %s", typeName(v))
	}
	if rating < MinRating || rating > MaxRating {
		return 0, fmt.Sprintf("Rating must be between 0.0 and 5.0, got %g", rating)
	}
	return rating, ""
}

func validatePrice(v any) (float64, string) {
	price, ok := toFloat(v)
	if !ok {
		return 0, fmt.Sprintf("Price must be a number, got %s", typeName(v))
	}
	if price < MinPrice {
		return 0, fmt.Sprintf("Price must be >= 0.0, got %g", price)
	}
	if price > MaxPrice {
		return 0, fmt.Sprintf("Price must be <= 10000.0, got %g", price)
	}
	return price, ""
}

func validateLimit(v any) (int, string) {
	limit, ok := toInt(v)
	if !ok {
		return 0, fmt.Sprintf("Limit must be an integer, got %s", typeName(v))
	}
	if limit < MinLimit || limit > MaxLimit {
		return 0, fmt.Sprintf("Limit must be between 1 and 100, got %d", limit)
	}
	return limit, ""
}

// toFloat coerces numeric values and string numerals to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toInt coerces integer values to int. Floats truncate; string numerals
// must be whole integers.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

// typeName renders a value's type for validation messages using JSON-facing
// names rather than Go type names.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int32, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

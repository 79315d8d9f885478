// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/models"
)

// errorResponse wraps an APIError for transport.
type errorResponse struct {
	Error models.APIError `json:"error"`
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("Failed to encode JSON response")
	}
}

// respondError writes a structured error response. Messages must be safe
// for external eyes; internal error detail belongs in logs only.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: models.APIError{
		Code:    code,
		Message: message,
	}})
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package validation

import (
	"strings"
	"testing"
)

type sampleQuery struct {
	Cuisine   string   `validate:"omitempty,min=1"`
	MinRating *float64 `validate:"omitempty,gte=0,lte=5"`
	Limit     int      `validate:"min=1,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	rating := 4.5
	if err := ValidateStruct(sampleQuery{Cuisine: "thai", MinRating: &rating, Limit: 10}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateStructCollectsErrors(t *testing.T) {
	rating := 9.0
	err := ValidateStruct(sampleQuery{MinRating: &rating, Limit: 0})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Errorf("Errors = %v, want 2", err.Messages())
	}
	joined := err.Error()
	if !strings.Contains(joined, "minrating") || !strings.Contains(joined, "limit") {
		t.Errorf("Error() = %q, want both field names", joined)
	}
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(sampleQuery{Limit: 101})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if msg := err.Messages()[0]; msg != "limit must be at most 100" {
		t.Errorf("message = %q", msg)
	}
}

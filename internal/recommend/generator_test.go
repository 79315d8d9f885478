// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plateful/plateful/internal/models"
)

// mockCompleter implements llm.Completer for testing. Responses are
// consumed in order; errs shorter than the call count repeats the last
// entry's behavior.
type mockCompleter struct {
	responses []string
	errs      []error
	calls     int
	pingErr   error
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	idx := m.calls
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return "", errors.New("no scripted response")
}

func (m *mockCompleter) Ping(ctx context.Context) error { return m.pingErr }

func (m *mockCompleter) Model() string { return "mock-model" }

func testCandidates() []models.Restaurant {
	return []models.Restaurant{
		{Name: "Luigi's", Cuisine: "italian", Location: "downtown", Rating: 4.5, Price: 40},
		{Name: "Mario's", Cuisine: "italian", Location: "uptown", Rating: 4.2, Price: 30},
		{Name: "Pasta Hut", Cuisine: "italian", Location: "midtown", Rating: 4.2, Price: 20},
	}
}

func TestGenerateEmptyCandidatesSkipsLLM(t *testing.T) {
	completer := &mockCompleter{}
	g := NewGenerator(completer, 3, time.Millisecond)

	shortlist, err := g.Generate(context.Background(), models.PreferenceSet{}, nil, 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(shortlist) != 0 {
		t.Errorf("shortlist = %v, want empty", shortlist)
	}
	if completer.calls != 0 {
		t.Errorf("LLM called %d times for empty candidates, want 0", completer.calls)
	}
}

func TestGenerateLLMSuccess(t *testing.T) {
	completer := &mockCompleter{
		responses: []string{`[{"name": "Luigi's", "explanation": "Top rated italian spot"}]`},
	}
	g := NewGenerator(completer, 3, time.Millisecond)

	shortlist, err := g.Generate(context.Background(), models.PreferenceSet{}, testCandidates(), 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(shortlist) != 1 || shortlist[0].Name != "Luigi's" {
		t.Errorf("shortlist = %v, want single Luigi's entry", shortlist)
	}
	if completer.calls != 1 {
		t.Errorf("calls = %d, want 1", completer.calls)
	}
}

func TestGenerateRetriesThenFallsBack(t *testing.T) {
	transportErr := errors.New("connection reset")
	completer := &mockCompleter{errs: []error{transportErr, transportErr, transportErr}}
	g := NewGenerator(completer, 3, time.Millisecond)

	shortlist, err := g.Generate(context.Background(), models.PreferenceSet{}, testCandidates(), 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if completer.calls != 3 {
		t.Errorf("calls = %d, want 3 attempts before fallback", completer.calls)
	}
	if len(shortlist) != 2 {
		t.Fatalf("fallback shortlist length = %d, want limit 2", len(shortlist))
	}
	// Fallback sorts by rating descending, ties broken by price ascending.
	if shortlist[0].Name != "Luigi's" || shortlist[1].Name != "Pasta Hut" {
		t.Errorf("fallback order = [%s, %s], want [Luigi's, Pasta Hut]",
			shortlist[0].Name, shortlist[1].Name)
	}
	if shortlist[0].Explanation != "Highly rated restaurant with 4.5/5.0 stars" {
		t.Errorf("explanation = %q", shortlist[0].Explanation)
	}
}

func TestGenerateNilCompleterUsesFallback(t *testing.T) {
	g := NewGenerator(nil, 3, time.Millisecond)

	shortlist, err := g.Generate(context.Background(), models.PreferenceSet{}, testCandidates(), 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(shortlist) != 3 {
		t.Errorf("shortlist length = %d, want all 3 candidates", len(shortlist))
	}
}

func TestGenerateRecoversOnRetry(t *testing.T) {
	completer := &mockCompleter{
		errs:      []error{errors.New("timeout"), nil},
		responses: []string{"", `[{"name": "Mario's", "explanation": "Good value"}]`},
	}
	g := NewGenerator(completer, 3, time.Millisecond)

	shortlist, err := g.Generate(context.Background(), models.PreferenceSet{}, testCandidates(), 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if completer.calls != 2 {
		t.Errorf("calls = %d, want 2", completer.calls)
	}
	if len(shortlist) != 1 || shortlist[0].Name != "Mario's" {
		t.Errorf("shortlist = %v", shortlist)
	}
}

func TestGenerateContextCanceledDuringBackoff(t *testing.T) {
	completer := &mockCompleter{errs: []error{errors.New("down"), errors.New("down")}}
	g := NewGenerator(completer, 3, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := g.Generate(ctx, models.PreferenceSet{}, testCandidates(), 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseShortlist(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "bare array",
			content:   `[{"name": "A", "explanation": "x"}, {"name": "B", "explanation": "y"}]`,
			wantNames: []string{"A", "B"},
		},
		{
			name:      "recommendations object",
			content:   `{"recommendations": [{"name": "A", "explanation": "x"}]}`,
			wantNames: []string{"A"},
		},
		{
			name:      "duplicate name keeps first",
			content:   `{"recommendations":[{"name":"X","explanation":"a"},{"name":"X","explanation":"b"}]}`,
			wantNames: []string{"X"},
		},
		{
			name:      "case-insensitive duplicate",
			content:   `[{"name": "Luigi's", "explanation": "a"}, {"name": "LUIGI'S", "explanation": "b"}]`,
			wantNames: []string{"Luigi's"},
		},
		{
			name:      "invalid items dropped",
			content:   `[{"name": "", "explanation": "x"}, {"name": "B"}, {"name": "C", "explanation": "ok"}]`,
			wantNames: []string{"C"},
		},
		{
			name:    "zero valid items is a parse failure",
			content: `[{"name": "", "explanation": ""}]`,
			wantErr: true,
		},
		{
			name:    "empty array is a parse failure",
			content: `[]`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `Here are my recommendations: Luigi's`,
			wantErr: true,
		},
		{
			name:    "object without recommendations key",
			content: `{"results": []}`,
			wantErr: true,
		},
		{
			name:    "empty response",
			content: ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shortlist, err := parseShortlist(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", shortlist)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseShortlist: %v", err)
			}
			if len(shortlist) != len(tt.wantNames) {
				t.Fatalf("got %d items, want %d: %v", len(shortlist), len(tt.wantNames), shortlist)
			}
			for i, want := range tt.wantNames {
				if shortlist[i].Name != want {
					t.Errorf("item %d name = %q, want %q", i, shortlist[i].Name, want)
				}
			}
		})
	}
}

func TestGenerateZeroValidItemsRetries(t *testing.T) {
	// A decodable response with no usable items must count as a parse
	// failure, not a silent empty result.
	completer := &mockCompleter{responses: []string{`[]`, `[]`, `[]`}}
	g := NewGenerator(completer, 3, time.Millisecond)

	shortlist, err := g.Generate(context.Background(), models.PreferenceSet{}, testCandidates(), 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if completer.calls != 3 {
		t.Errorf("calls = %d, want 3", completer.calls)
	}
	if len(shortlist) != 2 {
		t.Errorf("fallback shortlist length = %d, want 2", len(shortlist))
	}
}

func TestFallbackDeduplicatesIdentity(t *testing.T) {
	g := NewGenerator(nil, 0, 0)
	candidates := []models.Restaurant{
		{Name: "Twin", Location: "downtown", Rating: 4.5, Price: 10},
		{Name: "twin", Location: "DOWNTOWN", Rating: 4.5, Price: 10},
		{Name: "Other", Location: "uptown", Rating: 4.0, Price: 15},
	}

	shortlist := g.fallback(candidates, 10)
	if len(shortlist) != 2 {
		t.Errorf("shortlist = %v, want duplicate identity collapsed", shortlist)
	}
}

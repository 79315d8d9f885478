// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package recommend

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/plateful/plateful/internal/models"
)

// systemPrompt instructs the model on its role and output contract. The
// uniqueness instruction is advisory; the parser still deduplicates
// defensively.
const systemPrompt = `You are an expert restaurant recommendation assistant. Your task is to analyze user preferences and a list of restaurants, then provide personalized recommendations with clear explanations.

Guidelines:
- Recommend restaurants that best match the user's stated preferences
- Provide a brief, compelling explanation for each recommendation
- Consider all preference factors: cuisine, location, rating, and price
- Be concise but informative
- Format your response as a JSON array of recommendations
- CRITICAL: Each restaurant in your recommendations must be unique. Do not recommend the same restaurant more than once. Never repeat a restaurant name.`

// buildUserPrompt renders the preferences and candidate list into the user
// message for the ranking call.
func buildUserPrompt(prefs models.PreferenceSet, candidates []models.Restaurant, limit int) string {
	var sb strings.Builder

	sb.WriteString("User Preferences:\n")
	sb.WriteString(formatPreferences(prefs))
	sb.WriteString("\n\nAvailable Restaurants:\n")
	sb.WriteString(formatCandidates(candidates))
	fmt.Fprintf(&sb, `

Task: Based on the user's preferences, recommend the top %d restaurants from the list above. For each recommendation, provide:
1. Restaurant name
2. A brief explanation (1-2 sentences) of why it matches the user's preferences

Format your response as a JSON array with this structure:
[
  {
    "name": "Restaurant Name",
    "explanation": "Why this restaurant is recommended"
  }
]

Provide ONLY the JSON array, no additional text.`, limit)

	return sb.String()
}

func formatPreferences(prefs models.PreferenceSet) string {
	var lines []string
	if prefs.Cuisine != nil {
		lines = append(lines, fmt.Sprintf("- Cuisine: %s", titleWords(*prefs.Cuisine)))
	}
	if prefs.Location != nil {
		lines = append(lines, fmt.Sprintf("- Location: %s", titleWords(*prefs.Location)))
	}
	if prefs.MinRating != nil {
		lines = append(lines, fmt.Sprintf("- Minimum Rating: %g/5.0", *prefs.MinRating))
	}
	if prefs.MaxPrice != nil {
		lines = append(lines, fmt.Sprintf("- Maximum Price: $%g", *prefs.MaxPrice))
	}
	if !prefs.LimitDefaulted {
		lines = append(lines, fmt.Sprintf("- Number of Results: %d", prefs.Limit))
	}
	if len(lines) == 0 {
		return "- No specific preferences"
	}
	return strings.Join(lines, "\n")
}

func formatCandidates(candidates []models.Restaurant) string {
	if len(candidates) == 0 {
		return "No restaurants available"
	}
	blocks := make([]string, 0, len(candidates))
	for i, r := range candidates {
		blocks = append(blocks, fmt.Sprintf(
			"%d. %s\n   - Cuisine: %s\n   - Location: %s\n   - Rating: %g/5.0\n   - Price: $%g",
			i+1, r.Name, r.Cuisine, r.Location, r.Rating, r.Price))
	}
	return strings.Join(blocks, "\n\n")
}

// titleWords uppercases the first letter of each space-separated word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Package ingest loads raw restaurant datasets into the store. It accepts
// CSV exports with loosely standardized headers (Zomato-style dumps
// included), cleans each row, and deduplicates on (name, location) keeping
// the first occurrence.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/models"
)

// Store is the subset of the database layer the ingester writes through.
type Store interface {
	InsertBatch(ctx context.Context, restaurants []models.Restaurant) error
	ReplaceAll(ctx context.Context, restaurants []models.Restaurant) error
}

// columnAliases maps canonical field names to the header spellings seen in
// the wild. Headers are matched after trimming and lowercasing.
var columnAliases = map[string][]string{
	"name":     {"name", "restaurant_name"},
	"cuisine":  {"cuisine", "cuisines"},
	"location": {"location", "city", "listed_in(city)"},
	"rating":   {"rating", "rate"},
	"price":    {"price", "cost", "approx_cost(for two people)"},
	"address":  {"address"},
}

// costForTwoHeaders are price headers whose values cover two people and
// must be halved during cleaning.
var costForTwoHeaders = map[string]bool{
	"approx_cost(for two people)": true,
}

type columnMap struct {
	name, cuisine, location, rating, price, address int
	priceForTwo                                     bool
}

// mapColumns resolves a CSV header row to column indexes. Name, cuisine,
// location, rating and price are required; address is optional (-1 when
// absent).
func mapColumns(header []string) (columnMap, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	find := func(field string) (int, string) {
		for _, alias := range columnAliases[field] {
			if i, ok := index[alias]; ok {
				return i, alias
			}
		}
		return -1, ""
	}

	cm := columnMap{address: -1}
	var matched string
	for _, field := range []string{"name", "cuisine", "location", "rating", "price"} {
		idx, alias := find(field)
		if idx < 0 {
			return columnMap{}, fmt.Errorf("required column %q not found in header", field)
		}
		switch field {
		case "name":
			cm.name = idx
		case "cuisine":
			cm.cuisine = idx
		case "location":
			cm.location = idx
		case "rating":
			cm.rating = idx
		case "price":
			cm.price = idx
			matched = alias
		}
	}
	cm.priceForTwo = costForTwoHeaders[matched]
	if idx, _ := find("address"); idx >= 0 {
		cm.address = idx
	}
	return cm, nil
}

// ReadCSV parses and cleans a raw CSV dataset. Rows missing any critical
// field, with unparseable or out-of-range ratings, or with negative prices
// are dropped. Duplicate (name, location) pairs keep the first occurrence.
func ReadCSV(r io.Reader) ([]models.Restaurant, Summary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cm, err := mapColumns(header)
	if err != nil {
		return nil, Summary{}, err
	}

	var (
		summary     Summary
		restaurants []models.Restaurant
		seen        = make(map[models.RestaurantIdentity]bool)
	)

	field := func(record []string, idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Summary{}, fmt.Errorf("failed to read CSV row: %w", err)
		}
		summary.RowsRead++

		name := field(record, cm.name)
		cuisine := normalizeCuisine(field(record, cm.cuisine))
		location := normalizeLocation(field(record, cm.location))
		if name == "" || cuisine == "" || location == "" {
			summary.DroppedMissing++
			continue
		}

		rating, ok := parseRating(field(record, cm.rating))
		if !ok {
			summary.DroppedBadRating++
			continue
		}
		price, ok := parsePrice(field(record, cm.price), cm.priceForTwo)
		if !ok {
			summary.DroppedBadPrice++
			continue
		}

		r := models.Restaurant{
			Name:     name,
			Cuisine:  cuisine,
			Location: location,
			Rating:   rating,
			Price:    price,
			Address:  field(record, cm.address),
		}
		if seen[r.Identity()] {
			summary.DroppedDuplicate++
			continue
		}
		seen[r.Identity()] = true
		restaurants = append(restaurants, r)
		summary.Kept++
	}

	return restaurants, summary, nil
}

// LoadFile cleans the CSV at path and writes the result through the store.
// When replace is set the existing corpus is swapped out atomically;
// otherwise the rows are appended.
func LoadFile(ctx context.Context, store Store, path string, replace bool) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	restaurants, summary, err := ReadCSV(f)
	if err != nil {
		return Summary{}, err
	}

	logging.Info().
		Int("rows_read", summary.RowsRead).
		Int("kept", summary.Kept).
		Int("dropped_missing", summary.DroppedMissing).
		Int("dropped_bad_rating", summary.DroppedBadRating).
		Int("dropped_bad_price", summary.DroppedBadPrice).
		Int("dropped_duplicate", summary.DroppedDuplicate).
		Msg("Dataset cleaned")

	if replace {
		err = store.ReplaceAll(ctx, restaurants)
	} else {
		err = store.InsertBatch(ctx, restaurants)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("failed to write restaurants: %w", err)
	}
	return summary, nil
}

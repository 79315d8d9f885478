// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plateful/plateful/internal/metrics"
	"github.com/plateful/plateful/internal/models"
)

// FilterRestaurants returns restaurants matching every present filter,
// ordered by rating descending then price ascending, capped at
// filter.Limit. Cuisine and location match case-insensitively as
// substrings; rating and price are inclusive thresholds. A query matching
// nothing returns an empty slice, not an error.
func (db *DB) FilterRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error) {
	start := time.Now()
	restaurants, err := db.filterRestaurants(ctx, filter)
	metrics.ObserveDBQuery("filter_restaurants", time.Since(start), err)
	return restaurants, err
}

func (db *DB) filterRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, name, cuisine, location, rating, price, COALESCE(address, '') FROM restaurants WHERE 1=1`)
	var args []any

	if filter.Cuisine != nil {
		sb.WriteString(" AND LOWER(cuisine) LIKE LOWER(?)")
		args = append(args, "%"+*filter.Cuisine+"%")
	}
	if filter.Location != nil {
		sb.WriteString(" AND LOWER(location) LIKE LOWER(?)")
		args = append(args, "%"+*filter.Location+"%")
	}
	if filter.MinRating != nil {
		sb.WriteString(" AND rating >= ?")
		args = append(args, *filter.MinRating)
	}
	if filter.MaxPrice != nil {
		sb.WriteString(" AND price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	sb.WriteString(" ORDER BY rating DESC, price ASC LIMIT ?")
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("filter query failed: %w", err)
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Cuisine, &r.Location, &r.Rating, &r.Price, &r.Address); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return restaurants, nil
}

// GetRestaurantByName returns the restaurant whose name matches
// case-insensitively, or ErrNotFound.
func (db *DB) GetRestaurantByName(ctx context.Context, name string) (*models.Restaurant, error) {
	start := time.Now()
	var r models.Restaurant
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, cuisine, location, rating, price, COALESCE(address, '')
		 FROM restaurants WHERE LOWER(name) = LOWER(?) LIMIT 1`, name,
	).Scan(&r.ID, &r.Name, &r.Cuisine, &r.Location, &r.Rating, &r.Price, &r.Address)
	metrics.ObserveDBQuery("get_restaurant_by_name", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup query failed: %w", err)
	}
	return &r, nil
}

// Stats returns aggregate counts over the restaurant corpus.
func (db *DB) Stats(ctx context.Context) (models.StoreStats, error) {
	start := time.Now()
	var stats models.StoreStats
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT cuisine), COUNT(DISTINCT location) FROM restaurants`,
	).Scan(&stats.TotalRestaurants, &stats.UniqueCuisines, &stats.UniqueLocations)
	metrics.ObserveDBQuery("stats", time.Since(start), err)
	if err != nil {
		return models.StoreStats{}, fmt.Errorf("stats query failed: %w", err)
	}
	return stats, nil
}

// InsertBatch inserts restaurants in a single transaction. Used by the
// ingestion pipeline.
func (db *DB) InsertBatch(ctx context.Context, restaurants []models.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}

	start := time.Now()
	err := db.insertBatch(ctx, restaurants)
	metrics.ObserveDBQuery("insert_batch", time.Since(start), err)
	return err
}

func (db *DB) insertBatch(ctx context.Context, restaurants []models.Restaurant) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO restaurants (name, cuisine, location, rating, price, address) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range restaurants {
		if _, err := stmt.ExecContext(ctx, r.Name, r.Cuisine, r.Location, r.Rating, r.Price, r.Address); err != nil {
			return fmt.Errorf("failed to insert restaurant %q: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

// ReplaceAll atomically replaces the whole corpus with the given
// restaurants.
func (db *DB) ReplaceAll(ctx context.Context, restaurants []models.Restaurant) error {
	start := time.Now()
	err := db.replaceAll(ctx, restaurants)
	metrics.ObserveDBQuery("replace_all", time.Since(start), err)
	return err
}

func (db *DB) replaceAll(ctx context.Context, restaurants []models.Restaurant) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM restaurants`); err != nil {
		return fmt.Errorf("failed to clear restaurants: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO restaurants (name, cuisine, location, rating, price, address) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range restaurants {
		if _, err := stmt.ExecContext(ctx, r.Name, r.Cuisine, r.Location, r.Rating, r.Price, r.Address); err != nil {
			return fmt.Errorf("failed to insert restaurant %q: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

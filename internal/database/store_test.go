// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/plateful/plateful/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *DB) {
	t.Helper()
	err := db.InsertBatch(context.Background(), []models.Restaurant{
		{Name: "Luigi's", Cuisine: "italian", Location: "downtown", Rating: 4.5, Price: 40, Address: "12 Main St"},
		{Name: "Mario's", Cuisine: "italian", Location: "uptown", Rating: 4.2, Price: 30},
		{Name: "Trattoria", Cuisine: "italian", Location: "midtown", Rating: 4.2, Price: 20},
		{Name: "Golden Dragon", Cuisine: "chinese", Location: "downtown", Rating: 4.8, Price: 35},
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
}

func TestFilterRestaurants(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	ctx := context.Background()

	t.Run("no filters returns all ordered", func(t *testing.T) {
		got, err := db.FilterRestaurants(ctx, models.RestaurantFilter{Limit: 10})
		if err != nil {
			t.Fatalf("FilterRestaurants: %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("got %d rows", len(got))
		}
		// Rating descending, ties broken by price ascending.
		wantOrder := []string{"Golden Dragon", "Luigi's", "Trattoria", "Mario's"}
		for i, want := range wantOrder {
			if got[i].Name != want {
				t.Errorf("row %d = %q, want %q", i, got[i].Name, want)
			}
		}
	})

	t.Run("cuisine substring case-insensitive", func(t *testing.T) {
		cuisine := "ITAL"
		got, err := db.FilterRestaurants(ctx, models.RestaurantFilter{Cuisine: &cuisine, Limit: 10})
		if err != nil {
			t.Fatalf("FilterRestaurants: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d rows, want 3", len(got))
		}
	})

	t.Run("thresholds inclusive", func(t *testing.T) {
		minRating := 4.2
		maxPrice := 30.0
		got, err := db.FilterRestaurants(ctx, models.RestaurantFilter{
			MinRating: &minRating, MaxPrice: &maxPrice, Limit: 10,
		})
		if err != nil {
			t.Fatalf("FilterRestaurants: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %v, want Mario's and Trattoria", got)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		got, err := db.FilterRestaurants(ctx, models.RestaurantFilter{Limit: 2})
		if err != nil {
			t.Fatalf("FilterRestaurants: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d rows, want 2", len(got))
		}
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		cuisine := "klingon"
		got, err := db.FilterRestaurants(ctx, models.RestaurantFilter{Cuisine: &cuisine, Limit: 10})
		if err != nil {
			t.Fatalf("FilterRestaurants: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("got %v, want empty non-nil slice", got)
		}
	})
}

func TestGetRestaurantByName(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	ctx := context.Background()

	got, err := db.GetRestaurantByName(ctx, "luigi's")
	if err != nil {
		t.Fatalf("GetRestaurantByName: %v", err)
	}
	if got.Name != "Luigi's" || got.Address != "12 Main St" {
		t.Errorf("got %+v", got)
	}

	_, err = db.GetRestaurantByName(ctx, "nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	stats, err := db.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := models.StoreStats{TotalRestaurants: 4, UniqueCuisines: 2, UniqueLocations: 3}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestReplaceAll(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	ctx := context.Background()

	err := db.ReplaceAll(ctx, []models.Restaurant{
		{Name: "Fresh Start", Cuisine: "thai", Location: "riverside", Rating: 4.0, Price: 25},
	})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRestaurants != 1 {
		t.Errorf("TotalRestaurants = %d, want 1", stats.TotalRestaurants)
	}
}

func TestInsertBatchEmpty(t *testing.T) {
	db := newTestDB(t)
	if err := db.InsertBatch(context.Background(), nil); err != nil {
		t.Errorf("empty batch must be a no-op, got %v", err)
	}
}

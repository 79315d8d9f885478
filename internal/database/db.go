// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Package database implements the restaurant store on SQLite using the pure
// Go modernc.org/sqlite driver. The store is safe for concurrent reads; the
// write path is only exercised by the one-shot ingestion pipeline.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no restaurant.
var ErrNotFound = errors.New("restaurant not found")

// DB wraps the SQLite connection pool for the restaurant store.
type DB struct {
	conn *sql.DB
	path string
}

// Options configures the store connection.
type Options struct {
	// MaxOpenConns bounds the connection pool. Zero keeps the driver
	// default.
	MaxOpenConns int
}

const schema = `
CREATE TABLE IF NOT EXISTS restaurants (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	cuisine  TEXT NOT NULL,
	location TEXT NOT NULL,
	rating   REAL NOT NULL,
	price    REAL NOT NULL,
	address  TEXT
);
CREATE INDEX IF NOT EXISTS idx_restaurants_cuisine  ON restaurants(cuisine);
CREATE INDEX IF NOT EXISTS idx_restaurants_location ON restaurants(location);
CREATE INDEX IF NOT EXISTS idx_restaurants_rating   ON restaurants(rating);
CREATE INDEX IF NOT EXISTS idx_restaurants_price    ON restaurants(price);
`

// New opens (creating if necessary) the SQLite store at path and ensures
// the schema exists.
func New(ctx context.Context, path string, opts Options) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}

	db := &DB{conn: conn, path: path}
	if err := db.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Ping verifies the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

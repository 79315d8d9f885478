// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Command ingest loads a raw restaurant CSV into the Plateful store.
//
//	ingest -input restaurants.csv -db data/plateful.db -replace
//
// The cleaner accepts Zomato-style exports: ratings like "4.1/5",
// comma-separated cuisines, and "approx_cost(for two people)" price
// columns are all normalized during load.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/plateful/plateful/internal/database"
	"github.com/plateful/plateful/internal/ingest"
	"github.com/plateful/plateful/internal/logging"
)

func main() {
	var (
		input   = flag.String("input", "", "path to the CSV dataset (required)")
		dbPath  = flag.String("db", "data/plateful.db", "path to the SQLite database")
		replace = flag.Bool("replace", false, "replace the existing corpus instead of appending")
		logFmt  = flag.String("log-format", "console", "log format: json or console")
	)
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: *logFmt})

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := database.New(ctx, *dbPath, database.Options{})
	if err != nil {
		logging.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to open database")
	}
	defer db.Close()

	summary, err := ingest.LoadFile(ctx, db, *input, *replace)
	if err != nil {
		logging.Fatal().Err(err).Str("input", *input).Msg("Ingestion failed")
	}

	logging.Info().
		Int("kept", summary.Kept).
		Int("rows_read", summary.RowsRead).
		Bool("replace", *replace).
		Msg("Ingestion complete")
}

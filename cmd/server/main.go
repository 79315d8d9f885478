// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Command server runs the Plateful HTTP service.
//
// Configuration is layered: built-in defaults, an optional YAML config file
// (CONFIG_PATH or ./config.yaml), then environment variables. A typical
// deployment needs only:
//
//	DATABASE_PATH=data/plateful.db \
//	LLM_API_KEY=sk-... \
//	./server
//
// Without LLM_API_KEY the service still runs; ranking falls back to the
// deterministic rating sort.
//
//	@title			Plateful API
//	@version		1.0
//	@description	LLM-assisted restaurant recommendations with deterministic fallback ranking.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateful/plateful/internal/api"
	"github.com/plateful/plateful/internal/config"
	"github.com/plateful/plateful/internal/database"
	"github.com/plateful/plateful/internal/llm"
	"github.com/plateful/plateful/internal/logging"
	"github.com/plateful/plateful/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Plateful")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database.Path, database.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()
	logging.Info().Str("path", cfg.Database.Path).Msg("Database ready")

	var completer llm.Completer
	if cfg.LLM.Configured() {
		completer = llm.NewClient(cfg.LLM)
		logging.Info().
			Str("provider", cfg.LLM.Provider).
			Str("model", cfg.LLM.Model).
			Msg("LLM client initialized")
	} else {
		logging.Warn().Msg("No LLM API key configured, serving fallback rankings only")
	}

	engine := recommend.NewEngine(db, completer, cfg.Engine)
	handler := api.NewHandler(engine, db)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Err(err).Msg("Graceful shutdown failed")
		os.Exit(1)
	}
	logging.Info().Msg("Plateful stopped")
}

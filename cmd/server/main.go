// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Command server runs the AskRed HTTP API: product queries in, ranked
// Reddit-sourced recommendations out.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/askred/askred/internal/api"
	"github.com/askred/askred/internal/cache"
	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/database"
	"github.com/askred/askred/internal/extract"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/pipeline"
	"github.com/askred/askred/internal/reddit"
	"github.com/askred/askred/internal/search"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting AskRed")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	hotTTL := cfg.Cache.HotTTL
	if !cfg.Cache.HotEnabled {
		// Zero TTL keeps the tier present but every entry immediately
		// stale, so reads always consult the store.
		hotTTL = 0
	}
	hot := cache.New(hotTTL)
	defer hot.Close()

	gateway := pipeline.NewCacheGateway(hot, db)

	discoverer := search.NewCircuitBreakerDiscoverer(search.NewSerpClient(&cfg.Serp))
	tokens := reddit.NewTokenSource(&cfg.Reddit)
	comments := reddit.NewClient(&cfg.Reddit, &cfg.Pipeline, tokens)
	extractor := extract.NewChatClient(&cfg.Extractor, &cfg.Pipeline)

	p := pipeline.New(&cfg.Pipeline, gateway, discoverer, comments, extractor)

	handler := api.NewHandler(p, db, version)
	router := api.NewRouter(handler, &cfg.Security)

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
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("AskRed stopped")
}

// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package main is the entry point for the RastroO tracking server.
//
// RastroO is a self-hosted attribution tracker for creator-driven
// marketing: a browser snippet reports visits, leads, and sales with
// their attribution context, and the server appends them to an
// append-only event log and answers per-creator and per-content
// conversion reports over it.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: koanf v2 layering defaults, an optional YAML file,
//     and environment variables
//  2. Store: in-memory or BadgerDB event log, status annotations,
//     creators directory, and the orderId dedupe index
//  3. Ingestor: kind normalization, creator resolution, amount
//     coercion, per-session throttle, fingerprinting
//  4. Aggregator: report computation over the event log
//  5. Instagram client (optional): recent media with engagement counts,
//     behind a circuit breaker and an outbound rate limiter
//  6. HTTP server: tracking API, reporting API, Prometheus metrics,
//     static dashboard and snippet
//
// The HTTP server runs under a suture supervisor tree; SIGINT and
// SIGTERM trigger a graceful shutdown with a 10s drain timeout.
//
// # Example Usage
//
// Development with the in-memory store:
//
//	STORE_BACKEND=memory LOG_FORMAT=console ./rastroo
//
// Production with BadgerDB and order deduplication:
//
//	export STORE_BACKEND=badger
//	export STORE_PATH=/var/lib/rastroo
//	export INGEST_DEDUPE_ORDER_IDS=true
//	export INGEST_FINGERPRINT_SALT=$(openssl rand -hex 16)
//	./rastroo
//
// With the Instagram engagement boundary:
//
//	export INSTAGRAM_ENABLED=true
//	export INSTAGRAM_ACCESS_TOKEN=your-graph-token
//	export INSTAGRAM_USER_ID=17841400000000000
//	./rastroo
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MateusDN896/RastroO/internal/api"
	"github.com/MateusDN896/RastroO/internal/config"
	"github.com/MateusDN896/RastroO/internal/ingest"
	"github.com/MateusDN896/RastroO/internal/instagram"
	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/metrics"
	"github.com/MateusDN896/RastroO/internal/ratelimit"
	"github.com/MateusDN896/RastroO/internal/report"
	"github.com/MateusDN896/RastroO/internal/store"
	"github.com/MateusDN896/RastroO/internal/supervisor"
	"github.com/MateusDN896/RastroO/internal/supervisor/services"
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

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("store_backend", cfg.Store.Backend).
		Str("report_timezone", cfg.Report.Timezone).
		Bool("dedupe_order_ids", cfg.Ingest.DedupeOrderIDs).
		Msg("Starting RastroO")

	st, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	if events, err := st.Events(context.Background()); err == nil {
		metrics.SetEventLogSize(len(events))
	}

	throttle := ratelimit.NewSessionThrottle(
		cfg.Ingest.SessionWindow,
		cfg.Ingest.SessionMaxEvents,
		0,
	)

	ingestor := ingest.New(st, throttle, ingest.Config{
		DedupeOrderIDs:  cfg.Ingest.DedupeOrderIDs,
		DefaultCurrency: cfg.Ingest.DefaultCurrency,
		FingerprintSalt: cfg.Ingest.FingerprintSalt,
	})

	aggregator := report.NewAggregator(st, cfg.ReportLocation())

	var content api.ContentSource
	if cfg.Instagram.Enabled {
		content = instagram.NewCircuitBreakerClient(&cfg.Instagram)
		logging.Info().Str("user_id", cfg.Instagram.UserID).Msg("Instagram engagement boundary enabled")
	}

	handler := api.NewHandler(ingestor, aggregator, st, content)
	router := api.NewRouter(cfg, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("RastroO stopped gracefully")
}

// openStore selects the persistence backend from configuration.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "badger":
		return store.OpenBadger(cfg.Store.Path)
	default:
		return store.NewMemory(), nil
	}
}

// Package main initializes and starts the collection engine server,
// setting up configuration, logging, the document store, services,
// the status refresher and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/aaronvstory/dashbash/internal/config"
	"github.com/aaronvstory/dashbash/internal/identity"
	"github.com/aaronvstory/dashbash/internal/logger"
	"github.com/aaronvstory/dashbash/internal/repository"
	"github.com/aaronvstory/dashbash/internal/server/handler/http"
	"github.com/aaronvstory/dashbash/internal/service"
	"github.com/aaronvstory/dashbash/internal/ticker"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Open the on-disk document store.
	store := repository.NewDiskvStore(options.DataDir)

	// Start the import parse worker.
	importer := repository.NewImporter()
	defer importer.Close()

	clock := identity.SystemClock{}
	saveDelay := time.Duration(options.SaveDebounceMS) * time.Millisecond

	// Initialize the document service and hydrate persisted state. A
	// malformed persisted document is not fatal: the session continues on
	// seed defaults and the file stays untouched for manual recovery.
	svc := service.New(store, importer, saveDelay, clock, zapLogger)
	if err := svc.Load(); err != nil {
		zapLogger.Warn("continuing on seed defaults", zap.Error(err))
	}
	defer svc.Flush()

	ctx := context.Background()

	// Reload when another process rewrites the persisted document.
	if err := store.Watch(ctx, svc.Reload, zapLogger); err != nil {
		zapLogger.Warn("document watch unavailable", zap.Error(err))
	}

	// Start the one-second status refresher.
	refresher := ticker.Start(ctx, svc, time.Second, clock, zapLogger)

	// Create HTTP handlers for the document, collections and settings.
	documentHandler := &http.DocumentHandler{Service: svc, Statuses: refresher}
	collectionHandler := &http.CollectionHandler{Service: svc}
	settingsHandler := &http.SettingsHandler{Service: svc}

	// Build the router with middleware and routes.
	router := http.NewRouter(documentHandler, collectionHandler, settingsHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}

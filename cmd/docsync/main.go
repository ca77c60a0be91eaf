package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syntrixbase/docsync/internal/config"
	"github.com/syntrixbase/docsync/internal/logging"
	"github.com/syntrixbase/docsync/internal/services"
)

func main() {
	// 0. Parse Command Line Flags
	configDir := flag.String("config", "config", "Configuration directory")
	standalone := flag.Bool("standalone", false, "Keep the index in memory instead of Elasticsearch or MongoDB")
	noListener := flag.Bool("no-listener", false, "Do not consume lifecycle events from NATS")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer func() { _ = logging.Shutdown() }()

	slog.Info("Starting docsync...",
		"mode", cfg.Sync.Mode,
		"collection", cfg.Sync.Collection,
		"standalone", *standalone,
		"listener", !*noListener,
	)

	// 2. Initialize Service Manager
	mgr := services.NewManager(cfg, services.Options{
		RunListener: !*noListener,
		Standalone:  *standalone,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := mgr.Init(ctx); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	// 3. Start Services
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	mgr.Start(bgCtx)

	// 4. Wait for Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Cancel background tasks first so the listener drains
	bgCancel()

	mgr.Shutdown(shutdownCtx)

	slog.Info("docsync stopped")
}

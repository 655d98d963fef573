package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/svtemple/eventreg/internal/config"
	"github.com/svtemple/eventreg/internal/core"
	"github.com/svtemple/eventreg/internal/logging"
	"github.com/svtemple/eventreg/internal/mirror"
	"github.com/svtemple/eventreg/internal/store"
	"github.com/svtemple/eventreg/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Store.Backend,
		"edit_limit", cfg.Limits.EditLimit,
	)

	// Open the selected store backend
	ctx := context.Background()
	var (
		submissions core.SubmissionStore
		closeStore  func(context.Context) error
	)
	switch strings.ToLower(cfg.Store.Backend) {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
		m, err := store.OpenMongo(connectCtx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
		cancel()
		if err != nil {
			slog.Error("failed to connect to mongo", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to mongo", "database", cfg.Store.MongoDatabase, "collection", cfg.Store.MongoCollection)
		submissions = m
		closeStore = m.Close
	default:
		c, err := store.OpenCSVFile(cfg.Store.CSVPath)
		if err != nil {
			slog.Error("failed to open store file", "path", cfg.Store.CSVPath, "error", err)
			os.Exit(1)
		}
		slog.Info("opened flat-file store", "path", cfg.Store.CSVPath)
		submissions = c
	}

	// Load the edit-quota ledger
	ledger, err := core.OpenLedger(cfg.Store.LedgerPath)
	if err != nil {
		slog.Error("failed to open ledger", "path", cfg.Store.LedgerPath, "error", err)
		os.Exit(1)
	}

	exporter := mirror.NewExporter(cfg.Store.MirrorPath)
	service := core.NewService(submissions, ledger, exporter, cfg.Limits.EditLimit, cfg.Limits.FamilyLimit)
	server := web.NewServer(service, exporter, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if closeStore != nil {
			if err := closeStore(shutdownCtx); err != nil {
				slog.Error("store close error", "error", err)
			}
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

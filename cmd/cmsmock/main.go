// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command cmsmock serves the CMS REST API for local development and
// demos: every catalog resource on its own endpoint dialect, the upload
// endpoint and the /uploads file server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/cmsadmin/internal/backend"
	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/config"
	"github.com/olegiv/cmsadmin/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "cmsmock - development backend for cmsadmin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_SERVER_HOST      Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_SERVER_PORT      Listen port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_STORE            memory|sqlite (default: memory)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_DB_PATH          SQLite database path (default: ./data/cmsmock.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_UPLOADS_DIR      Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_UPLOAD_RESPONSE  url|file|bare upload response shape (default: url)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CMSADMIN_API_TOKEN        Require this bearer token (optional)\n")
	}
	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("cmsmock %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	srv, err := backend.New(backend.Options{
		Catalog:        catalog.Default(),
		Store:          store,
		UploadPath:     cfg.UploadPath,
		UploadsDir:     cfg.UploadsDir,
		UploadShape:    cfg.UploadResponse,
		MaxUploadSize:  cfg.MaxUploadSize,
		Token:          cfg.APIToken,
		RequestTimeout: cfg.RequestTimeout,
		Version:        info,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           srv.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "store", cfg.Store, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (backend.Store, error) {
	if cfg.Store != "sqlite" {
		logger.Info("using in-memory store")
		return backend.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	logger.Info("initializing database", "path", cfg.DBPath)
	store, err := backend.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return store, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command cmsadmin manages CMS resources from the terminal: paginated
// listing with search, create and edit with file uploads, and confirmed
// deletes, each gated by the configured role.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegiv/cmsadmin/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	a.version = version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	os.Exit(a.run(ctx, os.Args[1:]))
}

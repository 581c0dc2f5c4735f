// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"os"
	"time"
)

// Check is the result of one health probe.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// pinger is implemented by stores backed by a database.
type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"store":   s.checkStore(r.Context()),
		"uploads": s.checkUploads(),
	}

	status := "healthy"
	code := http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{
		"success":   code == http.StatusOK,
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"version":   s.opts.Version.Version,
		"checks":    checks,
	})
}

func (s *Server) checkStore(ctx context.Context) Check {
	p, ok := s.opts.Store.(pinger)
	if !ok {
		return Check{Status: "healthy", Message: "in-memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		s.logger.Warn("store health check failed", "error", err)
		return Check{Status: "unhealthy", Message: "database unreachable"}
	}
	return Check{Status: "healthy", Latency: time.Since(start).String()}
}

func (s *Server) checkUploads() Check {
	info, err := os.Stat(s.opts.UploadsDir)
	if err != nil || !info.IsDir() {
		return Check{Status: "unhealthy", Message: "uploads directory missing"}
	}
	return Check{Status: "healthy"}
}

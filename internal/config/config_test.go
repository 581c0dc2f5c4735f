// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:8080/api")
	}
	if cfg.UploadPath != "/upload/upload-file" {
		t.Errorf("UploadPath = %q", cfg.UploadPath)
	}
	if cfg.Role != "admin" {
		t.Errorf("Role = %q, want admin", cfg.Role)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.SearchDebounce != 450*time.Millisecond {
		t.Errorf("SearchDebounce = %s, want 450ms", cfg.SearchDebounce)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s, want 30m", cfg.SessionTTL)
	}
	if cfg.Store != "memory" {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
	if cfg.UseRedisSessions() {
		t.Error("UseRedisSessions() = true without a Redis URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("CMSADMIN_API_BASE_URL", "https://cms.example.com/api/")
	t.Setenv("CMSADMIN_ROLE", "vendor")
	t.Setenv("CMSADMIN_PAGE_SIZE", "25")
	t.Setenv("CMSADMIN_SEARCH_DEBOUNCE", "500ms")
	t.Setenv("CMSADMIN_UPLOAD_PATH", "files/upload")
	t.Setenv("CMSADMIN_SERVER_PORT", "3000")
	t.Setenv("CMSADMIN_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "https://cms.example.com/api" {
		t.Errorf("APIBaseURL = %q, trailing slash should be trimmed", cfg.APIBaseURL)
	}
	if cfg.UploadPath != "/files/upload" {
		t.Errorf("UploadPath = %q, want leading slash", cfg.UploadPath)
	}
	if cfg.Role != "vendor" {
		t.Errorf("Role = %q", cfg.Role)
	}
	if cfg.PageSize != 25 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if cfg.SearchDebounce != 500*time.Millisecond {
		t.Errorf("SearchDebounce = %s", cfg.SearchDebounce)
	}
	if cfg.ServerAddr() != "localhost:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if !cfg.UseRedisSessions() {
		t.Error("UseRedisSessions() = false with a Redis URL")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"relative base url", "CMSADMIN_API_BASE_URL", "/api", "absolute URL"},
		{"ftp base url", "CMSADMIN_API_BASE_URL", "ftp://host/api", "http or https"},
		{"zero page size", "CMSADMIN_PAGE_SIZE", "0", "PAGE_SIZE"},
		{"huge page size", "CMSADMIN_PAGE_SIZE", "1000", "PAGE_SIZE"},
		{"debounce too long", "CMSADMIN_SEARCH_DEBOUNCE", "10s", "SEARCH_DEBOUNCE"},
		{"negative rate", "CMSADMIN_RATE_LIMIT", "-1", "RATE_LIMIT"},
		{"unknown role", "CMSADMIN_ROLE", "root", "CMSADMIN_ROLE"},
		{"unknown store", "CMSADMIN_STORE", "postgres", "STORE"},
		{"unknown upload shape", "CMSADMIN_UPLOAD_RESPONSE", "xml", "UPLOAD_RESPONSE"},
		{"bad duration", "CMSADMIN_SESSION_TTL", "soon", "parsing config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	if !(Config{Env: "development"}).IsDevelopment() {
		t.Error("development env should report IsDevelopment")
	}
	if (Config{Env: "production"}).IsDevelopment() {
		t.Error("production env should not report IsDevelopment")
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads cmsadmin and cmsmock settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/cmsadmin/internal/catalog"
)

// Bounds enforced by Load.
const (
	MaxPageSize       = 100
	MaxSearchDebounce = 5 * time.Second
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL     string        `env:"CMSADMIN_API_BASE_URL" envDefault:"http://localhost:8080/api"`
	APIToken       string        `env:"CMSADMIN_API_TOKEN"`
	UploadPath     string        `env:"CMSADMIN_UPLOAD_PATH" envDefault:"/upload/upload-file"`
	Role           string        `env:"CMSADMIN_ROLE" envDefault:"admin"`
	PageSize       int           `env:"CMSADMIN_PAGE_SIZE" envDefault:"10"`
	SearchDebounce time.Duration `env:"CMSADMIN_SEARCH_DEBOUNCE" envDefault:"450ms"`
	RequestTimeout time.Duration `env:"CMSADMIN_REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimit      float64       `env:"CMSADMIN_RATE_LIMIT" envDefault:"0"` // requests per second, 0 = unlimited
	MaxUploadSize  int64         `env:"CMSADMIN_MAX_UPLOAD_SIZE" envDefault:"10485760"`
	Env            string        `env:"CMSADMIN_ENV" envDefault:"development"`
	LogLevel       string        `env:"CMSADMIN_LOG_LEVEL" envDefault:"info"`

	// Chat session store
	RedisURL         string        `env:"CMSADMIN_REDIS_URL"` // Optional, falls back to memory
	SessionTTL       time.Duration `env:"CMSADMIN_SESSION_TTL" envDefault:"30m"`
	SessionNamespace string        `env:"CMSADMIN_SESSION_NAMESPACE" envDefault:"cmsadmin:chat"`

	// Development backend (cmsmock)
	ServerHost     string `env:"CMSADMIN_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int    `env:"CMSADMIN_SERVER_PORT" envDefault:"8080"`
	Store          string `env:"CMSADMIN_STORE" envDefault:"memory"` // memory | sqlite
	DBPath         string `env:"CMSADMIN_DB_PATH" envDefault:"./data/cmsmock.db"`
	UploadsDir     string `env:"CMSADMIN_UPLOADS_DIR" envDefault:"./uploads"`
	UploadResponse string `env:"CMSADMIN_UPLOAD_RESPONSE" envDefault:"url"` // url | file | bare
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions returns true if the chat session store should use Redis.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CMSADMIN_API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CMSADMIN_API_BASE_URL must use http or https, got %q", u.Scheme)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if !strings.HasPrefix(c.UploadPath, "/") {
		c.UploadPath = "/" + c.UploadPath
	}
	role, err := catalog.ParseRole(c.Role)
	if err != nil {
		return fmt.Errorf("CMSADMIN_ROLE: %w", err)
	}
	c.Role = string(role)
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("CMSADMIN_PAGE_SIZE must be between 1 and %d, got %d", MaxPageSize, c.PageSize)
	}
	if c.SearchDebounce < 0 || c.SearchDebounce > MaxSearchDebounce {
		return fmt.Errorf("CMSADMIN_SEARCH_DEBOUNCE must be between 0 and %s, got %s", MaxSearchDebounce, c.SearchDebounce)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("CMSADMIN_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("CMSADMIN_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("CMSADMIN_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	switch c.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("CMSADMIN_STORE must be memory or sqlite, got %q", c.Store)
	}
	switch c.UploadResponse {
	case "url", "file", "bare":
	default:
		return fmt.Errorf("CMSADMIN_UPLOAD_RESPONSE must be url, file or bare, got %q", c.UploadResponse)
	}
	return nil
}

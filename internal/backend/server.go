// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend is a development stand-in for the CMS REST API. It
// serves every catalog resource in the dialect the catalog describes,
// including the backend's own inconsistencies, plus the shared upload
// endpoint, so the admin client can be exercised end to end.
package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/version"
)

// Upload response shapes.
const (
	UploadShapeURL  = "url"  // {"data": {"url": ...}}
	UploadShapeFile = "file" // {"data": {"file": {"url": ...}}}
	UploadShapeBare = "bare" // {"data": "..."}
)

// Defaults for Options.
const (
	DefaultAPIPrefix     = "/api"
	DefaultUploadPath    = "/upload/upload-file"
	DefaultMaxUploadSize = 10 << 20
)

// Options configures a Server.
type Options struct {
	Catalog *catalog.Catalog
	Store   Store

	APIPrefix     string // defaults to /api
	UploadPath    string // relative to APIPrefix
	UploadsDir    string
	UploadShape   string
	MaxUploadSize int64
	// PublicURL is prepended to /uploads/... in upload responses; when
	// empty the request's scheme and host are used.
	PublicURL string

	Token          string // bearer token required on API routes when set
	RequestTimeout time.Duration
	Version        version.Info
	Logger         *slog.Logger
}

// Server holds the router and its dependencies.
type Server struct {
	opts      Options
	logger    *slog.Logger
	router    chi.Router
	startTime time.Time
}

// New validates opts and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = DefaultAPIPrefix
	}
	if opts.UploadPath == "" {
		opts.UploadPath = DefaultUploadPath
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	switch opts.UploadShape {
	case "":
		opts.UploadShape = UploadShapeURL
	case UploadShapeURL, UploadShapeFile, UploadShapeBare:
	default:
		return nil, fmt.Errorf("unknown upload response shape %q", opts.UploadShape)
	}
	if opts.UploadsDir == "" {
		return nil, errors.New("uploads directory is required")
	}
	if err := os.MkdirAll(opts.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		opts:      opts,
		logger:    logger.With(slog.String("component", "backend")),
		startTime: time.Now(),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics)
	r.Use(chimw.GetHead)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.opts.UploadsDir))))

	r.Route(s.opts.APIPrefix, func(r chi.Router) {
		r.Use(timeout(s.opts.RequestTimeout))
		r.Use(bearerAuth(s.opts.Token))

		r.Post(s.opts.UploadPath, s.upload)
		for _, def := range s.opts.Catalog.Resources() {
			s.mountResource(r, def)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

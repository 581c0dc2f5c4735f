// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: quiet loggers and a
// running development backend wired to an API client.
package testutil

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/backend"
	"github.com/olegiv/cmsadmin/internal/catalog"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Interceptor can answer a request before the backend sees it. It returns
// true when it wrote a response.
type Interceptor func(w http.ResponseWriter, r *http.Request) bool

// Backend is a development backend on httptest with a client pointed at it.
type Backend struct {
	Server     *httptest.Server
	Store      backend.Store
	Catalog    *catalog.Catalog
	Client     *apiclient.Client
	UploadsDir string

	mu        sync.Mutex
	requests  []string
	intercept Interceptor
}

// NewBackend starts a memory-backed server. mutate may adjust the options
// before the server is built.
func NewBackend(t *testing.T, mutate func(*backend.Options)) *Backend {
	t.Helper()

	b := &Backend{
		Store:      backend.NewMemoryStore(),
		Catalog:    catalog.Default(),
		UploadsDir: t.TempDir(),
	}
	opts := backend.Options{
		Catalog:    b.Catalog,
		Store:      b.Store,
		UploadsDir: b.UploadsDir,
		Logger:     TestLoggerSilent(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	b.Store = opts.Store

	srv, err := backend.New(opts)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	h := srv.Handler()
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		intercept := b.intercept
		b.mu.Unlock()

		if intercept != nil && intercept(w, r) {
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Server.Close)

	b.Client, err = apiclient.New(apiclient.Options{
		BaseURL:    b.Server.URL + backend.DefaultAPIPrefix,
		Token:      opts.Token,
		HTTPClient: b.Server.Client(),
		Logger:     TestLoggerSilent(),
	})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return b
}

// Intercept installs fn in front of the backend; nil removes it.
func (b *Backend) Intercept(fn Interceptor) {
	b.mu.Lock()
	b.intercept = fn
	b.mu.Unlock()
}

// Requests returns "METHOD /path" for every request seen so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Count returns how many requests matched method and path exactly.
func (b *Backend) Count(method, path string) int {
	want := method + " " + path
	n := 0
	for _, r := range b.Requests() {
		if r == want {
			n++
		}
	}
	return n
}

// UploadCount returns how many upload requests reached the server.
func (b *Backend) UploadCount() int {
	return b.Count(http.MethodPost, backend.DefaultAPIPrefix+backend.DefaultUploadPath)
}

// Seed stores docs directly and returns their ids.
func (b *Backend) Seed(t *testing.T, resource string, docs ...backend.Document) []string {
	t.Helper()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		created, err := b.Store.Create(context.Background(), resource, d)
		if err != nil {
			t.Fatalf("seeding %s: %v", resource, err)
		}
		ids = append(ids, created.ID())
	}
	return ids
}

// WriteImage writes a w x h PNG to dir/name and returns its path.
func WriteImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / max(w, 1)), G: 80, B: 160, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
	return path
}

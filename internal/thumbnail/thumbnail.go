// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package thumbnail produces displayable previews for file fields. Remote
// files are shown by URL; pending local images are scaled down and
// inlined as data URIs so the form can show them before upload.
package thumbnail

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/olegiv/cmsadmin/internal/upload"
)

// ErrNotImage is returned for local files that are not a supported image.
var ErrNotImage = errors.New("not a supported image")

// Defaults.
const (
	DefaultWidth     = 160
	DefaultHeight    = 160
	DefaultQuality   = 80
	DefaultCacheSize = 128
	// maxSourceSize caps how much of a local file is read for preview.
	maxSourceSize = 20 << 20
)

// Options configures a Generator.
type Options struct {
	Width     int
	Height    int
	Quality   int
	CacheSize int
	Logger    *slog.Logger
}

// Generator renders and memoizes thumbnails.
type Generator struct {
	width   int
	height  int
	quality int
	cache   *lru.Cache[string, string]
	logger  *slog.Logger
}

// New creates a Generator.
func New(opts Options) (*Generator, error) {
	g := &Generator{
		width:   opts.Width,
		height:  opts.Height,
		quality: opts.Quality,
		logger:  opts.Logger,
	}
	if g.width <= 0 {
		g.width = DefaultWidth
	}
	if g.height <= 0 {
		g.height = DefaultHeight
	}
	if g.quality <= 0 || g.quality > 100 {
		g.quality = DefaultQuality
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating thumbnail cache: %w", err)
	}
	g.cache = cache
	return g, nil
}

// Thumbnail returns something an image element can display for ref: the
// URL of a remote file, or a JPEG data URI for a local image.
func (g *Generator) Thumbnail(ref upload.FileRef) (string, error) {
	switch {
	case ref.IsRemote():
		return ref.URL(), nil
	case !ref.IsLocal():
		return "", nil
	}

	key := cacheKey(ref)
	if uri, ok := g.cache.Get(key); ok {
		return uri, nil
	}

	rc, err := ref.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", ref.Name(), err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxSourceSize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", ref.Name(), err)
	}

	thumb, err := render(data, g.width, g.height, g.quality)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ref.Name(), err)
	}

	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumb)
	g.cache.Add(key, uri)
	g.logger.Debug("thumbnail rendered", "file", ref.Name(), "bytes", len(thumb))
	return uri, nil
}

// Len returns the number of memoized thumbnails.
func (g *Generator) Len() int {
	return g.cache.Len()
}

func cacheKey(ref upload.FileRef) string {
	return fmt.Sprintf("%s|%d|%d", ref.Name(), ref.Size(), ref.ModTime().UnixNano())
}

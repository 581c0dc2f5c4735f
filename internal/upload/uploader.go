// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload turns locally selected files into remote URLs through
// the backend's shared upload endpoint, before the resource payload that
// embeds them is sent.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultMaxSize is the default upload limit (10MB).
const DefaultMaxSize = 10 << 20

// DefaultField is the multipart field the upload endpoint reads.
const DefaultField = "file"

var (
	// ErrTooLarge is returned for files over the configured limit.
	ErrTooLarge = errors.New("file exceeds upload size limit")
	// ErrTypeNotAllowed is returned when the sniffed MIME type is not accepted.
	ErrTypeNotAllowed = errors.New("file type not allowed")
	// ErrNoURL is returned when the upload response carries no usable URL.
	ErrNoURL = errors.New("upload response has no file URL")
)

// urlPaths are the response shapes seen from the upload endpoint, in
// order of preference.
var urlPaths = []string{
	"data.url",
	"data.file.url",
	"data",
	"url",
	"data.location",
	"file.url",
}

// Poster sends a multipart file. *apiclient.Client implements it.
type Poster interface {
	PostFile(ctx context.Context, path, field, filename string, r io.Reader) ([]byte, error)
}

// Options configures an Uploader.
type Options struct {
	Path         string
	Field        string
	MaxSize      int64
	AllowedTypes []string // sniffed MIME prefixes, e.g. "image/"; empty allows all
	Logger       *slog.Logger
}

// Uploader posts single files to the upload endpoint.
type Uploader struct {
	poster  Poster
	path    string
	field   string
	maxSize int64
	allowed []string
	logger  *slog.Logger
}

// NewUploader creates an Uploader.
func NewUploader(p Poster, opts Options) *Uploader {
	u := &Uploader{
		poster:  p,
		path:    opts.Path,
		field:   opts.Field,
		maxSize: opts.MaxSize,
		allowed: opts.AllowedTypes,
		logger:  opts.Logger,
	}
	if u.path == "" {
		u.path = "/upload/upload-file"
	}
	if u.field == "" {
		u.field = DefaultField
	}
	if u.maxSize <= 0 {
		u.maxSize = DefaultMaxSize
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	u.logger = u.logger.With(slog.String("component", "uploader"))
	return u
}

// Upload sends one local file and returns its remote URL. Remote refs are
// returned unchanged without a request.
func (u *Uploader) Upload(ctx context.Context, ref FileRef) (string, error) {
	if ref.IsRemote() {
		return ref.URL(), nil
	}
	if !ref.IsLocal() {
		return "", errors.New("no file selected")
	}
	if ref.Size() > u.maxSize {
		return "", fmt.Errorf("%s: %w (%d > %d bytes)", ref.Name(), ErrTooLarge, ref.Size(), u.maxSize)
	}

	rc, err := ref.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", ref.Name(), err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, u.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", ref.Name(), err)
	}
	if int64(len(data)) > u.maxSize {
		return "", fmt.Errorf("%s: %w", ref.Name(), ErrTooLarge)
	}

	mimeType := http.DetectContentType(data)
	if !u.typeAllowed(mimeType) {
		return "", fmt.Errorf("%s (%s): %w", ref.Name(), mimeType, ErrTypeNotAllowed)
	}

	body, err := u.poster.PostFile(ctx, u.path, u.field, ref.Name(), bytes.NewReader(data))
	if err != nil {
		u.logger.Info("file upload failed", "file", ref.Name(), "error", err)
		return "", err
	}

	url := ParseURL(body)
	if url == "" {
		return "", fmt.Errorf("%s: %w", ref.Name(), ErrNoURL)
	}
	u.logger.Debug("file uploaded", "file", ref.Name(), "bytes", len(data), "mime", mimeType, "url", url)
	return url, nil
}

func (u *Uploader) typeAllowed(mimeType string) bool {
	if len(u.allowed) == 0 {
		return true
	}
	return slices.ContainsFunc(u.allowed, func(prefix string) bool {
		return strings.HasPrefix(mimeType, prefix)
	})
}

// ParseURL extracts the file URL from an upload response, accepting an
// object at any of the known paths or a bare JSON string.
func ParseURL(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if !gjson.ValidBytes(trimmed) {
		// Some deployments answer with the URL as plain text.
		s := string(trimmed)
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/") {
			return s
		}
		return ""
	}

	root := gjson.ParseBytes(trimmed)
	if root.Type == gjson.String {
		return strings.TrimSpace(root.String())
	}
	for _, p := range urlPaths {
		if v := root.Get(p); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

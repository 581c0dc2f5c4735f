// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxStoredNameLength caps the slug part of a stored upload name.
const MaxStoredNameLength = 80

// SanitizeFilename reduces a client-supplied name to its base component.
// Names that are empty or only directory references are rejected.
func SanitizeFilename(filename string) (string, error) {
	// Clients on Windows send backslash-separated paths.
	safe := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}

// StoredName builds the on-disk name for an upload: a short random prefix
// followed by the slugified base name and its lowercased extension, so
// "Acme Logo.PNG" is stored as "1f0c2a9b-acme-logo.png".
func StoredName(filename string) (string, error) {
	safe, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(safe))
	stem := Slugify(strings.TrimSuffix(safe, filepath.Ext(safe)))
	if len(stem) > MaxStoredNameLength {
		stem = strings.Trim(stem[:MaxStoredNameLength], "-")
	}
	if stem == "" {
		stem = "file"
	}
	if !IsValidSlug(strings.TrimPrefix(ext, ".")) && ext != "" {
		ext = ""
	}
	return uuid.NewString()[:8] + "-" + stem + ext, nil
}

// SafeJoinPath joins components onto basePath and rejects results that
// escape it.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	full := filepath.Join(append([]string{absBase}, components...)...)
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: path escapes base directory")
	}
	return full, nil
}

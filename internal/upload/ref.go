// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type refKind uint8

const (
	kindNone refKind = iota
	kindRemote
	kindLocal
)

// FileRef is the value of a file-bearing form field: either a URL the
// server already knows (Remote) or a file selected locally that has to
// be uploaded before submission (Local).
type FileRef struct {
	kind    refKind
	url     string
	name    string
	size    int64
	modTime time.Time
	open    func() (io.ReadCloser, error)
}

// Remote returns a ref for an already-uploaded file.
func Remote(url string) FileRef {
	return FileRef{kind: kindRemote, url: strings.TrimSpace(url)}
}

// Local returns a ref for a pending file read through open.
func Local(name string, size int64, modTime time.Time, open func() (io.ReadCloser, error)) FileRef {
	return FileRef{kind: kindLocal, name: name, size: size, modTime: modTime, open: open}
}

// LocalPath returns a Local ref for a file on disk.
func LocalPath(path string) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("selecting %s: %w", path, err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("selecting %s: is a directory", path)
	}
	return Local(filepath.Base(path), info.Size(), info.ModTime(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// IsRemote reports whether the ref is an existing server URL.
func (f FileRef) IsRemote() bool { return f.kind == kindRemote }

// IsLocal reports whether the ref still needs uploading.
func (f FileRef) IsLocal() bool { return f.kind == kindLocal }

// IsZero reports whether the ref is unset.
func (f FileRef) IsZero() bool { return f.kind == kindNone }

// URL returns the remote URL, or "" for local refs.
func (f FileRef) URL() string { return f.url }

// Name returns the local file name, or the last URL segment for remote refs.
func (f FileRef) Name() string {
	if f.kind == kindRemote {
		return filepath.Base(f.url)
	}
	return f.name
}

// Size returns the local file size in bytes.
func (f FileRef) Size() int64 { return f.size }

// ModTime returns the local file modification time.
func (f FileRef) ModTime() time.Time { return f.modTime }

// Open opens the local file.
func (f FileRef) Open() (io.ReadCloser, error) {
	if f.kind != kindLocal || f.open == nil {
		return nil, fmt.Errorf("%s is not a local file", f.String())
	}
	return f.open()
}

// String returns the URL or local name.
func (f FileRef) String() string {
	switch f.kind {
	case kindRemote:
		return f.url
	case kindLocal:
		return f.name + " (pending)"
	}
	return ""
}

// Files is the value of a multi-file field.
type Files []FileRef

// Pending counts the local refs.
func (fs Files) Pending() int {
	n := 0
	for _, f := range fs {
		if f.IsLocal() {
			n++
		}
	}
	return n
}

// URLs returns the remote URLs in order, skipping unresolved refs.
func (fs Files) URLs() []string {
	urls := make([]string, 0, len(fs))
	for _, f := range fs {
		if f.IsRemote() {
			urls = append(urls, f.url)
		}
	}
	return urls
}

// Names returns a display string per ref, used for required checks.
func (fs Files) Names() []string {
	names := make([]string, 0, len(fs))
	for _, f := range fs {
		if s := f.String(); s != "" {
			names = append(names, s)
		}
	}
	return names
}

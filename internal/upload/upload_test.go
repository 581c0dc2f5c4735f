// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakePoster struct {
	mu       sync.Mutex
	calls    []string
	response func(name string) ([]byte, error)
}

func (p *fakePoster) PostFile(ctx context.Context, path, field, filename string, r io.Reader) ([]byte, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.calls = append(p.calls, path+"|"+field+"|"+filename)
	p.mu.Unlock()
	if p.response != nil {
		return p.response(filename)
	}
	return []byte(fmt.Sprintf(`{"success":true,"data":{"url":"https://cdn.test/%s"}}`, filename)), nil
}

func (p *fakePoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func memFile(name string, data []byte) FileRef {
	return Local(name, int64(len(data)), time.Unix(0, 0), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"data.url", `{"data":{"url":"https://cdn/a.png"}}`, "https://cdn/a.png"},
		{"data.file.url", `{"data":{"file":{"url":"https://cdn/b.png"}}}`, "https://cdn/b.png"},
		{"data string", `{"success":true,"data":"https://cdn/c.png"}`, "https://cdn/c.png"},
		{"bare json string", `"https://cdn/d.png"`, "https://cdn/d.png"},
		{"plain text", "https://cdn/e.png\n", "https://cdn/e.png"},
		{"top-level url", `{"url":"/uploads/f.png"}`, "/uploads/f.png"},
		{"location", `{"data":{"location":"https://cdn/g.png"}}`, "https://cdn/g.png"},
		{"empty url skipped", `{"data":{"url":"","file":{"url":"https://cdn/h.png"}}}`, "https://cdn/h.png"},
		{"nothing", `{"success":true}`, ""},
		{"garbage", "oops", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseURL([]byte(tt.body)))
		})
	}
}

func TestUploader_Upload(t *testing.T) {
	p := &fakePoster{}
	u := NewUploader(p, Options{Logger: testLogger()})

	url, err := u.Upload(context.Background(), memFile("logo.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/logo.png", url)
	assert.Equal(t, []string{"/upload/upload-file|file|logo.png"}, p.calls)
}

func TestUploader_RemoteIsNoop(t *testing.T) {
	p := &fakePoster{}
	u := NewUploader(p, Options{Logger: testLogger()})

	url, err := u.Upload(context.Background(), Remote("https://cdn.test/old.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/old.png", url)
	assert.Zero(t, p.count())
}

func TestUploader_Limits(t *testing.T) {
	p := &fakePoster{}
	u := NewUploader(p, Options{MaxSize: 8, AllowedTypes: []string{"image/"}, Logger: testLogger()})

	_, err := u.Upload(context.Background(), memFile("big.png", pngHeader))
	assert.ErrorIs(t, err, ErrTooLarge)

	// Declared size lies; the read is still capped.
	lying := Local("liar.png", 1, time.Time{}, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(pngHeader)), nil
	})
	_, err = u.Upload(context.Background(), lying)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = u.Upload(context.Background(), memFile("notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, ErrTypeNotAllowed)

	assert.Zero(t, p.count())
}

func TestUploader_NoURL(t *testing.T) {
	p := &fakePoster{response: func(string) ([]byte, error) { return []byte(`{"success":true}`), nil }}
	u := NewUploader(p, Options{Logger: testLogger()})

	_, err := u.Upload(context.Background(), memFile("a.png", pngHeader))
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestAdapter_Resolve(t *testing.T) {
	p := &fakePoster{}
	a := NewAdapter(NewUploader(p, Options{Logger: testLogger()}), 2, testLogger())

	in := map[string]Files{
		"photo":   {memFile("logo.png", pngHeader)},
		"gallery": {Remote("https://cdn.test/keep.png"), memFile("g1.png", pngHeader), memFile("g2.png", pngHeader)},
		"banner":  {Remote("https://cdn.test/banner.png")},
	}

	out, err := a.Resolve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 3, p.count())
	assert.Equal(t, int64(3), a.Uploads())
	assert.Equal(t, []string{"https://cdn.test/logo.png"}, out["photo"].URLs())
	assert.Equal(t, []string{"https://cdn.test/keep.png", "https://cdn.test/g1.png", "https://cdn.test/g2.png"}, out["gallery"].URLs())
	assert.Equal(t, []string{"https://cdn.test/banner.png"}, out["banner"].URLs())

	// Input untouched.
	assert.Equal(t, 2, in["gallery"].Pending())
}

func TestAdapter_NothingPending(t *testing.T) {
	p := &fakePoster{}
	a := NewAdapter(NewUploader(p, Options{Logger: testLogger()}), 0, testLogger())

	out, err := a.Resolve(context.Background(), map[string]Files{"photo": {Remote("https://cdn.test/x.png")}})
	require.NoError(t, err)
	assert.Zero(t, p.count())
	assert.Equal(t, "https://cdn.test/x.png", out["photo"][0].URL())
}

func TestAdapter_FirstFailureAborts(t *testing.T) {
	p := &fakePoster{response: func(name string) ([]byte, error) {
		if strings.HasPrefix(name, "bad") {
			return nil, errors.New("storage full")
		}
		return []byte(`{"data":{"url":"https://cdn.test/` + name + `"}}`), nil
	}}
	a := NewAdapter(NewUploader(p, Options{Logger: testLogger()}), 1, testLogger())

	_, err := a.Resolve(context.Background(), map[string]Files{
		"photo":   {memFile("bad.png", pngHeader)},
		"gallery": {memFile("ok.png", pngHeader)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage full")
	assert.Contains(t, err.Error(), "photo")
}

func TestLocalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	ref, err := LocalPath(path)
	require.NoError(t, err)
	assert.True(t, ref.IsLocal())
	assert.Equal(t, "logo.png", ref.Name())
	assert.Equal(t, int64(len(pngHeader)), ref.Size())

	rc, err := ref.Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = LocalPath(dir)
	assert.Error(t, err)
	_, err = LocalPath(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestFileRef(t *testing.T) {
	r := Remote(" https://cdn.test/a/b.png ")
	assert.True(t, r.IsRemote())
	assert.Equal(t, "https://cdn.test/a/b.png", r.URL())
	assert.Equal(t, "b.png", r.Name())
	_, err := r.Open()
	assert.Error(t, err)

	var zero FileRef
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
}

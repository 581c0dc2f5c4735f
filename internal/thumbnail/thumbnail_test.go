// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package thumbnail

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/cmsadmin/internal/upload"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, createTestImage(width, height)))
	return buf.Bytes()
}

func countingRef(name string, data []byte, opens *atomic.Int32) upload.FileRef {
	return upload.Local(name, int64(len(data)), time.Unix(1700000000, 0), func() (io.ReadCloser, error) {
		opens.Add(1)
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestThumbnail_Remote(t *testing.T) {
	g, err := New(Options{})
	require.NoError(t, err)

	uri, err := g.Thumbnail(upload.Remote("https://cdn.test/logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/logo.png", uri)
	assert.Zero(t, g.Len())
}

func TestThumbnail_LocalFitsBox(t *testing.T) {
	g, err := New(Options{Width: 100, Height: 100})
	require.NoError(t, err)

	var opens atomic.Int32
	uri, err := g.Thumbnail(countingRef("wide.png", pngBytes(t, 400, 200), &opens))
	require.NoError(t, err)

	b := decodeDataURI(t, uri).Bounds()
	assert.Equal(t, 100, b.Dx())
	assert.Equal(t, 50, b.Dy())
}

func TestThumbnail_SmallImageNotUpscaled(t *testing.T) {
	g, err := New(Options{Width: 100, Height: 100})
	require.NoError(t, err)

	var opens atomic.Int32
	uri, err := g.Thumbnail(countingRef("tiny.png", pngBytes(t, 20, 10), &opens))
	require.NoError(t, err)

	b := decodeDataURI(t, uri).Bounds()
	assert.Equal(t, 20, b.Dx())
	assert.Equal(t, 10, b.Dy())
}

func TestThumbnail_Memoized(t *testing.T) {
	g, err := New(Options{CacheSize: 4})
	require.NoError(t, err)

	var opens atomic.Int32
	ref := countingRef("logo.png", pngBytes(t, 50, 50), &opens)

	first, err := g.Thumbnail(ref)
	require.NoError(t, err)
	second, err := g.Thumbnail(ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), opens.Load())
	assert.Equal(t, 1, g.Len())
}

func TestThumbnail_NotImage(t *testing.T) {
	g, err := New(Options{})
	require.NoError(t, err)

	var opens atomic.Int32
	_, err = g.Thumbnail(countingRef("brochure.txt", []byte("plain text"), &opens))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestThumbnail_Zero(t *testing.T) {
	g, err := New(Options{})
	require.NoError(t, err)

	uri, err := g.Thumbnail(upload.FileRef{})
	require.NoError(t, err)
	assert.Empty(t, uri)
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		assert.Equal(t, tt.wantW, b.Dx(), "orientation %d", tt.orientation)
		assert.Equal(t, tt.wantH, b.Dy(), "orientation %d", tt.orientation)
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage(pngBytes(t, 2, 2)))
	assert.False(t, IsImage([]byte("%PDF-1.4")))
}

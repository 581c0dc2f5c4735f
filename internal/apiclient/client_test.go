// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api", Token: "secret", Logger: testLogger()})
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "/api", "::"} {
		_, err := New(Options{BaseURL: base})
		assert.Error(t, err, "base %q", base)
	}
}

func TestClient_Do_SendsJSONAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/brand/create-brand", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Acme"}`, string(body))
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	body, err := c.Do(context.Background(), http.MethodPost, "/brand/create-brand", nil, map[string]string{"name": "Acme"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(body))
}

func TestClient_Do_RawJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Do(context.Background(), http.MethodPost, "x", nil, []byte(`{"a":1}`))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodPost, "x", nil, []byte(`{not json`))
	assert.Error(t, err)
}

func TestClient_Do_ServerErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"message field", http.StatusInternalServerError, `{"message":"Brand name already exists"}`, 500, "Brand name already exists"},
		{"error field", http.StatusBadRequest, `{"error":"bad payload"}`, 400, "bad payload"},
		{"nested error", http.StatusUnprocessableEntity, `{"error":{"message":"invalid"}}`, 422, "invalid"},
		{"plain text", http.StatusBadGateway, `upstream down`, 502, "upstream down"},
		{"empty body", http.StatusServiceUnavailable, ``, 503, "Service Unavailable"},
		{"success false on 200", http.StatusOK, `{"success":false,"message":"Not allowed"}`, 200, "Not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)
			require.Error(t, err)

			var serverErr *ServerError
			require.True(t, errors.As(err, &serverErr), "error %T should be a ServerError", err)
			assert.Equal(t, tt.wantStatus, serverErr.Status)
			assert.Equal(t, tt.wantMessage, serverErr.Message)
			assert.Equal(t, tt.wantMessage, Message(err))
			assert.False(t, IsTransport(err))
		})
	}
}

func TestClient_Do_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Brand not found"}`, http.StatusNotFound)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Do_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: base, Timeout: time.Second, Logger: testLogger()})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, Message(err), "Network error")
}

func TestClient_PostFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer func() { _ = f.Close() }()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "logo.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))
		_, _ = w.Write([]byte(`{"data":{"url":"https://cdn/logo.png"}}`))
	})

	body, err := c.PostFile(context.Background(), "/upload/upload-file", "file", "logo.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "https://cdn/logo.png")
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, RateLimit: 0.5, Logger: testLogger()})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodGet, "/a", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, http.MethodGet, "/b", nil, nil)
	assert.True(t, IsTransport(err), "second request inside the limit window should fail on context, got %v", err)
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

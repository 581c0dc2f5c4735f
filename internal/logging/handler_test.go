// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/olegiv/cmsadmin/internal/notify"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestNotifyHandler_ForwardsErrors(t *testing.T) {
	center := notify.NewCenter(10)
	logger := slog.New(NewNotifyHandler(discardHandler{}, center))

	logger.Error("upload failed", "file", "logo.png")

	last, ok := center.Last()
	if !ok {
		t.Fatal("expected a notification")
	}
	if last.Level != notify.LevelError {
		t.Errorf("Level = %q, want error", last.Level)
	}
	if last.Category != notify.CategoryUpload {
		t.Errorf("Category = %q, want %q", last.Category, notify.CategoryUpload)
	}
	if last.Message != "upload failed" {
		t.Errorf("Message = %q", last.Message)
	}
}

func TestNotifyHandler_SkipsBelowThreshold(t *testing.T) {
	center := notify.NewCenter(10)
	logger := slog.New(NewNotifyHandler(discardHandler{}, center))

	logger.Info("fetched page", "page", 2)
	logger.Debug("debounce tick")

	if n := len(center.Recent()); n != 0 {
		t.Errorf("got %d notifications for info/debug logs, want 0", n)
	}
}

func TestNotifyHandler_CustomLevel(t *testing.T) {
	center := notify.NewCenter(10)
	logger := slog.New(NewNotifyHandlerWithLevel(discardHandler{}, center, slog.LevelInfo))

	logger.Info("session renewed")

	last, ok := center.Last()
	if !ok {
		t.Fatal("expected a notification at info level")
	}
	if last.Level != notify.LevelInfo || last.Category != notify.CategorySession {
		t.Errorf("notification = %+v", last)
	}
}

func TestNotifyHandler_Category(t *testing.T) {
	tests := []struct {
		name    string
		log     func(*slog.Logger)
		wantCat string
	}{
		{
			name:    "explicit attribute",
			log:     func(l *slog.Logger) { l.Warn("something odd", "category", "custom") },
			wantCat: "custom",
		},
		{
			name:    "bound through With",
			log:     func(l *slog.Logger) { l.With("category", "bound").Warn("something odd") },
			wantCat: "bound",
		},
		{
			name:    "inferred resource",
			log:     func(l *slog.Logger) { l.Warn("failed to fetch page") },
			wantCat: notify.CategoryResource,
		},
		{
			name:    "fallback system",
			log:     func(l *slog.Logger) { l.Warn("clock skew") },
			wantCat: notify.CategorySystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := notify.NewCenter(10)
			tt.log(slog.New(NewNotifyHandler(discardHandler{}, center)))

			last, ok := center.Last()
			if !ok {
				t.Fatal("expected a notification")
			}
			if last.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", last.Category, tt.wantCat)
			}
		})
	}
}

func TestNotifyHandler_WritesInner(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	center := notify.NewCenter(10)
	logger := slog.New(NewNotifyHandler(inner, center)).WithGroup("req")

	logger.Warn("save rejected", "status", 422)

	if buf.Len() != 0 {
		t.Errorf("inner handler at error level should not receive warn, got %q", buf.String())
	}
	if _, ok := center.Last(); !ok {
		t.Error("warn should still reach the notifier")
	}

	logger.Error("save failed")
	if !strings.Contains(buf.String(), "save failed") {
		t.Errorf("inner output %q missing error record", buf.String())
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the notification center so they surface to the user as toasts.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/olegiv/cmsadmin/internal/notify"
)

// NotifyHandler is a slog.Handler that wraps another handler and also pushes
// WARN and ERROR records to a notify.Notifier.
type NotifyHandler struct {
	inner    slog.Handler
	notifier notify.Notifier
	level    slog.Level // Minimum level to forward (default: WARN)
	category string     // category bound through WithAttrs
}

// NewNotifyHandler creates a NotifyHandler forwarding WARN and above.
func NewNotifyHandler(inner slog.Handler, n notify.Notifier) *NotifyHandler {
	return NewNotifyHandlerWithLevel(inner, n, slog.LevelWarn)
}

// NewNotifyHandlerWithLevel creates a NotifyHandler with a custom minimum level.
func NewNotifyHandlerWithLevel(inner slog.Handler, n notify.Notifier, level slog.Level) *NotifyHandler {
	return &NotifyHandler{
		inner:    inner,
		notifier: n,
		level:    level,
	}
}

// Enabled implements slog.Handler.
func (h *NotifyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || level >= h.level
}

// Handle implements slog.Handler.
func (h *NotifyHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.notifier.Notify(notify.Notification{
			Level:    levelToNotify(r.Level),
			Category: h.extractCategory(r),
			Message:  r.Message,
			Time:     r.Time,
		})
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *NotifyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	category := h.category
	for _, a := range attrs {
		if a.Key == "category" {
			category = a.Value.String()
		}
	}
	return &NotifyHandler{
		inner:    h.inner.WithAttrs(attrs),
		notifier: h.notifier,
		level:    h.level,
		category: category,
	}
}

// WithGroup implements slog.Handler.
func (h *NotifyHandler) WithGroup(name string) slog.Handler {
	return &NotifyHandler{
		inner:    h.inner.WithGroup(name),
		notifier: h.notifier,
		level:    h.level,
		category: h.category,
	}
}

func levelToNotify(level slog.Level) notify.Level {
	switch {
	case level >= slog.LevelError:
		return notify.LevelError
	case level >= slog.LevelWarn:
		return notify.LevelWarning
	default:
		return notify.LevelInfo
	}
}

// extractCategory looks for a "category" attribute, then a bound category,
// and finally infers one from the message.
func (h *NotifyHandler) extractCategory(r slog.Record) string {
	var category string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})

	if category != "" {
		return category
	}
	if h.category != "" {
		return h.category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "upload") || strings.Contains(msg, "file"):
		return notify.CategoryUpload
	case strings.Contains(msg, "session"):
		return notify.CategorySession
	case strings.Contains(msg, "record") || strings.Contains(msg, "resource") ||
		strings.Contains(msg, "fetch") || strings.Contains(msg, "save") || strings.Contains(msg, "delete"):
		return notify.CategoryResource
	default:
		return notify.CategorySystem
	}
}

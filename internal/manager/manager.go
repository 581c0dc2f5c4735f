// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package manager assembles the Resource Manager for one catalog entry:
// the paginated table, the create/edit dialog, row actions and the
// notifications they produce.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/form"
	"github.com/olegiv/cmsadmin/internal/listing"
	"github.com/olegiv/cmsadmin/internal/notify"
)

// ErrCanceled is returned by Delete when the confirmation is declined.
var ErrCanceled = errors.New("canceled by user")

// Confirmer asks the user to acknowledge a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm acknowledges every prompt (the --yes flag).
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Options configures a Manager.
type Options struct {
	PageSize    int
	Debounce    time.Duration
	Filters     map[string]string
	Resolver    form.Resolver
	Thumbnailer form.Thumbnailer
	Notifier    notify.Notifier
	Logger      *slog.Logger
}

// Manager is the CRUD screen of one resource. T is the row type the table
// decodes; the dialog always works on apiclient.Record so it can keep
// fields the schema does not know about.
type Manager[T any] struct {
	def      catalog.Definition
	rows     *apiclient.Resource[T]
	records  *apiclient.Resource[apiclient.Record]
	list     *listing.Controller[T]
	form     *form.Controller
	notifier notify.Notifier
	logger   *slog.Logger
}

// New builds a Manager for def on top of client.
func New[T any](client *apiclient.Client, def catalog.Definition, opts Options) *Manager[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	m := &Manager[T]{
		def:      def,
		rows:     apiclient.NewResource[T](client, def.Name, def.Endpoints),
		records:  apiclient.NewResource[apiclient.Record](client, def.Name, def.Endpoints),
		notifier: notifier,
		logger:   logger.With(slog.String("component", "manager"), slog.String("resource", def.Name)),
	}
	m.list = listing.NewController[T](def.Name, m.rows, listing.Options{
		PageSize: opts.PageSize,
		Debounce: opts.Debounce,
		Filters:  opts.Filters,
		Notifier: notifier,
		Logger:   logger,
	})
	m.form = form.NewController(def.Schema, m.records, form.Options{
		Label:       def.Label,
		Resolver:    opts.Resolver,
		Thumbnailer: opts.Thumbnailer,
		Notifier:    notifier,
		Logger:      logger,
		OnSaved: func(ctx context.Context, _ apiclient.Record) {
			// Errors were already surfaced by the list controller.
			_ = m.list.Refetch(ctx)
		},
	})
	return m
}

// Definition returns the catalog entry this manager serves.
func (m *Manager[T]) Definition() catalog.Definition {
	return m.def
}

// List returns the table's list controller.
func (m *Manager[T]) List() *listing.Controller[T] {
	return m.list
}

// Form returns the create/edit dialog controller.
func (m *Manager[T]) Form() *form.Controller {
	return m.form
}

// Open loads the first page.
func (m *Manager[T]) Open(ctx context.Context) error {
	return m.list.Load(ctx)
}

// Close releases the list controller.
func (m *Manager[T]) Close() {
	m.list.Close()
}

// Create opens an empty dialog.
func (m *Manager[T]) Create() error {
	return m.form.OpenCreate()
}

// View fetches one record for read-only display.
func (m *Manager[T]) View(ctx context.Context, id string) (T, error) {
	rec, err := m.rows.Get(ctx, id)
	if err != nil {
		m.fail("view", id, err)
		return rec, err
	}
	return rec, nil
}

// Edit opens the dialog on an existing record.
func (m *Manager[T]) Edit(ctx context.Context, id string) error {
	return m.form.OpenEdit(ctx, id)
}

// Delete removes a record after c acknowledges it. A declined
// confirmation issues no request and returns ErrCanceled.
func (m *Manager[T]) Delete(ctx context.Context, id string, c Confirmer) error {
	if id == "" {
		return errors.New("id is required")
	}
	ok, err := c.Confirm(ctx, fmt.Sprintf("Delete this %s? This cannot be undone.", lower(m.def.Label)))
	if err != nil {
		return fmt.Errorf("confirming delete: %w", err)
	}
	if !ok {
		m.logger.Debug("delete canceled", "id", id)
		return ErrCanceled
	}

	if err := m.rows.Delete(ctx, id); err != nil {
		m.fail("delete", id, err)
		return err
	}

	m.logger.Info("record deleted", "id", id)
	m.notifier.Notify(notify.Notification{
		Level:    notify.LevelSuccess,
		Category: notify.CategoryResource,
		Message:  m.def.Label + " deleted successfully",
	})
	// A failed refetch is already reported by the list controller.
	_ = m.list.RefetchAfterDelete(ctx)
	return nil
}

func (m *Manager[T]) fail(action, id string, err error) {
	m.logger.Info(action+" failed", "id", id, "error", err)
	m.notifier.Notify(notify.Notification{
		Level:    notify.LevelError,
		Category: notify.CategoryResource,
		Message:  apiclient.Message(err),
	})
}

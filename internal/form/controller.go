// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form is the create/edit dialog controller. Its state is a
// single Phase value with the draft, the record id being edited and the
// last error attached, moved through a fixed transition matrix.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/notify"
	"github.com/olegiv/cmsadmin/internal/upload"
	"github.com/olegiv/cmsadmin/internal/validate"
)

var (
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("form is submitting")
	// ErrNotOpen is returned when no draft is open.
	ErrNotOpen = errors.New("form is not open")
	// ErrUnknownField is returned for names missing from the schema.
	ErrUnknownField = errors.New("unknown field")
)

// Backend is the part of a resource client the form needs.
type Backend interface {
	Get(ctx context.Context, id string) (apiclient.Record, error)
	Create(ctx context.Context, payload any) (apiclient.Record, error)
	Update(ctx context.Context, id string, payload any) (apiclient.Record, error)
}

// Resolver turns local file refs into remote ones.
type Resolver interface {
	Resolve(ctx context.Context, fields map[string]upload.Files) (map[string]upload.Files, error)
}

// Thumbnailer renders a preview for a file ref.
type Thumbnailer interface {
	Thumbnail(ref upload.FileRef) (string, error)
}

// State is a snapshot of the dialog.
type State struct {
	Phase       Phase
	EditingID   string
	Draft       Draft
	LastError   string
	FieldErrors validate.Errors
}

// Options configures a Controller.
type Options struct {
	Label       string // singular display name, e.g. "Brand"
	Resolver    Resolver
	Thumbnailer Thumbnailer
	Notifier    notify.Notifier
	Logger      *slog.Logger
	// OnSaved runs after a successful create or update, once the dialog
	// has closed. The list refetch hangs off it.
	OnSaved func(ctx context.Context, rec apiclient.Record)
}

// Controller owns one resource's create/edit dialog.
type Controller struct {
	schema   Schema
	backend  Backend
	resolver Resolver
	thumbs   Thumbnailer
	notifier notify.Notifier
	logger   *slog.Logger
	label    string
	onSaved  func(ctx context.Context, rec apiclient.Record)

	mu       sync.Mutex
	state    State
	original *Original // record being edited, nil while creating
	ticket  uint64 // bumped on every open/close so late loads are dropped
	history []TransitionRecord
	subs    map[int]func(State)
	nextSub int
}

// NewController creates a closed form.
func NewController(schema Schema, backend Backend, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	label := opts.Label
	if label == "" {
		label = "Record"
	}
	return &Controller{
		schema:   schema,
		backend:  backend,
		resolver: opts.Resolver,
		thumbs:   opts.Thumbnailer,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "form"), slog.String("form", label)),
		label:    label,
		onSaved:  opts.OnSaved,
		subs:     make(map[int]func(State)),
	}
}

// Schema returns the form's field list.
func (c *Controller) Schema() Schema {
	return c.schema
}

// State returns a snapshot; the draft is a copy.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if s.Draft != nil {
		s.Draft = s.Draft.Clone()
	}
	if s.FieldErrors != nil {
		fe := make(validate.Errors, len(s.FieldErrors))
		for k, v := range s.FieldErrors {
			fe[k] = v
		}
		s.FieldErrors = fe
	}
	return s
}

// History returns the phase transitions so far.
func (c *Controller) History() []TransitionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]TransitionRecord(nil), c.history...)
}

// Subscribe registers fn for every state change.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) publish() {
	c.mu.Lock()
	s := c.snapshotLocked()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// transitionLocked moves to phase to. Must be called with lock held.
func (c *Controller) transitionLocked(to Phase) error {
	from := c.state.Phase
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	c.state.Phase = to
	c.history = append(c.history, TransitionRecord{From: from, To: to, At: time.Now()})
	return nil
}

// OpenCreate opens a blank draft with every field at its default.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	if err := c.transitionLocked(Creating); err != nil {
		c.mu.Unlock()
		return err
	}
	c.ticket++
	c.original = nil
	c.state = State{Phase: Creating, Draft: c.schema.Defaults()}
	c.mu.Unlock()

	c.publish()
	return nil
}

// OpenEdit loads record id and opens it as a draft. If the load fails the
// dialog closes again and the error is notified.
func (c *Controller) OpenEdit(ctx context.Context, id string) error {
	c.mu.Lock()
	if err := c.transitionLocked(LoadingForEdit); err != nil {
		c.mu.Unlock()
		return err
	}
	c.ticket++
	ticket := c.ticket
	c.state = State{Phase: LoadingForEdit, EditingID: id}
	c.mu.Unlock()
	c.publish()

	rec, err := c.backend.Get(ctx, id)
	var original *Original
	if err == nil {
		original, err = c.schema.NewOriginal(rec)
	}

	c.mu.Lock()
	if c.ticket != ticket || c.state.Phase != LoadingForEdit {
		// Cancelled while loading.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		_ = c.transitionLocked(Closed)
		c.original = nil
		c.state = State{Phase: Closed}
		c.mu.Unlock()
		c.logger.Info("record load failed", "id", id, "error", err)
		c.notifier.Notify(notify.Notification{
			Level:    notify.LevelError,
			Category: notify.CategoryResource,
			Message:  apiclient.Message(err),
		})
		c.publish()
		return err
	}
	_ = c.transitionLocked(Editing)
	c.original = original
	c.state.Draft = original.Draft.Clone()
	c.mu.Unlock()

	c.publish()
	return nil
}

func (c *Controller) editableLocked(name string) (Field, error) {
	if !c.state.Phase.Open() {
		return Field{}, ErrNotOpen
	}
	if c.state.Phase == Submitting {
		return Field{}, ErrBusy
	}
	f, ok := c.schema.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return f, nil
}

// Set assigns a non-file field.
func (c *Controller) Set(name string, value any) error {
	c.mu.Lock()
	f, err := c.editableLocked(name)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if f.Kind.IsFile() {
		c.mu.Unlock()
		return fmt.Errorf("%s is a file field", name)
	}
	c.state.Draft[name] = value
	delete(c.state.FieldErrors, name)
	c.mu.Unlock()

	c.publish()
	return nil
}

// SelectFile replaces the content of a file field with ref.
func (c *Controller) SelectFile(name string, ref upload.FileRef) error {
	return c.mutateFiles(name, func(upload.Files) upload.Files {
		return upload.Files{ref}
	})
}

// AddFile appends ref to a multi-file field.
func (c *Controller) AddFile(name string, ref upload.FileRef) error {
	return c.mutateFiles(name, func(fs upload.Files) upload.Files {
		return append(fs, ref)
	})
}

// RemoveFile drops the ref at index i.
func (c *Controller) RemoveFile(name string, i int) error {
	return c.mutateFiles(name, func(fs upload.Files) upload.Files {
		if i < 0 || i >= len(fs) {
			return fs
		}
		return append(fs[:i:i], fs[i+1:]...)
	})
}

func (c *Controller) mutateFiles(name string, fn func(upload.Files) upload.Files) error {
	c.mu.Lock()
	f, err := c.editableLocked(name)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if !f.Kind.IsFile() {
		c.mu.Unlock()
		return fmt.Errorf("%s is not a file field", name)
	}
	files := fn(append(upload.Files(nil), c.state.Draft.Files(name)...))
	if f.Kind == KindFile && len(files) > 1 {
		files = files[len(files)-1:]
	}
	c.state.Draft[name] = files
	delete(c.state.FieldErrors, name)
	c.mu.Unlock()

	c.publish()
	return nil
}

// Thumbnails returns a displayable preview per ref of a file field.
// Refs that cannot be previewed yield "".
func (c *Controller) Thumbnails(name string) []string {
	c.mu.Lock()
	files := append(upload.Files(nil), c.state.Draft.Files(name)...)
	c.mu.Unlock()

	out := make([]string, len(files))
	for i, ref := range files {
		if c.thumbs == nil {
			out[i] = ref.URL()
			continue
		}
		thumb, err := c.thumbs.Thumbnail(ref)
		if err != nil {
			c.logger.Debug("no preview", "field", name, "file", ref.Name(), "error", err)
			continue
		}
		out[i] = thumb
	}
	return out
}

// Submit validates the draft, uploads pending files, sends the create or
// update call and closes the dialog. Field errors block the call and
// leave the phase unchanged. Any other failure returns the dialog to the
// phase it was in with LastError set.
func (c *Controller) Submit(ctx context.Context) (apiclient.Record, error) {
	c.mu.Lock()
	from := c.state.Phase
	if !from.Open() {
		c.mu.Unlock()
		return nil, ErrNotOpen
	}
	if from == Submitting {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	draft := c.schema.Normalize(c.state.Draft)
	c.state.Draft = draft.Clone()
	if errs := c.schema.Validate(draft); len(errs) > 0 {
		c.state.FieldErrors = errs
		c.state.LastError = ""
		c.mu.Unlock()
		c.publish()
		return nil, errs
	}

	_ = c.transitionLocked(Submitting)
	c.state.FieldErrors = nil
	c.state.LastError = ""
	id := c.state.EditingID
	original := c.original
	ticket := c.ticket
	c.mu.Unlock()
	c.publish()

	rec, err := c.save(ctx, id, original, draft, ticket)
	if err != nil {
		c.mu.Lock()
		_ = c.transitionLocked(from)
		c.state.LastError = apiclient.Message(err)
		c.mu.Unlock()

		c.logger.Info("save failed", "id", id, "error", err)
		c.notifier.Notify(notify.Notification{
			Level:    notify.LevelError,
			Category: categoryOf(err),
			Message:  apiclient.Message(err),
		})
		c.publish()
		return nil, err
	}

	c.mu.Lock()
	_ = c.transitionLocked(Closed)
	c.ticket++
	c.original = nil
	c.state = State{Phase: Closed}
	c.mu.Unlock()

	verb := "created"
	if id != "" {
		verb = "updated"
	}
	c.notifier.Notify(notify.Notification{
		Level:    notify.LevelSuccess,
		Category: notify.CategoryResource,
		Message:  fmt.Sprintf("%s %s successfully", c.label, verb),
	})
	c.publish()

	if c.onSaved != nil {
		c.onSaved(ctx, rec)
	}
	return rec, nil
}

// uploadError marks failures of the upload step.
type uploadError struct{ err error }

func (e *uploadError) Error() string { return e.err.Error() }
func (e *uploadError) Unwrap() error { return e.err }

func categoryOf(err error) string {
	var ue *uploadError
	if errors.As(err, &ue) {
		return notify.CategoryUpload
	}
	return notify.CategoryResource
}

func (c *Controller) save(ctx context.Context, id string, original *Original, draft Draft, ticket uint64) (apiclient.Record, error) {
	if pending := draft.PendingFiles(); len(pending) > 0 {
		if c.resolver == nil {
			return nil, errors.New("no uploader configured for file fields")
		}
		resolved, err := c.resolver.Resolve(ctx, pending)
		if err != nil {
			return nil, &uploadError{err: err}
		}
		for name, files := range resolved {
			draft[name] = files
		}
		// Keep the URLs so a retry after a failed save does not upload again.
		c.mu.Lock()
		if c.ticket == ticket {
			for name, files := range resolved {
				c.state.Draft[name] = append(upload.Files(nil), files...)
			}
		}
		c.mu.Unlock()
	}

	if id == "" {
		payload, err := c.schema.Payload(draft)
		if err != nil {
			return nil, err
		}
		return c.backend.Create(ctx, json.RawMessage(payload))
	}
	payload, err := c.schema.EditPayload(original, draft)
	if err != nil {
		return nil, err
	}
	return c.backend.Update(ctx, id, json.RawMessage(payload))
}

// Cancel discards the draft and closes the dialog. It is refused while
// submitting.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	switch c.state.Phase {
	case Closed:
		c.mu.Unlock()
		return nil
	case Submitting:
		c.mu.Unlock()
		return ErrBusy
	}
	_ = c.transitionLocked(Closed)
	c.ticket++
	c.original = nil
	c.state = State{Phase: Closed}
	c.mu.Unlock()

	c.publish()
	return nil
}

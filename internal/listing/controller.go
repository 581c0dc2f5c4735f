// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing is the List State Controller: it owns page, page size
// and search text for one table and reconciles them into fetch calls.
// Search is debounced, pagination is not, nothing is cached across pages
// and every mutation elsewhere is followed by a full refetch.
package listing

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/notify"
)

// DefaultPageSize is used when Options.PageSize is not set.
const DefaultPageSize = 10

// Fetcher is the list half of a resource client.
type Fetcher[T any] interface {
	List(ctx context.Context, q apiclient.Query) (apiclient.Page[T], error)
}

// Query is the list query state.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// State is a snapshot of what the table shows. Total is whatever the
// server reported; Page*PageSize need not bound it.
type State[T any] struct {
	Query      Query
	Records    []T
	Total      int
	Loading    bool
	Err        error
	Generation uint64
}

// Pagination builds pager data for the snapshot.
func (s State[T]) Pagination() Pagination {
	return BuildPagination(s.Query.Page, s.Total, s.Query.PageSize)
}

// Options configures a Controller.
type Options struct {
	PageSize int
	Debounce time.Duration
	Filters  map[string]string
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Controller owns one table's list state.
type Controller[T any] struct {
	name      string
	fetcher   Fetcher[T]
	filters   map[string]string
	notifier  notify.Notifier
	logger    *slog.Logger
	debouncer *Debouncer[string]

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State[T] // Query is the query of the rows on screen
	want    Query    // query of the most recently issued fetch
	issued  uint64   // generation of the most recently issued fetch
	subs    map[int]func(State[T])
	nextSub int
}

// NewController creates a controller for the named resource. No fetch is
// issued until Load is called.
func NewController[T any](name string, f Fetcher[T], opts Options) *Controller[T] {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	initial := Query{Page: 1, PageSize: pageSize}
	c := &Controller[T]{
		name:     name,
		fetcher:  f,
		filters:  opts.Filters,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "list_controller"), slog.String("resource", name)),
		ctx:      ctx,
		cancel:   cancel,
		state:    State[T]{Query: initial},
		want:     initial,
		subs: make(map[int]func(State[T])),
	}
	c.debouncer = NewDebouncer(DebounceConfig{Interval: opts.Debounce}, c.applySearch)
	return c
}

// State returns a snapshot of the current list state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	s.Records = append([]T(nil), c.state.Records...)
	return s
}

// Subscribe registers fn to receive every state change.
func (c *Controller[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
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

func (c *Controller[T]) publish() {
	c.mu.Lock()
	s := c.snapshotLocked()
	subs := make([]func(State[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Load fetches the current page.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.fetch(ctx, c.next(nil))
}

// Refetch reloads the current page; called after every create, update or
// delete instead of patching local state.
func (c *Controller[T]) Refetch(ctx context.Context) error {
	return c.fetch(ctx, c.next(nil))
}

// RefetchAfterDelete reloads the current page and steps back one page
// when the deletion emptied a page other than the first.
func (c *Controller[T]) RefetchAfterDelete(ctx context.Context) error {
	if err := c.fetch(ctx, c.next(nil)); err != nil {
		return err
	}
	s := c.State()
	if len(s.Records) == 0 && s.Query.Page > 1 {
		return c.SetPage(ctx, s.Query.Page-1)
	}
	return nil
}

// SetPage moves to page n and fetches it immediately.
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	return c.fetch(ctx, c.next(func(q *Query) { q.Page = n }))
}

// NextPage advances one page if the server reported more.
func (c *Controller[T]) NextPage(ctx context.Context) error {
	s := c.State()
	if !s.Pagination().HasNext {
		return nil
	}
	return c.SetPage(ctx, s.Query.Page+1)
}

// PrevPage goes back one page if possible.
func (c *Controller[T]) PrevPage(ctx context.Context) error {
	s := c.State()
	if s.Query.Page <= 1 {
		return nil
	}
	return c.SetPage(ctx, s.Query.Page-1)
}

// SetPageSize changes the page size, returns to page 1 and fetches.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		size = DefaultPageSize
	}
	return c.fetch(ctx, c.next(func(q *Query) {
		q.PageSize = size
		q.Page = 1
	}))
}

// SetSearch records a keystroke. The fetch happens once the debounce
// window elapses without another keystroke, using the final text.
func (c *Controller[T]) SetSearch(text string) {
	c.debouncer.Trigger(text)
}

// FlushSearch applies a pending search immediately and waits for its fetch.
func (c *Controller[T]) FlushSearch() {
	c.debouncer.Flush()
}

// applySearch runs when the debounce window elapses.
func (c *Controller[T]) applySearch(text string) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	unchanged := text == c.want.Search
	c.mu.Unlock()
	if unchanged {
		return
	}

	_ = c.fetch(c.ctx, c.next(func(q *Query) {
		q.Search = text
		q.Page = 1
	}))
}

// next derives the query for a new fetch from the latest requested one.
func (c *Controller[T]) next(change func(*Query)) Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.want
	if change != nil {
		change(&q)
	}
	return q
}

// fetch issues one list call for q. The query is committed to the state
// only together with its rows; a failed fetch leaves both as they were.
// Results of a fetch superseded by a newer one are discarded.
func (c *Controller[T]) fetch(ctx context.Context, q Query) error {
	c.mu.Lock()
	c.issued++
	gen := c.issued
	c.want = q
	c.state.Loading = true
	c.mu.Unlock()
	c.publish()

	page, err := c.fetcher.List(ctx, apiclient.Query{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Filters:  c.filters,
	})

	c.mu.Lock()
	if gen != c.issued {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded fetch", "generation", gen, "latest", c.issued)
		return nil
	}
	c.state.Loading = false
	c.state.Generation = gen
	if err != nil {
		// Keep the previous page on screen, and its query with it.
		c.state.Err = err
		c.want = c.state.Query
		c.mu.Unlock()
		c.logger.Info("fetch failed", "page", q.Page, "search", q.Search, "error", err)
		c.notifier.Notify(notify.Notification{
			Level:    notify.LevelError,
			Category: notify.CategoryResource,
			Message:  apiclient.Message(err),
		})
		c.publish()
		return err
	}
	c.state.Err = nil
	c.state.Query = q
	c.state.Records = page.Records
	c.state.Total = page.Total
	c.mu.Unlock()

	c.publish()
	return nil
}

// Close stops the debouncer (dropping any pending search) and cancels
// fetches started by it.
func (c *Controller[T]) Close() {
	c.cancel()
	c.debouncer.Stop()
}

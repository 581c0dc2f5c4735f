// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// Query is a list request.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Page is one page of records as reported by the server.
type Page[T any] struct {
	Records  []T
	Total    int
	Page     int
	PageSize int
}

// Resource is a generic CRUD client for one resource dialect.
type Resource[T any] struct {
	client    *Client
	name      string
	endpoints Endpoints
	logger    *slog.Logger
}

// NewResource binds a dialect to a client.
func NewResource[T any](c *Client, name string, ep Endpoints) *Resource[T] {
	return &Resource[T]{
		client:    c,
		name:      name,
		endpoints: ep,
		logger:    c.logger.With(slog.String("resource", name)),
	}
}

// Name returns the resource name.
func (r *Resource[T]) Name() string {
	return r.name
}

// Endpoints returns the dialect this resource speaks.
func (r *Resource[T]) Endpoints() Endpoints {
	return r.endpoints
}

// List fetches one page.
func (r *Resource[T]) List(ctx context.Context, q Query) (Page[T], error) {
	ep := r.endpoints
	params := url.Values{}
	if q.Page > 0 {
		params.Set(ep.PageKey(), strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set(ep.LimitKey(), strconv.Itoa(q.PageSize))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set(ep.SearchKey(), s)
	}
	for k, v := range q.Filters {
		if v != "" {
			params.Set(k, v)
		}
	}

	body, err := r.client.Do(ctx, ep.List.Method, ep.List.Path, params, nil)
	if err != nil {
		return Page[T]{}, fmt.Errorf("listing %s: %w", r.name, err)
	}

	raw, ok := findRecords(body, ep.RecordsPath)
	if !ok {
		return Page[T]{}, fmt.Errorf("listing %s: response has no record list", r.name)
	}

	page := Page[T]{Page: q.Page, PageSize: q.PageSize}
	for _, item := range raw.Array() {
		var rec T
		if err := json.Unmarshal([]byte(item.Raw), &rec); err != nil {
			return Page[T]{}, fmt.Errorf("decoding %s record: %w", r.name, err)
		}
		page.Records = append(page.Records, rec)
	}

	page.Total = findTotal(body, ep.TotalPath)
	if page.Total < 0 {
		// No total in the envelope; the page itself is all we know.
		page.Total = len(page.Records)
	}

	r.logger.Debug("fetched page", "page", q.Page, "limit", q.PageSize, "search", q.Search,
		"records", len(page.Records), "total", page.Total)
	return page, nil
}

// Get fetches a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, errors.New("id is required")
	}
	body, err := r.call(ctx, r.endpoints.Get, id, nil)
	if err != nil {
		return zero, fmt.Errorf("getting %s %s: %w", r.name, id, err)
	}
	raw, ok := findRecord(body, r.endpoints.RecordPath)
	if !ok {
		return zero, fmt.Errorf("getting %s %s: %w", r.name, id, ErrNotFound)
	}
	return decode[T](raw.Raw)
}

// Create submits a new record. The returned value is the record echoed by
// the server, or the zero value when the server only acknowledges.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	data, err := encodeBody(payload)
	if err != nil {
		return zero, err
	}
	body, err := r.call(ctx, r.endpoints.Create, "", data)
	if err != nil {
		return zero, fmt.Errorf("creating %s: %w", r.name, err)
	}
	return r.echoed(body)
}

// Update submits changes to an existing record.
func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var zero T
	if id == "" {
		return zero, errors.New("id is required")
	}
	data, err := encodeBody(payload)
	if err != nil {
		return zero, err
	}
	body, err := r.call(ctx, r.endpoints.Update, id, data)
	if err != nil {
		return zero, fmt.Errorf("updating %s %s: %w", r.name, id, err)
	}
	return r.echoed(body)
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("id is required")
	}
	if _, err := r.call(ctx, r.endpoints.Delete, id, nil); err != nil {
		return fmt.Errorf("deleting %s %s: %w", r.name, id, err)
	}
	return nil
}

func (r *Resource[T]) echoed(body []byte) (T, error) {
	var zero T
	raw, ok := findRecord(body, r.endpoints.RecordPath)
	if !ok {
		return zero, nil
	}
	return decode[T](raw.Raw)
}

// call executes route, placing id where the route expects it.
func (r *Resource[T]) call(ctx context.Context, route Route, id string, payload []byte) ([]byte, error) {
	path := route.Path
	var query url.Values

	if id != "" {
		switch route.IDIn {
		case IDInPath:
			path = strings.ReplaceAll(path, "{"+route.IDKey()+"}", url.PathEscape(id))
		case IDInBody:
			if len(payload) == 0 {
				payload = []byte("{}")
			}
			var err error
			payload, err = sjson.SetBytes(payload, route.IDKey(), id)
			if err != nil {
				return nil, fmt.Errorf("placing id in body: %w", err)
			}
		default:
			query = url.Values{route.IDKey(): {id}}
		}
	}

	var body any
	if payload != nil {
		body = payload
	}
	return r.client.Do(ctx, route.Method, path, query, body)
}

func decode[T any](raw string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("decoding record: %w", err)
	}
	return v, nil
}

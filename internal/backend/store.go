// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// ErrNotFound is returned by stores for unknown ids.
var ErrNotFound = errors.New("record not found")

// Document is one stored record as JSON-compatible values.
type Document map[string]any

// ID returns the document identifier.
func (d Document) ID() string {
	id, _ := d["_id"].(string)
	return id
}

// ListQuery is a page request against one collection.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Store persists documents grouped by resource name.
type Store interface {
	List(ctx context.Context, resource string, q ListQuery) ([]Document, int, error)
	Get(ctx context.Context, resource, id string) (Document, error)
	Create(ctx context.Context, resource string, doc Document) (Document, error)
	Update(ctx context.Context, resource, id string, patch Document) (Document, error)
	Delete(ctx context.Context, resource, id string) error
	Close() error
}

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var folder = cases.Fold()

// matches reports whether any string value of doc contains search,
// compared case-folded. Nested objects and lists are searched too.
func matches(doc Document, search string) bool {
	if search == "" {
		return true
	}
	needle := folder.String(search)
	var walk func(v any) bool
	walk = func(v any) bool {
		switch t := v.(type) {
		case string:
			return strings.Contains(folder.String(t), needle)
		case map[string]any:
			for k, inner := range t {
				if k == "_id" {
					continue
				}
				if walk(inner) {
					return true
				}
			}
		case []any:
			for _, inner := range t {
				if walk(inner) {
					return true
				}
			}
		}
		return false
	}
	return walk(map[string]any(doc))
}

// paginate filters docs by q.Search and cuts out the requested page.
// docs must already be in display order.
func paginate(docs []Document, q ListQuery) ([]Document, int) {
	filtered := docs[:0:0]
	for _, d := range docs {
		if matches(d, q.Search) {
			filtered = append(filtered, d)
		}
	}
	total := len(filtered)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return filtered, total
	}
	start := (page - 1) * limit
	if start >= total {
		return []Document{}, total
	}
	end := min(start+limit, total)
	return filtered[start:end], total
}

// newest sorts by createdAt descending, the order the admin tables show.
func newest(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i]["createdAt"].(string)
		b, _ := docs[j]["createdAt"].(string)
		return a > b
	})
}

// stamp assigns an id and timestamps to a new document.
func stamp(doc Document, now time.Time) Document {
	out := clone(doc)
	delete(out, "id")
	out["_id"] = uuid.NewString()
	ts := now.UTC().Format(timeLayout)
	out["createdAt"] = ts
	out["updatedAt"] = ts
	return out
}

// merge applies patch to doc, keeping identity and creation fields.
func merge(doc, patch Document, now time.Time) Document {
	out := clone(doc)
	for k, v := range patch {
		switch k {
		case "_id", "id", "createdAt":
			continue
		}
		out[k] = v
	}
	out["updatedAt"] = now.UTC().Format(timeLayout)
	return out
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

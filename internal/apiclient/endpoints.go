// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"net/http"
	"strings"
)

// IDPlacement says where a route expects the record identifier.
type IDPlacement int

const (
	// IDInQuery sends the id as a query-string parameter (?id=...).
	IDInQuery IDPlacement = iota
	// IDInBody sends the id as a field of the JSON body.
	IDInBody
	// IDInPath substitutes the id into a "{id}" segment of the path.
	IDInPath
)

func (p IDPlacement) String() string {
	switch p {
	case IDInBody:
		return "body"
	case IDInPath:
		return "path"
	default:
		return "query"
	}
}

// Route is one operation of a resource dialect.
type Route struct {
	Method  string
	Path    string
	IDIn    IDPlacement
	IDParam string // defaults to "id"
}

// IDKey returns the id parameter name, "id" unless configured.
func (r Route) IDKey() string {
	if r.IDParam == "" {
		return "id"
	}
	return r.IDParam
}

// Endpoints describes the dialect a backend speaks for one resource. The
// real backend is inconsistent across resources (GET vs POST, query vs
// body ids) and that drift is preserved here, not normalized.
type Endpoints struct {
	List   Route
	Get    Route
	Create Route
	Update Route
	Delete Route

	PageParam   string // defaults to "page"
	LimitParam  string // defaults to "limit"
	SearchParam string // defaults to "search"

	// Optional gjson paths; when empty the decoder tries well-known envelopes.
	RecordsPath string
	TotalPath   string
	RecordPath  string
}

// PageKey returns the page query parameter name.
func (e Endpoints) PageKey() string {
	return defaultString(e.PageParam, "page")
}

// LimitKey returns the page size query parameter name.
func (e Endpoints) LimitKey() string {
	return defaultString(e.LimitParam, "limit")
}

// SearchKey returns the search query parameter name.
func (e Endpoints) SearchKey() string {
	return defaultString(e.SearchParam, "search")
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Conventional returns the representative dialect:
//
//	GET  /{base}/get-all-{r}?page&limit&search
//	GET  /{base}/get-{r}-by-id?id
//	POST /{base}/create-{r}
//	POST /{base}/edit-{r}-by-id?id
//	POST /{base}/delete-{r}-by-id?id
//
// base is the resource group path ("/brand"); plural and singular are the
// resource nouns used in the list and item routes ("brands", "brand").
func Conventional(base, plural, singular string) Endpoints {
	base = "/" + strings.Trim(base, "/")
	return Endpoints{
		List:   Route{Method: http.MethodGet, Path: base + "/get-all-" + plural},
		Get:    Route{Method: http.MethodGet, Path: base + "/get-" + singular + "-by-id", IDIn: IDInQuery},
		Create: Route{Method: http.MethodPost, Path: base + "/create-" + singular},
		Update: Route{Method: http.MethodPost, Path: base + "/edit-" + singular + "-by-id", IDIn: IDInQuery},
		Delete: Route{Method: http.MethodPost, Path: base + "/delete-" + singular + "-by-id", IDIn: IDInQuery},
	}
}

// WithBodyIDs returns a copy where update and delete carry the id in the body.
func (e Endpoints) WithBodyIDs() Endpoints {
	e.Update.IDIn = IDInBody
	e.Delete.IDIn = IDInBody
	return e
}

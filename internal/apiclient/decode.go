// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"github.com/tidwall/gjson"
)

// Envelope shapes seen across the backend, tried in order.
var (
	recordsPaths = []string{
		"data.items", "data.docs", "data.records", "data.rows", "data.data",
		"data", "items", "docs", "records", "result",
	}
	totalPaths = []string{
		"total", "data.total", "pagination.total", "meta.total",
		"data.totalDocs", "totalDocs", "count", "data.count",
	}
	recordPaths = []string{"data", "result", "record", "item"}
)

// findRecords locates the array of records in a list response.
func findRecords(body []byte, path string) (gjson.Result, bool) {
	if path != "" {
		v := gjson.GetBytes(body, path)
		return v, v.IsArray()
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root, true
	}
	for _, p := range recordsPaths {
		if v := root.Get(p); v.IsArray() {
			return v, true
		}
	}
	// A list response wrapping a single named collection: {"data": {"brands": [...]}}.
	if data := root.Get("data"); data.IsObject() {
		var found gjson.Result
		data.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				found = value
				return false
			}
			return true
		})
		if found.Exists() {
			return found, true
		}
	}
	return gjson.Result{}, false
}

// findTotal returns the server-reported total, or -1 when there is none.
func findTotal(body []byte, path string) int {
	if path != "" {
		if v := gjson.GetBytes(body, path); v.Type == gjson.Number {
			return int(v.Int())
		}
		return -1
	}
	for _, p := range totalPaths {
		if v := gjson.GetBytes(body, p); v.Type == gjson.Number {
			return int(v.Int())
		}
	}
	return -1
}

// findRecord locates a single record in a get/create/update response.
func findRecord(body []byte, path string) (gjson.Result, bool) {
	if path != "" {
		v := gjson.GetBytes(body, path)
		return v, v.IsObject()
	}
	root := gjson.ParseBytes(body)
	for _, p := range recordPaths {
		if v := root.Get(p); v.IsObject() {
			return v, true
		}
	}
	if root.IsObject() && (root.Get("_id").Exists() || root.Get("id").Exists()) {
		return root, true
	}
	return gjson.Result{}, false
}

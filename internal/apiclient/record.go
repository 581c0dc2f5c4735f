// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is an opaque server-defined object. The client never owns it.
type Record map[string]any

// ID returns the record identifier, preferring "_id" over "id".
func (r Record) ID() string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := r[key]; ok && v != nil {
			return scalarString(v)
		}
	}
	return ""
}

// Lookup walks a dotted path ("location.city", "images.0") through nested
// maps and slices.
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case Record:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// String returns the value at path formatted for display.
func (r Record) String(path string) string {
	v, ok := r.Lookup(path)
	if !ok || v == nil {
		return ""
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		// Nested references usually carry a display name.
		for _, key := range []string{"name", "title", "_id", "id"} {
			if s, ok := x[key]; ok {
				return scalarString(s)
			}
		}
		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

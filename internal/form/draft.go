// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"fmt"
	"strconv"

	"github.com/olegiv/cmsadmin/internal/upload"
)

// Draft is the flat, client-only copy of a record's editable fields,
// keyed by field name. Text kinds hold strings, numbers float64 (or nil),
// bools bool, lists []string and file kinds upload.Files.
type Draft map[string]any

// Clone returns a copy that shares no slices with d.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		switch x := v.(type) {
		case upload.Files:
			out[k] = append(upload.Files(nil), x...)
		case []string:
			out[k] = append([]string(nil), x...)
		default:
			out[k] = v
		}
	}
	return out
}

// String returns the value of name as text.
func (d Draft) String(name string) string {
	return asString(d[name])
}

// Files returns the file refs of a file field.
func (d Draft) Files(name string) upload.Files {
	if fs, ok := d[name].(upload.Files); ok {
		return fs
	}
	return nil
}

// PendingFiles returns the file fields that hold at least one local ref.
func (d Draft) PendingFiles() map[string]upload.Files {
	out := make(map[string]upload.Files)
	for name, v := range d {
		if fs, ok := v.(upload.Files); ok && fs.Pending() > 0 {
			out[name] = fs
		}
	}
	return out
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func asList(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, asString(item))
		}
		return out
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	}
	return nil
}

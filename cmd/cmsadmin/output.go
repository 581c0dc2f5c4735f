// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/gjson"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/form"
	"github.com/olegiv/cmsadmin/internal/validate"
)

const maxPreview = 48

// printRecord writes rec as label/value lines in schema order.
func printRecord(w io.Writer, def catalog.Definition, rec apiclient.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	doc := gjson.ParseBytes(raw)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\t%s\n", rec.ID())
	for _, f := range def.Schema {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", label, valueText(doc.Get(f.JSONPath())))
	}
	return tw.Flush()
}

func printJSON(w io.Writer, rec apiclient.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func valueText(v gjson.Result) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return "-"
	case v.IsArray():
		var parts []string
		for _, item := range v.Array() {
			parts = append(parts, valueText(item))
		}
		return strings.Join(parts, ", ")
	case v.IsObject():
		for _, key := range []string{"name", "title", "url"} {
			if s := v.Get(key); s.Exists() {
				return s.String()
			}
		}
		return v.Raw
	default:
		return v.String()
	}
}

// printPreviews lists every attached file with a shortened preview.
func printPreviews(w io.Writer, fc *form.Controller) {
	draft := fc.State().Draft
	for _, name := range fc.Schema().FileFields() {
		files := draft.Files(name)
		thumbs := fc.Thumbnails(name)
		for i, ref := range files {
			preview := "(no preview)"
			if i < len(thumbs) && thumbs[i] != "" {
				preview = shorten(thumbs[i])
			}
			state := "pending"
			if ref.IsRemote() {
				state = "uploaded"
			}
			_, _ = fmt.Fprintf(w, "%s[%d] %s %s %s\n", name, i, ref.Name(), state, preview)
		}
	}
}

func shorten(s string) string {
	if len(s) <= maxPreview {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:maxPreview], len(s))
}

// printFieldErrors writes validation messages in field order.
func printFieldErrors(w io.Writer, schema form.Schema, errs validate.Errors) {
	seen := make(map[string]bool, len(errs))
	for _, f := range schema {
		if msg, ok := errs[f.Name]; ok {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Name, msg)
			seen[f.Name] = true
		}
	}
	var rest []string
	for name := range errs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", name, errs[name])
	}
}

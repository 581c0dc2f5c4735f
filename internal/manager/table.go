// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package manager

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/listing"
)

// Table is the current page laid out by the catalog columns.
type Table struct {
	Headers    []string
	Rows       [][]string
	Pagination listing.Pagination
	Loading    bool
	Err        error
}

// Table snapshots the current page.
func (m *Manager[T]) Table() Table {
	return BuildTable(m.def.Columns, m.list.State())
}

// Render writes the current page to w.
func (m *Manager[T]) Render(w io.Writer) error {
	return m.Table().Render(w)
}

// BuildTable lays out s by cols. Each record is read through its JSON form
// so typed rows and generic records share one code path.
func BuildTable[T any](cols []catalog.Column, s listing.State[T]) Table {
	t := Table{
		Headers:    make([]string, 0, len(cols)),
		Pagination: s.Pagination(),
		Loading:    s.Loading,
		Err:        s.Err,
	}
	for _, c := range cols {
		t.Headers = append(t.Headers, c.Header)
	}

	for _, rec := range s.Records {
		raw, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			v := gjson.GetBytes(raw, c.Path)
			if !v.Exists() && c.Path == "_id" {
				v = gjson.GetBytes(raw, "id")
			}
			row = append(row, truncate(cell(v), c.Width))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Render writes the table with a pagination footer.
func (t Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	if len(t.Rows) == 0 {
		fmt.Fprintln(tw, "No records found")
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := t.Pagination
	_, err := fmt.Fprintf(w, "\nShowing %s (page %d of %d)\n", p.PageRange(), p.CurrentPage, max(p.TotalPages, 1))
	return err
}

func cell(v gjson.Result) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return "-"
	case v.IsArray():
		parts := make([]string, 0, len(v.Array()))
		for _, item := range v.Array() {
			parts = append(parts, cell(item))
		}
		return strings.Join(parts, ", ")
	case v.IsObject():
		for _, key := range []string{"name", "title", "url"} {
			if n := v.Get(key); n.Exists() {
				return n.String()
			}
		}
		return v.Raw
	case v.Type == gjson.True:
		return "yes"
	case v.Type == gjson.False:
		return "no"
	}
	s := strings.Join(strings.Fields(v.String()), " ")
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

func lower(s string) string {
	if s == "" {
		return "record"
	}
	return strings.ToLower(s)
}

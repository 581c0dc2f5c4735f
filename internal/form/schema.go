// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/yuin/goldmark"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/upload"
	"github.com/olegiv/cmsadmin/internal/util"
	"github.com/olegiv/cmsadmin/internal/validate"
)

// Kind is the input type of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindRichText Kind = "richtext"
	KindMarkdown Kind = "markdown"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindSelect   Kind = "select"
	KindList     Kind = "list"
	KindSlug     Kind = "slug"
	KindFile     Kind = "file"
	KindFiles    Kind = "files"
)

// IsFile reports whether values of this kind are upload.Files.
func (k Kind) IsFile() bool {
	return k == KindFile || k == KindFiles
}

// htmlSanitizer is applied to rich-text fields before submission.
var htmlSanitizer = bluemonday.UGCPolicy()

// Field describes one form input and where it lives in the record.
type Field struct {
	Name     string
	Path     string // dotted server path; defaults to Name
	Kind     Kind
	Label    string
	Required bool
	Default  any
	Rules    []validate.Rule
	Options  []string // allowed values for select
	SlugFrom string   // slug fields are filled from this field when left empty
	HTMLPath string   // markdown fields also send rendered HTML here
}

// JSONPath is where the field lives in the server record.
func (f Field) JSONPath() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Schema is the ordered field list of a resource form.
type Schema []Field

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FileFields returns the names of the file-bearing fields.
func (s Schema) FileFields() []string {
	var names []string
	for _, f := range s {
		if f.Kind.IsFile() {
			names = append(names, f.Name)
		}
	}
	return names
}

// Defaults returns a fresh draft holding every field's default value.
func (s Schema) Defaults() Draft {
	d := make(Draft, len(s))
	for _, f := range s {
		d[f.Name] = zeroValue(f)
	}
	return d
}

func zeroValue(f Field) any {
	switch f.Kind {
	case KindFile, KindFiles:
		switch v := f.Default.(type) {
		case string:
			if v != "" {
				return upload.Files{upload.Remote(v)}
			}
		case upload.Files:
			return append(upload.Files(nil), v...)
		}
		return upload.Files{}
	case KindBool:
		if b, ok := f.Default.(bool); ok {
			return b
		}
		return false
	case KindNumber:
		if f.Default == nil {
			return nil
		}
		return f.Default
	case KindList:
		if l, ok := f.Default.([]string); ok {
			return append([]string(nil), l...)
		}
		return []string{}
	default:
		if s, ok := f.Default.(string); ok {
			return s
		}
		return ""
	}
}

// Flatten maps a server record onto a draft. Nested objects referenced by
// a select or list field contribute their identifier; file fields become
// Remote refs.
func (s Schema) Flatten(rec apiclient.Record) (Draft, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	d := s.Defaults()
	for _, f := range s {
		v := gjson.GetBytes(raw, f.JSONPath())
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		switch f.Kind {
		case KindNumber:
			if n, ok := numberOf(v); ok {
				d[f.Name] = n
			}
		case KindBool:
			d[f.Name] = v.Bool()
		case KindList:
			var items []string
			for _, item := range v.Array() {
				if s := refString(item); s != "" {
					items = append(items, s)
				}
			}
			if items == nil {
				items = []string{}
			}
			d[f.Name] = items
		case KindFile, KindFiles:
			files := upload.Files{}
			values := []gjson.Result{v}
			if v.IsArray() {
				values = v.Array()
			}
			for _, item := range values {
				if u := fileURL(item); u != "" {
					files = append(files, upload.Remote(u))
				}
			}
			if f.Kind == KindFile && len(files) > 1 {
				files = files[:1]
			}
			d[f.Name] = files
		case KindSelect:
			d[f.Name] = refString(v)
		default:
			d[f.Name] = v.String()
		}
	}
	return d, nil
}

func numberOf(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return n, err == nil
	}
	return 0, false
}

// refString returns a scalar as text, or the id of a populated reference.
func refString(v gjson.Result) string {
	if v.IsObject() {
		for _, key := range []string{"_id", "id"} {
			if id := v.Get(key); id.Exists() {
				return id.String()
			}
		}
		return ""
	}
	return v.String()
}

func fileURL(v gjson.Result) string {
	if v.IsObject() {
		for _, key := range []string{"url", "location", "path"} {
			if u := v.Get(key); u.Type == gjson.String {
				return u.String()
			}
		}
		return ""
	}
	if v.Type == gjson.String {
		return strings.TrimSpace(v.String())
	}
	return ""
}

// Normalize trims text, coerces numbers, fills empty slugs from their
// source field and sanitizes rich text. It returns a new draft.
func (s Schema) Normalize(d Draft) Draft {
	out := d.Clone()
	for _, f := range s {
		v := out[f.Name]
		switch f.Kind {
		case KindText, KindTextarea, KindSelect, KindMarkdown:
			out[f.Name] = strings.TrimSpace(asString(v))
		case KindRichText:
			out[f.Name] = strings.TrimSpace(htmlSanitizer.Sanitize(asString(v)))
		case KindNumber:
			if str, ok := v.(string); ok {
				str = strings.TrimSpace(str)
				if str == "" {
					out[f.Name] = nil
				} else if n, err := strconv.ParseFloat(str, 64); err == nil {
					out[f.Name] = n
				} else {
					out[f.Name] = str // left for validation to reject
				}
			}
		case KindList:
			var items []string
			for _, item := range asList(v) {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			if items == nil {
				items = []string{}
			}
			out[f.Name] = items
		}
	}
	// Slugs last so they see the trimmed source.
	for _, f := range s {
		if f.Kind != KindSlug {
			continue
		}
		slug := strings.TrimSpace(asString(out[f.Name]))
		if slug == "" && f.SlugFrom != "" {
			slug = util.Slugify(asString(out[f.SlugFrom]))
		}
		out[f.Name] = slug
	}
	return out
}

// Validate runs kind rules, the required check and field rules.
func (s Schema) Validate(d Draft) validate.Errors {
	errs := validate.Errors{}
	for _, f := range s {
		v := d[f.Name]
		if f.Kind.IsFile() {
			v = d.Files(f.Name).Names()
		}

		rules := make([]validate.Rule, 0, len(f.Rules)+2)
		if f.Required {
			rules = append(rules, validate.Required())
		}
		switch f.Kind {
		case KindNumber:
			rules = append(rules, validate.Numeric())
		case KindSlug:
			rules = append(rules, validate.Slug())
		case KindSelect:
			if len(f.Options) > 0 {
				rules = append(rules, validate.OneOf(f.Options...))
			}
		}
		rules = append(rules, f.Rules...)

		errs.Add(f.Name, validate.Check(f.label(), v, rules...))
	}
	return errs
}

// Payload builds the nested JSON body of a new record from a normalized
// draft. File fields must already be resolved to remote URLs.
func (s Schema) Payload(d Draft) ([]byte, error) {
	return s.encode([]byte("{}"), d, func(Field) bool { return true })
}

// Original is a record as loaded for editing: its raw JSON and the draft
// it flattened to.
type Original struct {
	Raw   []byte
	Draft Draft
}

// NewOriginal captures rec for a later EditPayload.
func (s Schema) NewOriginal(rec apiclient.Record) (*Original, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	d, err := s.Flatten(rec)
	if err != nil {
		return nil, err
	}
	return &Original{Raw: raw, Draft: d}, nil
}

// EditPayload applies a normalized draft onto the loaded record. Keys the
// schema does not know, nested siblings included, are kept as loaded. A
// field is written only when the record had it or the draft changed it,
// so defaults never leak into records that lack the field.
func (s Schema) EditPayload(orig *Original, d Draft) ([]byte, error) {
	if orig == nil {
		return s.Payload(d)
	}
	before := s.Normalize(orig.Draft)
	return s.encode(append([]byte(nil), orig.Raw...), d, func(f Field) bool {
		if gjson.GetBytes(orig.Raw, f.JSONPath()).Exists() {
			return true
		}
		return !sameValue(f, before[f.Name], d[f.Name])
	})
}

func sameValue(f Field, a, b any) bool {
	if f.Kind.IsFile() {
		fa, _ := a.(upload.Files)
		fb, _ := b.(upload.Files)
		return fa.Pending() == 0 && fb.Pending() == 0 && slices.Equal(fa.URLs(), fb.URLs())
	}
	return reflect.DeepEqual(a, b)
}

// encode writes the fields selected by include into out.
func (s Schema) encode(out []byte, d Draft, include func(Field) bool) ([]byte, error) {
	var err error
	for _, f := range s {
		if !include(f) {
			continue
		}
		v := d[f.Name]
		var value any
		switch f.Kind {
		case KindFile:
			files := d.Files(f.Name)
			if files.Pending() > 0 {
				return nil, fmt.Errorf("%s has unresolved uploads", f.Name)
			}
			if urls := files.URLs(); len(urls) > 0 {
				value = urls[0]
			} else {
				value = ""
			}
		case KindFiles:
			files := d.Files(f.Name)
			if files.Pending() > 0 {
				return nil, fmt.Errorf("%s has unresolved uploads", f.Name)
			}
			value = files.URLs()
		case KindNumber:
			if v == nil {
				// cleared: drop whatever the record held
				if out, err = sjson.DeleteBytes(out, f.JSONPath()); err != nil {
					return nil, fmt.Errorf("clearing %s: %w", f.JSONPath(), err)
				}
				continue
			}
			value = v
		case KindMarkdown:
			value = asString(v)
			if f.HTMLPath != "" {
				html, err := renderMarkdown(asString(v))
				if err != nil {
					return nil, fmt.Errorf("rendering %s: %w", f.Name, err)
				}
				if out, err = sjson.SetBytes(out, f.HTMLPath, html); err != nil {
					return nil, fmt.Errorf("setting %s: %w", f.HTMLPath, err)
				}
			}
		default:
			value = v
		}
		if out, err = sjson.SetBytes(out, f.JSONPath(), value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", f.JSONPath(), err)
		}
	}
	return out, nil
}

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

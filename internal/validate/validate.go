// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate holds the client-side rules that run before any
// request is sent. A failing rule blocks submission with a message keyed
// by field name.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/olegiv/cmsadmin/internal/util"
)

// Rule checks one value and returns an error message, or "" when valid.
// label is the human field name used in messages.
type Rule func(label string, v any) string

// Errors maps field name to its first failing message.
type Errors map[string]string

// Error joins the messages in field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already failed.
func (e Errors) Add(field, msg string) {
	if msg == "" {
		return
	}
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Check runs rules in order and returns the first failure.
func Check(label string, v any, rules ...Rule) string {
	for _, r := range rules {
		if msg := r(label, v); msg != "" {
			return msg
		}
	}
	return ""
}

var (
	phoneRegex   = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)
	phoneDigits  = regexp.MustCompile(`[0-9]`)
	numericRegex = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

// IsEmpty reports whether v carries no user input: nil, blank strings and
// empty slices or maps.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case fmt.Stringer:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return fmt.Sprint(v)
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func isList(v any) bool {
	switch v.(type) {
	case []any, []string:
		return true
	}
	return false
}

func length(v any) int {
	switch x := v.(type) {
	case []any:
		return len(x)
	case []string:
		return len(x)
	}
	return len([]rune(asString(v)))
}

// Required rejects empty values.
func Required() Rule {
	return func(label string, v any) string {
		if IsEmpty(v) {
			return label + " is required"
		}
		return ""
	}
}

// The remaining rules accept empty values; combine with Required.

// MinLen requires at least n characters (or n items for lists).
func MinLen(n int) Rule {
	return func(label string, v any) string {
		if IsEmpty(v) || length(v) >= n {
			return ""
		}
		return fmt.Sprintf("%s must be at least %d characters", label, n)
	}
}

// MaxLen allows at most n characters (or n items for lists).
func MaxLen(n int) Rule {
	return func(label string, v any) string {
		if IsEmpty(v) || length(v) <= n {
			return ""
		}
		if isList(v) {
			return fmt.Sprintf("%s must have no more than %d items", label, n)
		}
		return fmt.Sprintf("%s must be no more than %d characters", label, n)
	}
}

// MaxItems limits the number of entries in a list or file field.
func MaxItems(n int) Rule {
	return func(label string, v any) string {
		if !isList(v) || length(v) <= n {
			return ""
		}
		return fmt.Sprintf("%s must have no more than %d items", label, n)
	}
}

// Email requires a single RFC 5322 address.
func Email() Rule {
	return func(_ string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		s := asString(v)
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return "Please enter a valid email address"
		}
		return ""
	}
}

// Phone accepts international numbers with optional separators.
func Phone() Rule {
	return func(_ string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		s := asString(v)
		if !phoneRegex.MatchString(s) || len(phoneDigits.FindAllString(s, -1)) < 6 {
			return "Please enter a valid phone number"
		}
		return ""
	}
}

// URL requires an absolute http or https URL.
func URL() Rule {
	return func(_ string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		u, err := url.Parse(asString(v))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "Please enter a valid URL"
		}
		return ""
	}
}

// Slug requires lowercase letters, digits and single hyphens.
func Slug() Rule {
	return func(_ string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		if !util.IsValidSlug(asString(v)) {
			return "Invalid slug format (use lowercase letters, numbers, and hyphens)"
		}
		return ""
	}
}

// Numeric requires a decimal number.
func Numeric() Rule {
	return func(_ string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		if _, ok := v.(float64); ok {
			return ""
		}
		if !numericRegex.MatchString(asString(v)) {
			return "Please enter a valid number"
		}
		return ""
	}
}

// Min requires a number >= n.
func Min(n float64) Rule {
	return func(label string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		f, ok := asFloat(v)
		if !ok {
			return "Please enter a valid number"
		}
		if f < n {
			return fmt.Sprintf("%s must be at least %s", label, strconv.FormatFloat(n, 'f', -1, 64))
		}
		return ""
	}
}

// Max requires a number <= n.
func Max(n float64) Rule {
	return func(label string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		f, ok := asFloat(v)
		if !ok {
			return "Please enter a valid number"
		}
		if f > n {
			return fmt.Sprintf("%s must be no more than %s", label, strconv.FormatFloat(n, 'f', -1, 64))
		}
		return ""
	}
}

// OneOf restricts the value to a fixed option set.
func OneOf(options ...string) Rule {
	return func(label string, v any) string {
		if IsEmpty(v) {
			return ""
		}
		if !slices.Contains(options, asString(v)) {
			return fmt.Sprintf("%s must be one of: %s", label, strings.Join(options, ", "))
		}
		return ""
	}
}

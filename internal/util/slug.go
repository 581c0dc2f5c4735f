// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds the naming helpers shared by the form, validation
// and upload code: slugs for records and safe names for stored files.
package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separators  = regexp.MustCompile(`[\s_]+`)
	notSlug     = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns  = regexp.MustCompile(`-{2,}`)
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify turns a record title into a slug. "Über München" becomes
// "uber-munchen"; scripts without Latin accents (Cyrillic, Arabic, CJK)
// are transliterated.
func Slugify(s string) string {
	// transform chains carry state, so build one per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	if !ascii(out) {
		out = unidecode.Unidecode(out)
	}

	out = separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(out)), "-")
	out = notSlug.ReplaceAllString(out, "")
	out = hyphenRuns.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

func ascii(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// IsValidSlug reports whether s is lowercase alphanumeric words joined
// by single hyphens.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

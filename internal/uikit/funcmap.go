// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides the generic template helpers shared by the public
// pages and the admin shell.
package uikit

import (
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

// TemplateFuncs returns the helpers that know nothing about the site.
// The renderer adds the number formatting and navigation on top.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper":    strings.ToUpper,
		"truncate": Truncate,
		"initials": Initials,
		"add": func(a, b int) int {
			return a + b
		},
		"deref": Deref,
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}
}

// Deref reads an optional metric; nil reads as zero.
func Deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// Truncate shortens s to at most length runes, appending "..." when cut.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	return string([]rune(s)[:length]) + "..."
}

// Initials returns up to two upper-case initials of a name, used for
// testimonial avatars without a photo. Honorifics like "Dr." are skipped.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		if strings.HasSuffix(word, ".") && len(word) <= 4 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, r)
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

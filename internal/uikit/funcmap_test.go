// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"bytes"
	"html/template"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"Booked solid within a month", 11, "Booked soli..."},
		{"short", 5, "short"},
		{"", 5, ""},
		{"héllo wörld", 4, "héll..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Dr. Sarah Mitchell", "SM"},
		{"maria", "M"},
		{"  ", ""},
		{"élise bernard", "ÉB"},
		{"Mrs. Ann Lee Park", "AL"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeref(t *testing.T) {
	v := int64(42)
	if got := Deref(&v); got != 42 {
		t.Errorf("Deref(&42) = %d", got)
	}
	if got := Deref(nil); got != 0 {
		t.Errorf("Deref(nil) = %d, want 0", got)
	}
}

func TestTemplateFuncs_InTemplate(t *testing.T) {
	growth := int64(35)
	data := map[string]any{
		"Name":   "Dr. Priya Patel",
		"Growth": &growth,
		"Index":  2,
		"Date":   time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC),
	}

	tmpl := template.Must(template.New("t").Funcs(TemplateFuncs()).Parse(
		`{{initials .Name}} +{{deref .Growth}}% slide {{add .Index 1}} {{formatDate .Date}} {{upper "roi"}}`))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := "PP +35% slide 3 Mar 15, 2026 ROI"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "**New Lead**", "New Lead"},
		{"italic", "*note*", "note"},
		{"bullets", "- **Email:** a@b.com\n- **Specialty:** Dentists", "• Email: a@b.com\n• Specialty: Dentists"},
		{"trimmed", "  \n hello \n", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextMessage(t *testing.T) {
	got := TextMessage(Message{Title: "Hello", Body: "**Hi** there"})
	if got != "Hello\n\nHi there" {
		t.Errorf("TextMessage() = %q", got)
	}
}

func TestTextMessage_Truncated(t *testing.T) {
	got := TextMessage(Message{Title: "T", Body: strings.Repeat("é", 3000)})
	if n := utf8.RuneCountInString(got); n != MaxTextLen {
		t.Errorf("TextMessage() length = %d runes, want %d", n, MaxTextLen)
	}
	if !utf8.ValidString(got) {
		t.Error("TextMessage() produced invalid UTF-8")
	}
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{13200, "$13,200"},
		{158400, "$158,400"},
		{1234567, "$1,234,567"},
	}

	for _, tt := range tests {
		if got := FormatDollars(tt.in); got != tt.want {
			t.Errorf("FormatDollars(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderEmailHTML(t *testing.T) {
	html, err := RenderEmailHTML(Message{
		Title: "Lead <1>",
		Body:  "**New ROI Calculator Lead**\n\n- **Email:** a@b.com\n\n<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("RenderEmailHTML() error: %v", err)
	}

	for _, want := range []string{
		"<strong>New ROI Calculator Lead</strong>",
		"<li>",
		"Lead &lt;1&gt;",
		"#0066B3",
		"2026 DocPropel. All rights reserved.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("email HTML missing %q", want)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Error("email HTML contains an unsanitized script tag")
	}
}

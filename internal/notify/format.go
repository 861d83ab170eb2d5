// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	markdown = goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()))

	// emailPolicy keeps the formatting markdown produces and drops everything else.
	emailPolicy = bluemonday.UGCPolicy()

	numberPrinter = message.NewPrinter(language.English)
)

// FormatNumber formats n with thousands separators, e.g. 158400 -> "158,400".
func FormatNumber(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatDollars formats n as a whole-dollar amount, e.g. "$158,400".
func FormatDollars(n int64) string {
	return "$" + FormatNumber(n)
}

var plainTextReplacer = strings.NewReplacer("**", "", "*", "", "- ", "• ")

// PlainText strips markdown emphasis and turns "- " into "• " for SMS and WhatsApp.
func PlainText(body string) string {
	return strings.TrimSpace(plainTextReplacer.Replace(body))
}

// TextMessage is the SMS/WhatsApp body: title, blank line, plain text,
// truncated to MaxTextLen runes.
func TextMessage(msg Message) string {
	text := msg.Title + "\n\n" + PlainText(msg.Body)
	if r := []rune(text); len(r) > MaxTextLen {
		text = string(r[:MaxTextLen])
	}
	return text
}

// RenderEmailHTML renders the body as sanitized HTML inside the branded email layout.
func RenderEmailHTML(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(msg.Body), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	body := emailPolicy.Sanitize(buf.String())

	var out strings.Builder
	out.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	out.WriteString(`<div style="background: #0066B3; color: white; padding: 20px; text-align: center;">`)
	out.WriteString(`<h1 style="margin: 0;">DocPropel</h1></div>`)
	out.WriteString(`<div style="padding: 20px; background: #f9f9f9;">`)
	out.WriteString(`<h2 style="color: #0066B3;">`)
	out.WriteString(html.EscapeString(msg.Title))
	out.WriteString(`</h2><div style="line-height: 1.6;">`)
	out.WriteString(body)
	out.WriteString(`</div></div>`)
	out.WriteString(`<div style="padding: 15px; text-align: center; color: #666; font-size: 12px;">`)
	out.WriteString(`&copy; 2026 DocPropel. All rights reserved.</div></div>`)
	return out.String(), nil
}

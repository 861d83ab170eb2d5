// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// PrivatePaths are never offered to crawlers.
var PrivatePaths = []string{
	"/admin",
	"/api/",
	"/presenter",
	"/health",
}

// Robots builds robots.txt. disallowAll blocks every crawler, which is what
// development and staging sites want; the sitemap is only advertised
// otherwise.
func Robots(siteURL string, disallowAll bool) string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if disallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	for _, path := range PrivatePaths {
		sb.WriteString("Disallow: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: /\n")

	if siteURL != "" {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(siteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}

	return sb.String()
}

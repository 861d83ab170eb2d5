// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the XML sitemap of the public pages.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Page is a public page offered to crawlers.
type Page struct {
	Path       string
	ChangeFreq ChangeFreq
	Priority   string
}

// BuildSitemap renders the sitemap for pages under siteURL. A non-zero
// lastMod, usually the newest content edit, is stamped on every page since
// all of them render the shared site content.
func BuildSitemap(siteURL string, pages []Page, lastMod time.Time) ([]byte, error) {
	base := strings.TrimSuffix(siteURL, "/")

	sitemap := Sitemap{XMLNS: XMLNamespace, URLs: make([]SitemapURL, 0, len(pages))}
	for _, p := range pages {
		u := SitemapURL{
			Loc:        base + p.Path,
			ChangeFreq: p.ChangeFreq,
			Priority:   p.Priority,
		}
		if p.Path == "/" {
			u.Loc = base + "/"
		}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.UTC().Format(time.RFC3339)
		}
		sitemap.URLs = append(sitemap.URLs, u)
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

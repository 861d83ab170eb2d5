// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestRobots(t *testing.T) {
	got := Robots("https://docpropel.com/", false)

	for _, want := range []string{
		"User-agent: *\n",
		"Disallow: /admin\n",
		"Disallow: /api/\n",
		"Allow: /\n",
		"Sitemap: https://docpropel.com/sitemap.xml\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, got)
		}
	}
}

func TestRobots_DisallowAll(t *testing.T) {
	got := Robots("https://staging.docpropel.com", true)

	if got != "User-agent: *\nDisallow: /\n" {
		t.Errorf("robots.txt = %q", got)
	}
}

func TestRobots_NoSiteURL(t *testing.T) {
	if got := Robots("", false); strings.Contains(got, "Sitemap:") {
		t.Errorf("robots.txt without a site URL should not advertise a sitemap:\n%s", got)
	}
}

func TestBuildSitemap(t *testing.T) {
	lastMod := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	pages := []Page{
		{Path: "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		{Path: "/calculator", ChangeFreq: ChangeFreqMonthly, Priority: "0.8"},
	}

	out, err := BuildSitemap("https://docpropel.com/", pages, lastMod)
	if err != nil {
		t.Fatalf("BuildSitemap: %v", err)
	}
	if !strings.HasPrefix(string(out), xml.Header) {
		t.Error("sitemap should start with the XML header")
	}

	var sm Sitemap
	if err := xml.Unmarshal(out, &sm); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sm.XMLNS != XMLNamespace {
		t.Errorf("xmlns = %q", sm.XMLNS)
	}
	if len(sm.URLs) != 2 {
		t.Fatalf("got %d urls, want 2", len(sm.URLs))
	}
	if sm.URLs[0].Loc != "https://docpropel.com/" || sm.URLs[1].Loc != "https://docpropel.com/calculator" {
		t.Errorf("locs = %q, %q", sm.URLs[0].Loc, sm.URLs[1].Loc)
	}
	if sm.URLs[1].LastMod != "2026-03-01T17:00:00Z" {
		t.Errorf("lastmod = %q, want UTC RFC3339", sm.URLs[1].LastMod)
	}
}

func TestBuildSitemap_NoLastMod(t *testing.T) {
	out, err := BuildSitemap("https://docpropel.com", []Page{{Path: "/about"}}, time.Time{})
	if err != nil {
		t.Fatalf("BuildSitemap: %v", err)
	}
	if strings.Contains(string(out), "<lastmod>") {
		t.Errorf("zero lastMod should be omitted:\n%s", out)
	}
}

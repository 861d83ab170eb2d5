// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/seo"
	"github.com/docpropel/docpropel/internal/service"
)

// sitemapPages are the public pages offered to crawlers.
var sitemapPages = []seo.Page{
	{Path: RouteRoot, ChangeFreq: seo.ChangeFreqWeekly, Priority: "1.0"},
	{Path: RouteServices, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.8"},
	{Path: RouteHowItWorks, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.7"},
	{Path: RouteCompare, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.7"},
	{Path: RouteCalculator, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.9"},
	{Path: RouteResults, ChangeFreq: seo.ChangeFreqWeekly, Priority: "0.8"},
	{Path: RouteAbout, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.6"},
	{Path: RouteContact, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.9"},
}

// SEOHandler serves robots.txt and the sitemap.
type SEOHandler struct {
	content     *service.ContentService
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates a new SEOHandler. content may be nil when the site
// runs without a database; disallowAll hides the site from crawlers.
func NewSEOHandler(content *service.ContentService, disallowAll bool, logger *slog.Logger) *SEOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SEOHandler{content: content, disallowAll: disallowAll, logger: logger}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.Robots(siteURL(r), h.disallowAll)))
}

// Sitemap handles GET /sitemap.xml. Pages are stamped with the newest
// content edit.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := seo.BuildSitemap(siteURL(r), sitemapPages, h.lastModified(r))
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

func (h *SEOHandler) lastModified(r *http.Request) time.Time {
	var newest time.Time
	if h.content == nil {
		return newest
	}
	items, err := h.content.All(r.Context())
	if err != nil {
		h.logger.Warn("failed to load content for sitemap", "error", err)
		return newest
	}
	for _, item := range items {
		if !model.IsPrivateSection(item.Section) && item.UpdatedAt.After(newest) {
			newest = item.UpdatedAt
		}
	}
	return newest
}

// siteURL is the scheme and host the request was made to.
func siteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

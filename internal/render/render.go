// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site's html/template pages once at startup and
// renders them with the shared layout.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/docpropel/docpropel/internal/uikit"
)

// blankLinesRegex matches two or more consecutive newlines (with optional whitespace between).
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

// Session keys of the flash message.
const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
)

// NavItem is a link of the main navigation.
type NavItem struct {
	Label string
	Path  string
}

// Navigation is the main site navigation, in display order.
var Navigation = []NavItem{
	{Label: "Services", Path: "/services"},
	{Label: "How It Works", Path: "/how-it-works"},
	{Label: "Compare", Path: "/compare"},
	{Label: "ROI Calculator", Path: "/calculator"},
	{Label: "Results", Path: "/results"},
	{Label: "About", Path: "/about"},
	{Label: "Contact", Path: "/contact"},
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	isDev          bool
	printer        *message.Printer
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		isDev:          cfg.IsDev,
		printer:        message.NewPrinter(language.English),
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates builds one template set per page. Public pages use the base
// layout; admin pages additionally use the admin layout, which replaces the
// site chrome.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	groups := []struct {
		dir     string
		layouts []string
	}{
		{dir: "pages", layouts: []string{"layouts/base.html"}},
		{dir: "admin", layouts: []string{"layouts/base.html", "layouts/admin.html"}},
	}

	for _, g := range groups {
		pages, err := templateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}

		for _, tmplPath := range pages {
			name := g.dir + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			files := append([]string{}, g.layouts...)
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing directory yields none.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns the functions available to every template: the
// shared uikit helpers plus the number formatting used by the calculator
// and results pages.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	printer := r.printer
	if printer == nil {
		printer = message.NewPrinter(language.English)
	}

	funcs := uikit.TemplateFuncs()
	funcs["number"] = func(n int) string {
		return printer.Sprintf("%d", n)
	}
	funcs["dollars"] = func(v any) string {
		switch n := v.(type) {
		case int:
			return printer.Sprintf("$%d", n)
		case int64:
			return printer.Sprintf("$%d", n)
		case float64:
			return printer.Sprintf("$%d", int64(math.Round(n)))
		}
		return fmt.Sprint(v)
	}
	funcs["percent"] = func(rate float64) int {
		return int(math.Round(rate * 100))
	}
	funcs["stars"] = func(rating int64) []int {
		n := int(min(max(rating, 0), 5))
		return make([]int, n)
	}
	funcs["navItems"] = func() []NavItem {
		return Navigation
	}
	funcs["active"] = func(current, target string) bool {
		if target == "/" {
			return current == "/"
		}
		return current == target || strings.HasPrefix(current, target+"/")
	}
	return funcs
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	CurrentPath string
	BodyClass   string
	Site        map[string]string // Public site content, keyed "section.key"
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	IsDev       bool
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.IsDev = r.isDev
	if data.CurrentPath == "" {
		data.CurrentPath = req.URL.Path
	}

	if flash, flashType := r.popFlash(req); flash != "" {
		data.Flash = flash
		data.FlashType = flashType
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	compacted := blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(compacted)
	return nil
}

// popFlash returns and clears the session flash. SCS panics when the
// session was not loaded for this request, which is treated as no flash.
func (r *Renderer) popFlash(req *http.Request) (flash, flashType string) {
	if r.sessionManager == nil {
		return "", ""
	}
	defer func() {
		if rec := recover(); rec != nil {
			flash, flashType = "", ""
		}
	}()

	flash = r.sessionManager.PopString(req.Context(), sessionKeyFlash)
	if flash == "" {
		return "", ""
	}
	flashType = r.sessionManager.PopString(req.Context(), sessionKeyFlashType)
	if flashType == "" {
		flashType = "info"
	}
	return flash, flashType
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager == nil {
		return
	}
	defer func() { _ = recover() }()
	r.sessionManager.Put(req.Context(), sessionKeyFlash, message)
	r.sessionManager.Put(req.Context(), sessionKeyFlashType, flashType)
}

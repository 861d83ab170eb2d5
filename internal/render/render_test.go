// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

func TestBlankLinesRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no blank lines", "line1\nline2\nline3", "line1\nline2\nline3"},
		{"one blank line", "line1\n\nline2", "line1\nline2"},
		{"many blank lines", "line1\n\n\n\n\nline2", "line1\nline2"},
		{"blank lines with spaces", "line1\n  \n\t\nline2", "line1\nline2"},
		{"windows line endings", "line1\r\n\r\n\r\nline2", "line1\nline2"},
		{"blank lines at end", "line1\nline2\n\n\n", "line1\nline2\n"},
		{"empty input", "", ""},
		{"html", "<section>\n\n\n<h2>ROI</h2>\n\n\n</section>", "<section>\n<h2>ROI</h2>\n</section>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(blankLinesRegex.ReplaceAll([]byte(tt.input), []byte("\n")))
			if got != tt.expected {
				t.Errorf("blankLinesRegex.ReplaceAll(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTemplateFuncs_FormatDate(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}
}

func TestTemplateFuncs_Numbers(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	number := funcs["number"].(func(int) string)
	if got := number(13200); got != "13,200" {
		t.Errorf("number(13200) = %q, want 13,200", got)
	}

	dollars := funcs["dollars"].(func(any) string)
	tests := []struct {
		in   any
		want string
	}{
		{158400, "$158,400"},
		{int64(1200), "$1,200"},
		{2499.6, "$2,500"},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		if got := dollars(tt.in); got != tt.want {
			t.Errorf("dollars(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	percent := funcs["percent"].(func(float64) int)
	if got := percent(0.35); got != 35 {
		t.Errorf("percent(0.35) = %d, want 35", got)
	}
}

func TestTemplateFuncs_Stars(t *testing.T) {
	stars := (&Renderer{}).TemplateFuncs()["stars"].(func(int64) []int)

	for rating, want := range map[int64]int{-1: 0, 0: 0, 4: 4, 5: 5, 9: 5} {
		if got := len(stars(rating)); got != want {
			t.Errorf("len(stars(%d)) = %d, want %d", rating, got, want)
		}
	}
}

func TestTemplateFuncs_Active(t *testing.T) {
	active := (&Renderer{}).TemplateFuncs()["active"].(func(string, string) bool)

	tests := []struct {
		current, target string
		want            bool
	}{
		{"/", "/", true},
		{"/services", "/", false},
		{"/services", "/services", true},
		{"/admin/login", "/admin", true},
		{"/administrator", "/admin", false},
	}
	for _, tt := range tests {
		if got := active(tt.current, tt.target); got != tt.want {
			t.Errorf("active(%q, %q) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}<html><title>{{.Title}}</title>


{{if .Flash}}<p class="flash {{.FlashType}}">{{.Flash}}</p>{{end}}
{{block "body" .}}{{template "content" .}}{{end}}</html>{{end}}`)},
		"layouts/admin.html":   {Data: []byte(`{{define "body"}}<main class="admin">{{template "content" .}}</main>{{end}}`)},
		"partials/footer.html": {Data: []byte(`{{define "footer"}}<footer>{{index .Site "footer.tagline"}}</footer>{{end}}`)},
		"pages/home.html":      {Data: []byte(`{{define "content"}}<h1>{{dollars .Data}}</h1>{{template "footer" .}}{{end}}`)},
		"pages/notfound.html":  {Data: []byte(`{{define "content"}}<h1>Not found</h1>{{end}}`)},
		"admin/login.html":     {Data: []byte(`{{define "content"}}<form>login</form>{{end}}`)},
		"pages/ignored.txt":    {Data: []byte(`not a template`)},
	}
}

func TestNew_ParsesTemplateGroups(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplates()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"pages/home", "pages/notfound", "admin/login"} {
		if !r.Has(name) {
			t.Errorf("template %s not parsed", name)
		}
	}
	if r.Has("pages/ignored") {
		t.Error("non-html file should not be parsed")
	}
}

func TestNew_ParseError(t *testing.T) {
	fsys := testTemplates()
	fsys["pages/broken.html"] = &fstest.MapFile{Data: []byte(`{{define "content"}}{{.Missing`)}

	if _, err := New(Config{TemplatesFS: fsys}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRenderStatus(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplates()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	data := TemplateData{
		Title: "Home",
		Data:  158400,
		Site:  map[string]string{"footer.tagline": "Pay for results"},
	}
	if err := r.RenderStatus(rec, req, http.StatusNotFound, "pages/home", data); err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>Home</title>", "$158,400", "<footer>Pay for results</footer>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "\n\n") {
		t.Errorf("blank lines should be compacted:\n%q", body)
	}
}

func TestRender_AdminLayout(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplates()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil), "admin/login", TemplateData{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `<main class="admin"><form>login</form></main>`) {
		t.Errorf("admin layout not applied:\n%s", rec.Body.String())
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplates()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "pages/nope", TemplateData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
	if rec.Body.Len() != 0 {
		t.Error("nothing should be written when the template is missing")
	}
}

func TestRender_FlashIsShownOnce(t *testing.T) {
	sm := scs.New()
	sm.Store = memstore.New()

	r, err := New(Config{TemplatesFS: testTemplates(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Thanks, we will be in touch", "success")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, "pages/notfound", TemplateData{}); err != nil {
			t.Errorf("Render: %v", err)
		}
	})
	srv := httptest.NewServer(sm.LoadAndSave(mux))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/set")
	if err != nil {
		t.Fatalf("GET /set: %v", err)
	}
	_ = resp.Body.Close()
	cookies := resp.Cookies()

	get := func() string {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET /: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		return string(body)
	}

	if body := get(); !strings.Contains(body, `<p class="flash success">Thanks, we will be in touch</p>`) {
		t.Errorf("first render should show flash:\n%s", body)
	}
	if body := get(); strings.Contains(body, "flash") {
		t.Errorf("second render should not show flash:\n%s", body)
	}
}

func TestRender_FlashWithoutSessionIsIgnored(t *testing.T) {
	sm := scs.New()
	r, err := New(Config{TemplatesFS: testTemplates(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetFlash(req, "lost", "info")

	rec := httptest.NewRecorder()
	if err := r.Render(rec, req, "pages/notfound", TemplateData{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

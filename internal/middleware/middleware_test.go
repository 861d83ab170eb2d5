// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docpropel/docpropel/internal/auth"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/store"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return e
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusBadRequest, CodeBadRequest, "Invalid input", map[string]string{"email": "Invalid email format"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	e := decodeAPIError(t, rec)
	if e.Error.Code != CodeBadRequest || e.Error.Details["email"] == "" {
		t.Errorf("error = %+v", e.Error)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:52311"
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP() = %q", got)
	}
	r.RemoteAddr = "203.0.113.7"
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP() without port = %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def", "abc.def"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(r); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

type fakeUsers map[int64]store.User

func (f fakeUsers) Get(_ context.Context, id int64) (*store.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &u, nil
}

func TestRequireAdmin(t *testing.T) {
	signer := auth.NewTokenSigner("0123456789abcdef0123456789abcdef")
	token, _, err := signer.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := LoadIdentity(nil, nil, signer)(RequireAdmin(okHandler))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trpc/admin.getAllLeads", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if e := decodeAPIError(t, rec); e.Error.Code != CodeUnauthorized {
			t.Errorf("code = %q", e.Error.Code)
		}
	})

	t.Run("forged token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token+"x")
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("non-admin session user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		ctx := context.WithValue(r.Context(), ContextKeyUser, store.User{ID: 1, Role: model.RoleUser})
		RequireAdmin(okHandler).ServeHTTP(rec, r.WithContext(ctx))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("admin session user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		ctx := context.WithValue(r.Context(), ContextKeyUser, store.User{ID: 1, Role: model.RoleAdmin})
		RequireAdmin(okHandler).ServeHTTP(rec, r.WithContext(ctx))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Middleware()(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/trpc/calculator.submitLead", nil)
		r.RemoteAddr = "198.51.100.1:1234"
		handler.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Another client has its own budget.
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "198.51.100.2:1234"
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestLimiterCache_EvictsIdleClients(t *testing.T) {
	lc := newLimiterCache[int](1, 1)
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	lc.now = func() time.Time { return now }

	for i := range maxLimiterEntries {
		lc.get(i)
	}

	now = now.Add(limiterIdleTTL + time.Minute)
	first := lc.get(0)
	lc.get(maxLimiterEntries)

	if n := lc.len(); n != 2 {
		t.Fatalf("len = %d, want 2 after evicting idle clients", n)
	}
	if lc.get(0) != first {
		t.Error("recently used limiter was replaced")
	}
}

func TestRateLimiter_HTMLSkipsGet(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	handler := rl.HTMLMiddleware()(okHandler)

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET status = %d, want 200", rec.Code)
		}
	}
}

func TestLoginProtection_Lockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 100, IPBurst: 100, MaxFailedAttempts: 3,
		LockoutDuration: time.Minute, AttemptWindow: time.Hour,
	})
	defer lp.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailure("admin"); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	if got := lp.RemainingAttempts("admin"); got != 1 {
		t.Errorf("RemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailure("admin")
	if !locked || d != time.Minute {
		t.Fatalf("third failure = %v/%v, want locked for 1m", locked, d)
	}
	if locked, _ := lp.IsLocked("admin"); !locked {
		t.Error("IsLocked() = false after lockout")
	}
	if locked, _ := lp.IsLocked("other"); locked {
		t.Error("other usernames must not be locked")
	}

	now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsLocked("admin"); locked {
		t.Error("lock should expire")
	}

	// Second lockout doubles.
	for i := 0; i < 2; i++ {
		lp.RecordFailure("admin")
	}
	if _, d := lp.RecordFailure("admin"); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}

	lp.RecordSuccess("admin")
	if locked, _ := lp.IsLocked("admin"); locked {
		t.Error("RecordSuccess should clear the lock")
	}
}

func TestLoginProtection_SingleAttemptLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 1})
	defer lp.Stop()

	if locked, _ := lp.RecordFailure("admin"); !locked {
		t.Error("a limit of 1 should lock on the first failure")
	}
}

func TestLoginProtection_AllowIP(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Stop()

	if !lp.AllowIP("1.2.3.4") || !lp.AllowIP("1.2.3.4") {
		t.Fatal("burst requests should be allowed")
	}
	if lp.AllowIP("1.2.3.4") {
		t.Error("request beyond burst should be rejected")
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production", false, true},
		{"development", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			h := rec.Header()
			if !strings.Contains(h.Get("Content-Security-Policy"), "default-src 'self'") {
				t.Errorf("CSP = %q", h.Get("Content-Security-Policy"))
			}
			if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "SAMEORIGIN" {
				t.Error("missing basic security headers")
			}
			if got := h.Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		_, _ = w.Write([]byte("late"))
	})

	t.Run("api", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trpc/x", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		if e := decodeAPIError(t, rec); e.Error.Code != CodeTimeout {
			t.Errorf("code = %q", e.Error.Code)
		}
	})

	t.Run("page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
		if rec.Code != http.StatusServiceUnavailable || strings.Contains(rec.Body.String(), "late") {
			t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("fast handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Test", "1")
			w.WriteHeader(http.StatusCreated)
		})
		Timeout(time.Second)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusCreated || rec.Header().Get("X-Test") != "1" {
			t.Errorf("status = %d header = %q", rec.Code, rec.Header().Get("X-Test"))
		}
	})
}

func TestCSRF(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig([]byte("0123456789abcdef0123456789abcdef"), false, "localhost:8080"))(okHandler)

	t.Run("cross-site post rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/trpc/calculator.submitLead", nil)
		r.Header.Set("Sec-Fetch-Site", "cross-site")
		r.Header.Set("Origin", "https://evil.example")
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("same-origin post allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/trpc/calculator.submitLead", nil)
		r.Header.Set("Sec-Fetch-Site", "same-origin")
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("bearer request skips check", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/trpc/admin.deleteLead", nil)
		r.Header.Set("Sec-Fetch-Site", "cross-site")
		r.Header.Set("Authorization", "Bearer token")
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestStaticCache(t *testing.T) {
	tests := []struct {
		name   string
		maxAge time.Duration
		path   string
		status int
		header string
	}{
		{"cached asset", 24 * time.Hour, "/static/css/site.css", http.StatusOK, "public, max-age=86400"},
		{"development", 0, "/static/js/site.js", http.StatusOK, "no-cache"},
		{"directory listing", time.Hour, "/static/css/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			StaticCache(tt.maxAge)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Cache-Control"); got != tt.header {
				t.Errorf("Cache-Control = %q, want %q", got, tt.header)
			}
		})
	}
}

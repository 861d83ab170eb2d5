// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/docpropel/docpropel/internal/auth"
	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/render"
	"github.com/docpropel/docpropel/internal/service"
)

// LoginPageData holds data for the admin login page.
type LoginPageData struct {
	PasswordLogin bool
	OAuthEnabled  bool
}

// DashboardData holds the option lists the admin dashboard needs.
type DashboardData struct {
	Sections     []string
	ContentTypes []string
	LeadStatuses []string
	Channels     []string
}

// AuthHandler serves the admin shell pages and the OAuth sign-in callback.
type AuthHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	oauth          *auth.OAuthClient
	users          *service.UserService
	passwordLogin  bool
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. passwordLogin reports whether an
// admin password is configured.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, oauth *auth.OAuthClient,
	users *service.UserService, passwordLogin bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		renderer:       renderer,
		sessionManager: sm,
		oauth:          oauth,
		users:          users,
		passwordLogin:  passwordLogin,
		logger:         logger,
	}
}

// LoginForm handles GET /admin/login. The form posts to adminAuth.login
// from the browser and keeps the token in local storage.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title:     "Admin Login",
		BodyClass: "admin-login",
		Data: LoginPageData{
			PasswordLogin: h.passwordLogin,
			OAuthEnabled:  h.oauth.Enabled(),
		},
	}
	if err := h.renderer.Render(w, r, "admin/login", data); err != nil {
		h.logger.Error("failed to render template", "template", "admin/login", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Dashboard handles GET /admin. The shell is static; every panel loads
// through admin procedures, which check the token.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title:     "Admin Dashboard",
		BodyClass: "admin-dashboard",
		Data: DashboardData{
			Sections:     []string{model.SectionHero, model.SectionContact, model.SectionAbout, model.SectionFooter},
			ContentTypes: model.ContentTypes,
			LeadStatuses: model.LeadStatuses,
			Channels:     []string{model.ChannelEmail, model.ChannelSMS, model.ChannelWhatsApp},
		},
	}
	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		h.logger.Error("failed to render template", "template", "admin/dashboard", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// OAuthLogin handles GET /api/oauth/login. It sends the browser to the
// provider with the return path, defaulting to the dashboard, as state.
func (h *AuthHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !h.oauth.Enabled() {
		http.Error(w, "OAuth sign-in is not configured", http.StatusNotFound)
		return
	}
	next := r.URL.Query().Get("return")
	if next == "" {
		next = RouteAdmin
	}
	state := base64.StdEncoding.EncodeToString([]byte(next))
	http.Redirect(w, r, h.oauth.AuthorizeURL(callbackURL(r), state), http.StatusFound)
}

// OAuthCallback handles GET /api/oauth/callback. It exchanges the code,
// records the user and stores the user id in the session.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if !h.oauth.Enabled() {
		http.Error(w, "OAuth sign-in is not configured", http.StatusNotFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	redirectURI := callbackURL(r)

	accessToken, err := h.oauth.Exchange(ctx, code, redirectURI)
	if err != nil {
		h.logger.Warn("failed to exchange oauth code", "error", err, "category", model.EventCategoryAuth)
		http.Error(w, "OAuth callback failed", http.StatusInternalServerError)
		return
	}

	identity, err := h.oauth.UserInfo(ctx, accessToken)
	if err != nil {
		h.logger.Warn("failed to fetch oauth user info", "error", err, "category", model.EventCategoryAuth)
		http.Error(w, "OAuth callback failed", http.StatusInternalServerError)
		return
	}

	user, err := h.users.SignIn(ctx, identity)
	if err != nil {
		h.logger.Error("failed to sign in user", "open_id", identity.OpenID, "error", err)
		http.Error(w, "OAuth callback failed", http.StatusInternalServerError)
		return
	}

	if user != nil {
		if err := h.sessionManager.RenewToken(ctx); err != nil {
			h.logger.Error("failed to renew session token", "error", err)
			http.Error(w, "OAuth callback failed", http.StatusInternalServerError)
			return
		}
		h.sessionManager.Put(ctx, middleware.SessionKeyUserID, user.ID)
	}

	http.Redirect(w, r, returnPath(r.URL.Query().Get("state")), http.StatusFound)
}

// callbackURL rebuilds the absolute callback URL the provider redirected to.
func callbackURL(r *http.Request) string {
	return siteURL(r) + RouteOAuthCallback
}

// returnPath decodes the base64 state into a local path. Anything that is
// not a same-site path falls back to the home page.
func returnPath(state string) string {
	if state == "" {
		return RouteRoot
	}
	raw, err := base64.StdEncoding.DecodeString(state)
	if err != nil {
		return RouteRoot
	}
	u, err := url.Parse(string(raw))
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(u.Path, "//") || strings.Contains(u.Path, `\`) {
		return RouteRoot
	}
	return u.RequestURI()
}

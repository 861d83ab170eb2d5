// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/docpropel/docpropel/internal/auth"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/store"
)

// UserLoader resolves a session user id. *service.UserService satisfies it.
type UserLoader interface {
	Get(ctx context.Context, id int64) (*store.User, error)
}

// TokenVerifier checks admin bearer tokens. *auth.TokenSigner satisfies it.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// LoadIdentity puts the session user and a valid admin token's claims into the
// request context. Neither is required; a stale session is cleared.
func LoadIdentity(sm *scs.SessionManager, users UserLoader, tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if sm != nil && users != nil {
				if userID := sm.GetInt64(ctx, SessionKeyUserID); userID != 0 {
					user, err := users.Get(ctx, userID)
					if err != nil {
						slog.Debug("clearing session for unknown user", "user_id", userID, "error", err)
						sm.Remove(ctx, SessionKeyUserID)
					} else {
						ctx = context.WithValue(ctx, ContextKeyUser, *user)
					}
				}
			}

			if token := BearerToken(r); token != "" && tokens != nil {
				if claims, err := tokens.Verify(token); err == nil {
					ctx = context.WithValue(ctx, ContextKeyAdminClaims, claims)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUser retrieves the session user from the request context.
// Returns nil if no user is signed in.
func GetUser(r *http.Request) *store.User {
	return UserFromContext(r.Context())
}

// UserFromContext is GetUser for code that only has a context.
func UserFromContext(ctx context.Context) *store.User {
	user, ok := ctx.Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// AdminClaimsFromContext returns the verified admin token claims, if any.
func AdminClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyAdminClaims).(auth.Claims)
	return claims, ok
}

// IsAdmin reports whether the request carries a valid admin token or an admin session user.
func IsAdmin(ctx context.Context) bool {
	if _, ok := AdminClaimsFromContext(ctx); ok {
		return true
	}
	user := UserFromContext(ctx)
	return user != nil && user.Role == model.RoleAdmin
}

// RequireAdmin rejects requests without admin rights: 401 for anonymous
// callers and 403 for signed-in users without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAdmin(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		if GetUser(r) != nil {
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "You do not have required permission", nil)
			return
		}
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Please login", nil)
	})
}

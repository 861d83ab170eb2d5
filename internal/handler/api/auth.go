// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/model"
)

// MsgInvalidCredentials is the only failure message a login ever reports.
const MsgInvalidCredentials = "Invalid username or password"

func (h *Handler) registerAuth() {
	h.query("auth.me", h.me)
	h.mutation("auth.logout", h.logout)
	h.mutation("adminAuth.login", h.adminLogin)
	h.query("adminAuth.verify", h.adminVerify)
}

func (h *Handler) me(c *call) (any, error) {
	// A nil *store.User encodes as null.
	return middleware.GetUser(c.r), nil
}

func (h *Handler) logout(c *call) (any, error) {
	if h.sessions != nil {
		if err := h.sessions.Destroy(c.ctx()); err != nil {
			return nil, err
		}
	}
	return okResult, nil
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the adminAuth.login output.
type LoginResult struct {
	Success   bool   `json:"success"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"` // Unix milliseconds
	Message   string `json:"message,omitempty"`
}

func (h *Handler) adminLogin(c *call) (any, error) {
	in, err := decode[loginInput](c)
	if err != nil {
		return nil, err
	}
	// Check compares the raw username. The trimmed form only keys the lockout.
	username := strings.TrimSpace(in.Username)
	ip := middleware.ClientIP(c.r)

	if h.login != nil {
		if !h.login.AllowIP(ip) {
			h.logger.Warn("admin login rate limited", "ip", ip, "category", model.EventCategoryAuth)
			return nil, &Error{Status: http.StatusTooManyRequests, Code: middleware.CodeTooManyRequests,
				Message: "Too many login attempts. Please try again later."}
		}
		if locked, remaining := h.login.IsLocked(username); locked {
			return nil, &Error{Status: http.StatusTooManyRequests, Code: middleware.CodeTooManyRequests,
				Message: "Too many failed attempts. Try again in " + remaining.Round(time.Minute).String() + "."}
		}
	}

	if !h.credentials.Check(in.Username, in.Password) {
		if h.login != nil {
			h.login.RecordFailure(username)
		}
		h.logger.Warn("failed admin login", "username", username, "ip", ip, "category", model.EventCategoryAuth)
		return LoginResult{Success: false, Message: MsgInvalidCredentials}, nil
	}

	token, claims, err := h.tokens.Issue(username)
	if err != nil {
		return nil, err
	}
	if h.login != nil {
		h.login.RecordSuccess(username)
	}
	h.logger.Info("admin logged in", "username", username, "ip", ip, "category", model.EventCategoryAuth)

	return LoginResult{Success: true, Token: token, ExpiresAt: claims.Expiry().UnixMilli()}, nil
}

type verifyInput struct {
	Token string `json:"token"`
}

func (h *Handler) adminVerify(c *call) (any, error) {
	in, err := decode[verifyInput](c)
	if err != nil {
		return nil, err
	}
	valid := in.Token != "" && h.tokens.Valid(in.Token)
	return map[string]bool{"valid": valid}, nil
}

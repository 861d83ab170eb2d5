// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api serves the site's RPC procedures at /api/trpc/{procedure}.
// Queries accept GET with a JSON "input" query parameter; mutations require
// POST with a JSON body. Every response is either {"result":{"data":...}}
// or the middleware.APIError envelope.
package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/docpropel/docpropel/internal/auth"
	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/scheduler"
	"github.com/docpropel/docpropel/internal/service"
)

// MaxInputSize bounds procedure input bodies.
const MaxInputSize = 64 * 1024

// Handler holds the dependencies shared by all procedures.
type Handler struct {
	content      *service.ContentService
	leads        *service.LeadService
	testimonials *service.TestimonialService
	users        *service.UserService
	events       *service.EventService
	notifier     service.Notifier

	credentials auth.Credentials
	tokens      *auth.TokenSigner
	login       *middleware.LoginProtection
	submissions *middleware.RateLimiter
	sessions    *scs.SessionManager
	jobs        *scheduler.Registry

	logger     *slog.Logger
	procedures map[string]procedure
}

// Config wires a Handler. Sessions, Login, Submissions and Jobs are optional.
type Config struct {
	Content      *service.ContentService
	Leads        *service.LeadService
	Testimonials *service.TestimonialService
	Users        *service.UserService
	Events       *service.EventService
	Notifier     service.Notifier

	Credentials auth.Credentials
	Tokens      *auth.TokenSigner
	Login       *middleware.LoginProtection
	Submissions *middleware.RateLimiter
	Sessions    *scs.SessionManager
	Jobs        *scheduler.Registry

	Logger *slog.Logger
}

// NewHandler creates the RPC handler and registers every procedure.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		content:      cfg.Content,
		leads:        cfg.Leads,
		testimonials: cfg.Testimonials,
		users:        cfg.Users,
		events:       cfg.Events,
		notifier:     cfg.Notifier,
		credentials:  cfg.Credentials,
		tokens:       cfg.Tokens,
		login:        cfg.Login,
		submissions:  cfg.Submissions,
		sessions:     cfg.Sessions,
		jobs:         cfg.Jobs,
		logger:       logger,
		procedures:   make(map[string]procedure),
	}
	h.registerAuth()
	h.registerPublic()
	h.registerAdmin()
	return h
}

// call is one procedure invocation.
type call struct {
	w     http.ResponseWriter
	r     *http.Request
	input json.RawMessage
}

func (c *call) ctx() context.Context {
	return c.r.Context()
}

type procFunc func(c *call) (any, error)

type procedure struct {
	mutation bool
	admin    bool
	limited  bool // Counts against the public submission rate limit
	fn       procFunc
}

func (h *Handler) query(name string, fn procFunc) {
	h.procedures[name] = procedure{fn: fn}
}

func (h *Handler) mutation(name string, fn procFunc) {
	h.procedures[name] = procedure{mutation: true, fn: fn}
}

func (h *Handler) adminQuery(name string, fn procFunc) {
	h.procedures[name] = procedure{admin: true, fn: fn}
}

func (h *Handler) adminMutation(name string, fn procFunc) {
	h.procedures[name] = procedure{mutation: true, admin: true, fn: fn}
}

func (h *Handler) submission(name string, fn procFunc) {
	h.procedures[name] = procedure{mutation: true, limited: true, fn: fn}
}

// Procedures returns the registered procedure names, sorted.
func (h *Handler) Procedures() []string {
	names := make([]string, 0, len(h.procedures))
	for name := range h.procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Routes returns the router to mount at /api/trpc.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{procedure}", h.ServeProcedure)
	r.Post("/{procedure}", h.ServeProcedure)
	return r
}

// Result is the success envelope.
type Result struct {
	Result struct {
		Data any `json:"data"`
	} `json:"result"`
}

// ServeProcedure dispatches one RPC call.
func (h *Handler) ServeProcedure(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")
	proc, ok := h.procedures[name]
	if !ok {
		middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, "No procedure found on path \""+name+"\"", nil)
		return
	}

	if proc.mutation && r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, CodeMethodNotSupported, "Mutations must use POST", nil)
		return
	}

	if proc.admin && !middleware.IsAdmin(r.Context()) {
		if middleware.GetUser(r) != nil {
			middleware.WriteAPIError(w, http.StatusForbidden, middleware.CodeForbidden, "You do not have required permission", nil)
			return
		}
		middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, "Please login", nil)
		return
	}

	if proc.limited && h.submissions != nil && !h.submissions.Allow(middleware.ClientIP(r)) {
		middleware.WriteAPIError(w, http.StatusTooManyRequests, middleware.CodeTooManyRequests, "Too many submissions. Please try again later.", nil)
		return
	}

	input, err := readInput(r)
	if err != nil {
		h.writeError(w, r, name, err)
		return
	}

	data, err := proc.fn(&call{w: w, r: r, input: input})
	if err != nil {
		h.writeError(w, r, name, err)
		return
	}

	var res Result
	res.Result.Data = data
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}

func readInput(r *http.Request) (json.RawMessage, error) {
	if r.Method == http.MethodGet {
		raw := r.URL.Query().Get("input")
		if raw == "" {
			return nil, nil
		}
		if !json.Valid([]byte(raw)) {
			return nil, badRequest("Input is not valid JSON")
		}
		return json.RawMessage(raw), nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxInputSize+1))
	if err != nil {
		return nil, badRequest("Failed to read request body")
	}
	if len(body) > MaxInputSize {
		return nil, badRequest("Input is too large")
	}
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, badRequest("Input is not valid JSON")
	}
	return body, nil
}

// decode unmarshals the call input into T. Missing input yields the zero value.
func decode[T any](c *call) (T, error) {
	var v T
	if len(c.input) == 0 || string(c.input) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(c.input, &v); err != nil {
		return v, badRequest("Invalid input: " + err.Error())
	}
	return v, nil
}

// idInput is the input of procedures addressing one record.
type idInput struct {
	ID int64 `json:"id"`
}

func decodeID(c *call) (int64, error) {
	in, err := decode[idInput](c)
	if err != nil {
		return 0, err
	}
	if in.ID <= 0 {
		return 0, &Error{Status: http.StatusBadRequest, Code: middleware.CodeBadRequest,
			Message: "Invalid input", Details: map[string]string{"id": "A positive id is required"}}
	}
	return in.ID, nil
}

// success is the output of mutations without a meaningful result.
type success struct {
	Success bool `json:"success"`
}

var okResult = success{Success: true}

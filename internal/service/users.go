// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/docpropel/docpropel/internal/auth"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/store"
)

// ErrMissingOpenID is returned when an identity has no open id.
var ErrMissingOpenID = errors.New("user open id is required")

// UserService records users signing in through the identity provider.
type UserService struct {
	queries     *store.Queries
	ownerOpenID string
	now         func() time.Time
}

// NewUserService creates a user service. The user whose open id equals
// ownerOpenID is promoted to admin on sign-in.
func NewUserService(db *sql.DB, ownerOpenID string) *UserService {
	s := &UserService{ownerOpenID: ownerOpenID, now: time.Now}
	if db != nil {
		s.queries = store.New(db)
	}
	return s
}

// SignIn creates the user on first sign-in and refreshes the profile afterwards.
// It returns nil without a database.
func (s *UserService) SignIn(ctx context.Context, id auth.Identity) (*store.User, error) {
	if id.OpenID == "" {
		return nil, ErrMissingOpenID
	}
	if s.queries == nil {
		slog.Warn("cannot upsert user: database not available")
		return nil, nil
	}

	role := model.RoleUser
	if s.ownerOpenID != "" && id.OpenID == s.ownerOpenID {
		role = model.RoleAdmin
	}

	user, err := s.queries.UpsertUser(ctx, store.UpsertUserParams{
		OpenID:      id.OpenID,
		Name:        id.Name,
		Email:       id.Email,
		LoginMethod: id.LoginMethod,
		Role:        role,
		SignedInAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	slog.Info("user signed in", "user_id", user.ID, "role", user.Role, "category", model.EventCategoryAuth)
	return &user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*store.User, error) {
	if s.queries == nil {
		return nil, ErrNotFound
	}
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "loading user")
	}
	return &user, nil
}

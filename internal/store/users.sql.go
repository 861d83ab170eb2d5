// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = `id, open_id, name, email, login_method, role, created_at, updated_at, last_signed_in`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.OpenID,
		&u.Name,
		&u.Email,
		&u.LoginMethod,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastSignedIn,
	)
	return u, err
}

const upsertUser = `-- name: UpsertUser :one
INSERT INTO users (open_id, name, email, login_method, role, created_at, updated_at, last_signed_in)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(open_id) DO UPDATE SET
    name = CASE WHEN excluded.name != '' THEN excluded.name ELSE users.name END,
    email = CASE WHEN excluded.email != '' THEN excluded.email ELSE users.email END,
    login_method = CASE WHEN excluded.login_method != '' THEN excluded.login_method ELSE users.login_method END,
    role = CASE WHEN excluded.role = 'admin' THEN 'admin' ELSE users.role END,
    updated_at = excluded.updated_at,
    last_signed_in = excluded.last_signed_in
RETURNING ` + userColumns

type UpsertUserParams struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
	Role        string
	SignedInAt  time.Time
}

// UpsertUser creates the user on first sign-in and refreshes the profile on later ones.
// Empty profile fields never overwrite stored values and an admin role is never downgraded.
func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	role := arg.Role
	if role == "" {
		role = "user"
	}
	row := q.db.QueryRowContext(ctx, upsertUser,
		arg.OpenID,
		arg.Name,
		arg.Email,
		arg.LoginMethod,
		role,
		arg.SignedInAt,
		arg.SignedInAt,
		arg.SignedInAt,
	)
	return scanUser(row)
}

const getUserByOpenID = `-- name: GetUserByOpenID :one
SELECT ` + userColumns + ` FROM users WHERE open_id = ?`

func (q *Queries) GetUserByOpenID(ctx context.Context, openID string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByOpenID, openID))
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

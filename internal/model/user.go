// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain vocabulary shared across the application:
// roles, lead statuses, content types, notification channels and event categories.
package model

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole reports whether role is a known user role.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

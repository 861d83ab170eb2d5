// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
)

// Credentials holds the single configured dashboard account.
// Password is either plain text or an argon2id hash produced by HashPassword.
type Credentials struct {
	Username string
	Password string
}

// Check reports whether username and password match the configured account.
// An empty configured password never matches.
func (c Credentials) Check(username, password string) bool {
	if c.Password == "" {
		return false
	}

	userOK := constantTimeEqual(username, c.Username)

	var passOK bool
	if IsArgon2Hash(c.Password) {
		ok, err := CheckPassword(password, c.Password)
		if err != nil {
			slog.Error("failed to verify admin password hash", "error", err)
		}
		passOK = ok
	} else {
		passOK = constantTimeEqual(password, c.Password)
	}

	return userOK && passOK
}

// constantTimeEqual compares digests so the timing leaks neither content nor length.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

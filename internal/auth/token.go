// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an admin token stays valid after login.
const TokenTTL = 24 * time.Hour

// tokenType is the only token type accepted by Verify.
const tokenType = "admin"

// Token verification errors.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims is the payload of an admin token. ID carries a random nonce so two
// logins in the same second still get different tokens.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Expiry returns the expiry, or the zero time when the token has none.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenSigner issues and verifies HS256 admin JWTs.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenSigner creates a signer using secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// Issue creates a token for subject that expires TokenTTL from now.
func (s *TokenSigner) Issue(subject string) (string, Claims, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", Claims{}, fmt.Errorf("generating nonce: %w", err)
	}

	now := s.now()
	claims := Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        hex.EncodeToString(nonce),
		},
	}

	token, err := s.sign(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

func (s *TokenSigner) sign(claims Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, type and expiry of token.
// A token whose expiry is at or before the current time is rejected.
func (s *TokenSigner) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return claims, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return claims, ErrTokenSignature
	default:
		return claims, ErrTokenMalformed
	}

	if claims.Type != tokenType {
		return claims, ErrTokenMalformed
	}
	return claims, nil
}

// Valid is Verify reduced to a boolean.
func (s *TokenSigner) Valid(token string) bool {
	_, err := s.Verify(token)
	return err == nil
}

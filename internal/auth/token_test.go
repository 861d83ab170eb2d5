// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func fixedSigner(at time.Time) *TokenSigner {
	s := NewTokenSigner(testSecret)
	s.now = func() time.Time { return at }
	return s
}

func TestTokenSigner_IssueAndVerify(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	s := fixedSigner(now)

	token, claims, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !claims.Expiry().Equal(now.Add(TokenTTL)) {
		t.Errorf("Expiry = %v, want %v", claims.Expiry(), now.Add(TokenTTL))
	}

	got, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Subject != "admin" || got.Type != "admin" || got.ID == "" {
		t.Errorf("claims = %+v", got)
	}
	if !s.Valid(token) {
		t.Error("Valid() = false for a fresh token")
	}
}

func TestTokenSigner_UniqueTokens(t *testing.T) {
	s := NewTokenSigner(testSecret)
	a, _, _ := s.Issue("admin")
	b, _, _ := s.Issue("admin")
	if a == b {
		t.Error("two tokens issued in a row must differ")
	}
}

func TestTokenSigner_Expiry(t *testing.T) {
	issued := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	token, _, err := fixedSigner(issued).Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"just before expiry", issued.Add(TokenTTL - time.Millisecond), nil},
		{"exactly at expiry", issued.Add(TokenTTL), ErrTokenExpired},
		{"25 hours later", issued.Add(25 * time.Hour), ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixedSigner(tt.at).Verify(token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenSigner_Tampering(t *testing.T) {
	s := NewTokenSigner(testSecret)
	token, _, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	header, sig := parts[0], parts[2]

	forged := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"typ":"admin","sub":"admin","exp":99999999999,"jti":"x"}`))
	other, _, err := s.Issue("someone-else")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	otherSig := other[strings.LastIndex(other, ".")+1:]

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Type:             tokenType,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing alg=none token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrTokenMalformed},
		{"no signature segment", parts[0] + "." + parts[1], ErrTokenMalformed},
		{"forged payload", header + "." + forged + "." + sig, ErrTokenSignature},
		{"signature of another token", parts[0] + "." + parts[1] + "." + otherSig, ErrTokenSignature},
		{"alg none", unsigned, ErrTokenSignature},
		{"legacy base64 token", base64.StdEncoding.EncodeToString([]byte("admin:1700000000000:abcd")), ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Verify(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewTokenSigner("another-secret-key-32-bytes-long").Verify(token); !errors.Is(err, ErrTokenSignature) {
		t.Errorf("token signed with another secret: error = %v, want ErrTokenSignature", err)
	}
}

func TestTokenSigner_WrongType(t *testing.T) {
	s := NewTokenSigner(testSecret)
	token, err := s.sign(Claims{
		Type:             "user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify() error = %v, want ErrTokenMalformed", err)
	}
}

func TestTokenSigner_MissingExpiry(t *testing.T) {
	s := NewTokenSigner(testSecret)
	token, err := s.sign(Claims{Type: tokenType})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(token); err == nil {
		t.Error("a token without exp must not verify")
	}
}

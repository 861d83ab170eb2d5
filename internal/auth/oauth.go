// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxOAuthResponse bounds identity provider responses.
const maxOAuthResponse = 64 * 1024

// ErrOAuthNotConfigured is returned when no identity provider is set up.
var ErrOAuthNotConfigured = errors.New("oauth provider not configured")

// Identity is the user profile returned by the identity provider.
type Identity struct {
	OpenID      string `json:"openId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
}

// OAuthClient exchanges authorization codes with the identity provider.
type OAuthClient struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// NewOAuthClient creates a client for the provider at baseURL.
func NewOAuthClient(baseURL, clientID, clientSecret string) *OAuthClient {
	return &OAuthClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether the provider is configured.
func (c *OAuthClient) Enabled() bool {
	return c != nil && c.BaseURL != "" && c.ClientID != ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}

// AuthorizeURL returns the provider page that starts a sign-in. The provider
// sends the user back to redirectURI with a code and the unchanged state.
func (c *OAuthClient) AuthorizeURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", redirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return c.BaseURL + "/authorize?" + q.Encode()
}

// Exchange trades an authorization code for an access token.
func (c *OAuthClient) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	if !c.Enabled() {
		return "", ErrOAuthNotConfigured
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	if redirectURI != "" {
		form.Set("redirect_uri", redirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return "", fmt.Errorf("exchanging code: %w", err)
	}
	if tok.AccessToken == "" {
		if tok.Error != "" {
			return "", fmt.Errorf("exchanging code: %s", tok.Error)
		}
		return "", errors.New("exchanging code: empty access token")
	}
	return tok.AccessToken, nil
}

// UserInfo fetches the profile for an access token.
func (c *OAuthClient) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	if !c.Enabled() {
		return Identity{}, ErrOAuthNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/userinfo", nil)
	if err != nil {
		return Identity{}, fmt.Errorf("creating userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	var id Identity
	if err := c.do(req, &id); err != nil {
		return Identity{}, fmt.Errorf("fetching user info: %w", err)
	}
	if id.OpenID == "" {
		return Identity{}, errors.New("fetching user info: missing openId")
	}
	return id, nil
}

func (c *OAuthClient) do(req *http.Request, out any) error {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOAuthResponse))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

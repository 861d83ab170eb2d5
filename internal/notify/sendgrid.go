// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docpropel/docpropel/internal/model"
)

// DefaultSendGridURL is the SendGrid v3 mail send endpoint.
const DefaultSendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGrid delivers email notifications through the SendGrid v3 API.
type SendGrid struct {
	APIKey    string
	FromEmail string
	FromName  string
	URL       string       // Defaults to DefaultSendGridURL
	Client    *http.Client // Defaults to the shared client
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// Send emails msg to recipient. A missing API key fails without a request.
func (s *SendGrid) Send(ctx context.Context, recipient string, msg Message) Result {
	start := time.Now()
	result := Result{Channel: model.ChannelEmail, Recipient: recipient}

	if s.APIKey == "" {
		result.Error = "SendGrid API key not configured"
		return result
	}

	htmlBody, err := RenderEmailHTML(msg)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	payload, err := json.Marshal(sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: recipient}}}},
		From:             sendGridAddress{Email: s.FromEmail, Name: s.FromName},
		Subject:          msg.Title,
		Content:          []sendGridContent{{Type: "text/html", Value: htmlBody}},
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal payload: %v", err)
		return result
	}

	url := s.URL
	if url == "" {
		url = DefaultSendGridURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	deliver(clientOrDefault(s.Client), req, &result)
	result.Duration = time.Since(start)
	return result
}

// deliver performs req and fills the status fields of result.
// Any 2xx response counts as delivered.
func deliver(client *http.Client, req *http.Request, result *Result) {
	resp, err := client.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Success = true
		return
	}
	result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
}

func clientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return httpClient
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify fans a notification out to the channels enabled in the
// site's notification settings: email through SendGrid, and SMS and WhatsApp
// through Twilio. Each channel gets one attempt; failures are logged and
// recorded but never returned to the caller.
package notify

import (
	"context"
	"net/http"
	"time"
)

// Delivery configuration constants
const (
	RequestTimeout = 30 * time.Second // HTTP request timeout per channel
	MaxResponseLen = 10 * 1024        // Maximum provider response body kept for logs
	MaxTextLen     = 1600             // Twilio message body limit
	UserAgent      = "DocPropel/1.0"
)

// Message is a notification to deliver. Body uses a small markdown subset:
// **bold**, *italic* and "- " list items.
type Message struct {
	Title  string
	Body   string
	LeadID *int64 // Set when the message announces a stored lead
}

// Result is the outcome of one channel attempt.
type Result struct {
	Channel    string        `json:"channel"`
	Recipient  string        `json:"recipient"`
	Success    bool          `json:"success"`
	StatusCode int           `json:"statusCode,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"-"`
}

// Report lists the attempts made by one Send call, in dispatch order.
type Report struct {
	BatchID string   `json:"batchId"`
	Results []Result `json:"results"`
}

// Sent returns the channels that delivered successfully.
func (r Report) Sent() []string {
	var out []string
	for _, res := range r.Results {
		if res.Success {
			out = append(out, res.Channel)
		}
	}
	return out
}

// Failed returns the channels that were attempted and failed.
func (r Report) Failed() []string {
	var out []string
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res.Channel)
		}
	}
	return out
}

// Sender delivers a message to one recipient over one channel.
type Sender interface {
	Send(ctx context.Context, recipient string, msg Message) Result
}

// httpClient is the shared HTTP client with appropriate timeouts.
var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docpropel/docpropel/internal/model"
)

// DefaultTwilioURL is the Twilio REST API base URL.
const DefaultTwilioURL = "https://api.twilio.com"

// DefaultWhatsAppFrom is the Twilio WhatsApp sandbox sender.
const DefaultWhatsAppFrom = "whatsapp:+14155238886"

const whatsAppPrefix = "whatsapp:"

// Twilio sends SMS or WhatsApp messages through the Twilio Messages API.
// One value serves one channel; set WhatsApp for the WhatsApp variant.
type Twilio struct {
	AccountSID string
	AuthToken  string
	From       string // Sender number; WhatsApp falls back to DefaultWhatsAppFrom
	WhatsApp   bool
	BaseURL    string       // Defaults to DefaultTwilioURL
	Client     *http.Client // Defaults to the shared client
}

// Channel returns the channel name this sender reports.
func (t *Twilio) Channel() string {
	if t.WhatsApp {
		return model.ChannelWhatsApp
	}
	return model.ChannelSMS
}

// Send texts msg to recipient. Missing credentials fail without a request.
func (t *Twilio) Send(ctx context.Context, recipient string, msg Message) Result {
	start := time.Now()
	result := Result{Channel: t.Channel(), Recipient: recipient}

	from := t.From
	to := recipient
	if t.WhatsApp {
		if from == "" {
			from = DefaultWhatsAppFrom
		}
		to = WhatsAppAddress(recipient)
	}

	if t.AccountSID == "" || t.AuthToken == "" || from == "" {
		result.Error = "Twilio credentials not configured"
		return result
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", TextMessage(msg))

	base := t.BaseURL
	if base == "" {
		base = DefaultTwilioURL
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(base, "/"), url.PathEscape(t.AccountSID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)

	deliver(clientOrDefault(t.Client), req, &result)
	result.Duration = time.Since(start)
	return result
}

// WhatsAppAddress prefixes phone with "whatsapp:" unless it already has it.
func WhatsAppAddress(phone string) string {
	if strings.HasPrefix(phone, whatsAppPrefix) {
		return phone
	}
	return whatsAppPrefix + phone
}

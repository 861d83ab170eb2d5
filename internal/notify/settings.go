// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"

	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/store"
)

// Settings is the channel configuration kept in the "notifications" content section.
type Settings struct {
	EmailEnabled    bool   `json:"emailEnabled"`
	EmailRecipient  string `json:"emailRecipient"`
	SMSEnabled      bool   `json:"smsEnabled"`
	SMSPhone        string `json:"smsPhone"`
	WhatsAppEnabled bool   `json:"whatsappEnabled"`
	WhatsAppPhone   string `json:"whatsappPhone"`
}

// SettingsSource loads the current notification settings.
type SettingsSource interface {
	NotificationSettings(ctx context.Context) (Settings, error)
}

// SettingsFromContent builds Settings from content blocks. A flag is on only
// when its value is exactly "true"; missing keys read as off or empty.
func SettingsFromContent(items []store.SiteContent) Settings {
	values := make(map[string]string, len(items))
	for _, c := range items {
		if c.Section == model.SectionNotifications {
			values[c.Key] = c.Value
		}
	}

	return Settings{
		EmailEnabled:    values[model.NotifyEmailEnabled] == "true",
		EmailRecipient:  values[model.NotifyEmailRecipient],
		SMSEnabled:      values[model.NotifySMSEnabled] == "true",
		SMSPhone:        values[model.NotifySMSPhone],
		WhatsAppEnabled: values[model.NotifyWhatsAppEnabled] == "true",
		WhatsAppPhone:   values[model.NotifyWhatsAppPhone],
	}
}

// ContentBlock is one notifications key ready to be upserted.
type ContentBlock struct {
	Key       string
	Value     string
	Label     string
	SortOrder int64
}

// Blocks converts s back into the six content blocks of the notifications section.
func (s Settings) Blocks() []ContentBlock {
	return []ContentBlock{
		{Key: model.NotifyEmailEnabled, Value: boolString(s.EmailEnabled), Label: "Email Notifications Enabled", SortOrder: 1},
		{Key: model.NotifyEmailRecipient, Value: s.EmailRecipient, Label: "Email Notification Recipient", SortOrder: 2},
		{Key: model.NotifySMSEnabled, Value: boolString(s.SMSEnabled), Label: "SMS Notifications Enabled", SortOrder: 3},
		{Key: model.NotifySMSPhone, Value: s.SMSPhone, Label: "SMS Phone Number", SortOrder: 4},
		{Key: model.NotifyWhatsAppEnabled, Value: boolString(s.WhatsAppEnabled), Label: "WhatsApp Notifications Enabled", SortOrder: 5},
		{Key: model.NotifyWhatsAppPhone, Value: s.WhatsAppPhone, Label: "WhatsApp Phone Number", SortOrder: 6},
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// target is a channel selected for delivery.
type target struct {
	channel   string
	recipient string
}

// targets returns the enabled channels that have a destination, in dispatch order.
func (s Settings) targets() []target {
	var out []target
	if s.EmailEnabled && s.EmailRecipient != "" {
		out = append(out, target{model.ChannelEmail, s.EmailRecipient})
	}
	if s.SMSEnabled && s.SMSPhone != "" {
		out = append(out, target{model.ChannelSMS, s.SMSPhone})
	}
	if s.WhatsAppEnabled && s.WhatsAppPhone != "" {
		out = append(out, target{model.ChannelWhatsApp, s.WhatsAppPhone})
	}
	return out
}

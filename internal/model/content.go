// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Site content types. They control which editor the dashboard shows.
const (
	ContentTypeText     = "text"
	ContentTypeTextarea = "textarea"
	ContentTypeImage    = "image"
	ContentTypeLink     = "link"
)

// ContentTypes lists every valid content type.
var ContentTypes = []string{ContentTypeText, ContentTypeTextarea, ContentTypeImage, ContentTypeLink}

// IsValidContentType reports whether t is a known content type.
func IsValidContentType(t string) bool {
	return slices.Contains(ContentTypes, t)
}

// Content sections with special meaning.
const (
	SectionNotifications = "notifications"
	SectionContact       = "contact"
	SectionHero          = "hero"
	SectionAbout         = "about"
	SectionFooter        = "footer"
)

// Keys of the notifications section.
const (
	NotifyEmailEnabled    = "email_enabled"
	NotifyEmailRecipient  = "email_recipient"
	NotifySMSEnabled      = "sms_enabled"
	NotifySMSPhone        = "sms_phone"
	NotifyWhatsAppEnabled = "whatsapp_enabled"
	NotifyWhatsAppPhone   = "whatsapp_phone"
)

// IsPrivateSection reports whether a section must never be served to anonymous visitors.
func IsPrivateSection(section string) bool {
	return section == SectionNotifications
}

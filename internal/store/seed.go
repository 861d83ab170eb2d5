// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// DefaultContent is the editable site copy installed on first start.
// The notifications section doubles as the channel configuration read by the dispatcher.
var DefaultContent = []UpsertSiteContentParams{
	{Section: "contact", Key: "phone", Value: "1-800-DOC-PROPEL", Label: "Phone Number", SortOrder: 1},
	{Section: "contact", Key: "phone_link", Value: "1-800-362-7767", Label: "Phone Number (for tel: link)", SortOrder: 2},
	{Section: "contact", Key: "email", Value: "hello@docpropel.com", Label: "Email Address", SortOrder: 3},

	{Section: "hero", Key: "headline", Value: "Stop Paying for Promises.", Label: "Main Headline", SortOrder: 1},
	{Section: "hero", Key: "subheadline", Value: "We grow your patient base. You only pay when we deliver. " +
		"DocPropel is the performance-based growth partner for healthcare practices. " +
		"No retainers. No long-term contracts. Just accountable patient growth.",
		Label: "Subheadline", ContentType: "textarea", SortOrder: 2},
	{Section: "hero", Key: "cta_text", Value: "Request a Practice Growth Brief", Label: "CTA Button Text", SortOrder: 3},

	{Section: "about", Key: "title", Value: "Built for Healthcare. Without the Games.", Label: "About Title", SortOrder: 1},
	{Section: "about", Key: "description", Value: "We built DocPropel specifically for healthcare practices that want growth " +
		"without the hype. We understand compliance, respect how practices actually operate, and avoid agency theatrics. " +
		"Our aim is to be a long-term growth partner, measured by results. No buzzwords, just accountable patient growth.",
		Label: "About Description", ContentType: "textarea", SortOrder: 2},

	{Section: "footer", Key: "tagline", Value: "The only performance-based marketing partner for healthcare practices. " +
		"We grow your patient base, you only pay for results.",
		Label: "Footer Tagline", ContentType: "textarea", SortOrder: 1},
	{Section: "footer", Key: "copyright", Value: "© 2026 DocPropel. All rights reserved.", Label: "Copyright Text", SortOrder: 2},

	{Section: "notifications", Key: "email_enabled", Value: "true", Label: "Email Notifications Enabled", SortOrder: 1},
	{Section: "notifications", Key: "email_recipient", Value: "hello@docpropel.com", Label: "Email Notification Recipient", SortOrder: 2},
	{Section: "notifications", Key: "sms_enabled", Value: "false", Label: "SMS Notifications Enabled", SortOrder: 3},
	{Section: "notifications", Key: "sms_phone", Value: "", Label: "SMS Phone Number", SortOrder: 4},
	{Section: "notifications", Key: "whatsapp_enabled", Value: "false", Label: "WhatsApp Notifications Enabled", SortOrder: 5},
	{Section: "notifications", Key: "whatsapp_phone", Value: "", Label: "WhatsApp Phone Number", SortOrder: 6},
}

// Seed installs DefaultContent. Existing blocks are left as they are, so edits
// made through the dashboard survive restarts.
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := New(db).WithTx(tx)
	now := time.Now().UTC()

	var inserted int64
	for _, item := range DefaultContent {
		item.UpdatedAt = now
		n, err := queries.InsertSiteContentIfMissing(ctx, item)
		if err != nil {
			return fmt.Errorf("seeding %s.%s: %w", item.Section, item.Key, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	if inserted > 0 {
		slog.Info("seeded site content", "inserted", inserted)
	} else {
		slog.Debug("site content already seeded")
	}
	return nil
}

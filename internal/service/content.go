// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docpropel/docpropel/internal/cache"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/notify"
	"github.com/docpropel/docpropel/internal/store"
)

// Column limits for content blocks.
const (
	MaxSectionLen = 64
	MaxKeyLen     = 64
	MaxLabelLen   = 128
)

// allSectionsKey caches the full listing next to the per-section entries.
const allSectionsKey = "*"

// ContentService manages editable site content blocks. Reads are cached per
// section; every write drops the cached copies it affects.
type ContentService struct {
	queries *store.Queries
	cache   *cache.Typed[[]store.SiteContent]
}

// NewContentService creates a content service. c may be nil to disable caching.
func NewContentService(db *sql.DB, c cache.Cache, ttl time.Duration) *ContentService {
	s := &ContentService{}
	if db != nil {
		s.queries = store.New(db)
	}
	if c != nil {
		s.cache = cache.NewTyped[[]store.SiteContent](c, "content", ttl)
	}
	return s
}

// All returns every content block ordered by section and sort order.
func (s *ContentService) All(ctx context.Context) ([]store.SiteContent, error) {
	if s.queries == nil {
		slog.Warn("cannot get site content: database not available")
		return []store.SiteContent{}, nil
	}
	return s.load(ctx, allSectionsKey, func(ctx context.Context) ([]store.SiteContent, error) {
		items, err := s.queries.ListAllSiteContent(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing site content: %w", err)
		}
		return items, nil
	})
}

// Section returns the blocks of one section ordered by sort order.
func (s *ContentService) Section(ctx context.Context, section string) ([]store.SiteContent, error) {
	if s.queries == nil {
		slog.Warn("cannot get site content: database not available", "section", section)
		return []store.SiteContent{}, nil
	}
	return s.load(ctx, section, func(ctx context.Context) ([]store.SiteContent, error) {
		items, err := s.queries.ListSiteContentBySection(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("listing site content for %s: %w", section, err)
		}
		return items, nil
	})
}

// PublicSection is Section for anonymous callers; private sections read as empty.
func (s *ContentService) PublicSection(ctx context.Context, section string) ([]store.SiteContent, error) {
	if model.IsPrivateSection(section) {
		return []store.SiteContent{}, nil
	}
	return s.Section(ctx, section)
}

// Values returns a section as a key to value map for templates.
func (s *ContentService) Values(ctx context.Context, section string) map[string]string {
	items, err := s.Section(ctx, section)
	values := make(map[string]string, len(items))
	if err != nil {
		slog.Error("failed to load site content", "section", section, "error", err)
		return values
	}
	for _, c := range items {
		values[c.Key] = c.Value
	}
	return values
}

func (s *ContentService) load(ctx context.Context, key string, fn func(context.Context) ([]store.SiteContent, error)) ([]store.SiteContent, error) {
	if s.cache == nil {
		return fn(ctx)
	}
	return s.cache.GetOrLoad(ctx, key, fn)
}

func (s *ContentService) invalidate(ctx context.Context, section string) {
	if s.cache == nil {
		return
	}
	for _, key := range []string{section, allSectionsKey} {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			slog.Warn("failed to invalidate content cache", "key", key, "error", err)
		}
	}
}

// UpsertContentInput is a content block write. Omitted Label, ContentType
// and SortOrder keep the stored values of an existing block; a new block
// gets no label, text and 0.
type UpsertContentInput struct {
	Section     string `json:"section"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Label       string `json:"label,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	SortOrder   *int64 `json:"sortOrder,omitempty"`
}

func (in *UpsertContentInput) validate() error {
	in.Section = strings.TrimSpace(in.Section)
	in.Key = strings.TrimSpace(in.Key)

	errs := validationErrors{}
	switch {
	case in.Section == "":
		errs["section"] = "Section is required"
	case utf8.RuneCountInString(in.Section) > MaxSectionLen:
		errs["section"] = fmt.Sprintf("Section must be at most %d characters", MaxSectionLen)
	}
	switch {
	case in.Key == "":
		errs["key"] = "Key is required"
	case utf8.RuneCountInString(in.Key) > MaxKeyLen:
		errs["key"] = fmt.Sprintf("Key must be at most %d characters", MaxKeyLen)
	}
	if utf8.RuneCountInString(in.Label) > MaxLabelLen {
		errs["label"] = fmt.Sprintf("Label must be at most %d characters", MaxLabelLen)
	}
	if in.ContentType != "" && !model.IsValidContentType(in.ContentType) {
		errs["contentType"] = "Content type must be one of: " + strings.Join(model.ContentTypes, ", ")
	}
	return errs.err()
}

// Upsert creates or updates the block for (section, key) in one statement.
func (s *ContentService) Upsert(ctx context.Context, in UpsertContentInput) (store.SiteContent, error) {
	if err := in.validate(); err != nil {
		return store.SiteContent{}, err
	}
	if s.queries == nil {
		slog.Warn("cannot upsert site content: database not available", "section", in.Section, "key", in.Key)
		return store.SiteContent{}, nil
	}

	arg := store.MergeSiteContentParams{
		Section:     in.Section,
		Key:         in.Key,
		Value:       in.Value,
		Label:       in.Label,
		ContentType: sql.NullString{String: in.ContentType, Valid: in.ContentType != ""},
		UpdatedAt:   time.Now().UTC(),
	}
	if in.SortOrder != nil {
		arg.SortOrder = sql.NullInt64{Int64: *in.SortOrder, Valid: true}
	}
	item, err := s.queries.MergeSiteContent(ctx, arg)
	if err != nil {
		return store.SiteContent{}, fmt.Errorf("upserting site content %s.%s: %w", in.Section, in.Key, err)
	}

	s.invalidate(ctx, item.Section)
	slog.Info("site content saved", "section", item.Section, "key", item.Key, "category", model.EventCategoryContent)
	return item, nil
}

// UpdateValue changes the value of an existing block.
func (s *ContentService) UpdateValue(ctx context.Context, id int64, value string) (store.SiteContent, error) {
	if s.queries == nil {
		slog.Warn("cannot update site content: database not available", "id", id)
		return store.SiteContent{}, nil
	}

	item, err := s.queries.UpdateSiteContentValue(ctx, id, value, time.Now().UTC())
	if err != nil {
		return store.SiteContent{}, notFound(err, "updating site content")
	}
	s.invalidate(ctx, item.Section)
	return item, nil
}

// Delete removes a block.
func (s *ContentService) Delete(ctx context.Context, id int64) error {
	if s.queries == nil {
		slog.Warn("cannot delete site content: database not available", "id", id)
		return nil
	}

	item, err := s.queries.DeleteSiteContent(ctx, id)
	if err != nil {
		return notFound(err, "deleting site content")
	}
	s.invalidate(ctx, item.Section)
	return nil
}

// NotificationSettings implements notify.SettingsSource.
func (s *ContentService) NotificationSettings(ctx context.Context) (notify.Settings, error) {
	items, err := s.Section(ctx, model.SectionNotifications)
	if err != nil {
		return notify.Settings{}, err
	}
	return notify.SettingsFromContent(items), nil
}

// UpdateNotificationSettings validates and writes the six notification keys.
func (s *ContentService) UpdateNotificationSettings(ctx context.Context, settings notify.Settings) (notify.Settings, error) {
	settings.EmailRecipient = strings.TrimSpace(settings.EmailRecipient)
	settings.SMSPhone = strings.TrimSpace(settings.SMSPhone)
	settings.WhatsAppPhone = strings.TrimSpace(settings.WhatsAppPhone)

	errs := validationErrors{}
	if settings.EmailRecipient != "" && !isValidEmail(settings.EmailRecipient) {
		errs["emailRecipient"] = "Invalid email format"
	}
	if settings.EmailEnabled && settings.EmailRecipient == "" {
		errs["emailRecipient"] = "Recipient is required when email notifications are enabled"
	}
	if settings.SMSEnabled && settings.SMSPhone == "" {
		errs["smsPhone"] = "Phone number is required when SMS notifications are enabled"
	}
	if settings.WhatsAppEnabled && settings.WhatsAppPhone == "" {
		errs["whatsappPhone"] = "Phone number is required when WhatsApp notifications are enabled"
	}
	if err := errs.err(); err != nil {
		return notify.Settings{}, err
	}

	for _, b := range settings.Blocks() {
		sortOrder := b.SortOrder
		if _, err := s.Upsert(ctx, UpsertContentInput{
			Section:     model.SectionNotifications,
			Key:         b.Key,
			Value:       b.Value,
			Label:       b.Label,
			ContentType: model.ContentTypeText,
			SortOrder:   &sortOrder,
		}); err != nil {
			return notify.Settings{}, err
		}
	}
	return settings, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const siteContentColumns = `id, section, key, value, label, content_type, sort_order, created_at, updated_at`

func scanSiteContent(row interface{ Scan(...any) error }) (SiteContent, error) {
	var c SiteContent
	err := row.Scan(
		&c.ID,
		&c.Section,
		&c.Key,
		&c.Value,
		&c.Label,
		&c.ContentType,
		&c.SortOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func collectSiteContent(rows *sql.Rows) ([]SiteContent, error) {
	defer func() { _ = rows.Close() }()
	items := []SiteContent{}
	for rows.Next() {
		c, err := scanSiteContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAllSiteContent = `-- name: ListAllSiteContent :many
SELECT ` + siteContentColumns + ` FROM site_content ORDER BY section, sort_order, id`

func (q *Queries) ListAllSiteContent(ctx context.Context) ([]SiteContent, error) {
	rows, err := q.db.QueryContext(ctx, listAllSiteContent)
	if err != nil {
		return nil, err
	}
	return collectSiteContent(rows)
}

const listSiteContentBySection = `-- name: ListSiteContentBySection :many
SELECT ` + siteContentColumns + ` FROM site_content WHERE section = ? ORDER BY sort_order, id`

func (q *Queries) ListSiteContentBySection(ctx context.Context, section string) ([]SiteContent, error) {
	rows, err := q.db.QueryContext(ctx, listSiteContentBySection, section)
	if err != nil {
		return nil, err
	}
	return collectSiteContent(rows)
}

const getSiteContentByID = `-- name: GetSiteContentByID :one
SELECT ` + siteContentColumns + ` FROM site_content WHERE id = ?`

func (q *Queries) GetSiteContentByID(ctx context.Context, id int64) (SiteContent, error) {
	return scanSiteContent(q.db.QueryRowContext(ctx, getSiteContentByID, id))
}

const getSiteContent = `-- name: GetSiteContent :one
SELECT ` + siteContentColumns + ` FROM site_content WHERE section = ? AND key = ?`

func (q *Queries) GetSiteContent(ctx context.Context, section, key string) (SiteContent, error) {
	return scanSiteContent(q.db.QueryRowContext(ctx, getSiteContent, section, key))
}

const upsertSiteContent = `-- name: UpsertSiteContent :one
INSERT INTO site_content (section, key, value, label, content_type, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(section, key) DO UPDATE SET
    value = excluded.value,
    label = CASE WHEN excluded.label != '' THEN excluded.label ELSE site_content.label END,
    content_type = excluded.content_type,
    sort_order = excluded.sort_order,
    updated_at = excluded.updated_at
RETURNING ` + siteContentColumns

type UpsertSiteContentParams struct {
	Section     string
	Key         string
	Value       string
	Label       string
	ContentType string
	SortOrder   int64
	UpdatedAt   time.Time
}

// UpsertSiteContent writes a content block in a single statement.
// Concurrent writers to the same section and key leave exactly one row (last write wins).
func (q *Queries) UpsertSiteContent(ctx context.Context, arg UpsertSiteContentParams) (SiteContent, error) {
	contentType := arg.ContentType
	if contentType == "" {
		contentType = "text"
	}
	row := q.db.QueryRowContext(ctx, upsertSiteContent,
		arg.Section,
		arg.Key,
		arg.Value,
		arg.Label,
		contentType,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.UpdatedAt,
	)
	return scanSiteContent(row)
}

const mergeSiteContent = `-- name: MergeSiteContent :one
INSERT INTO site_content (section, key, value, label, content_type, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, COALESCE(?, 'text'), COALESCE(?, 0), ?, ?)
ON CONFLICT(section, key) DO UPDATE SET
    value = excluded.value,
    label = CASE WHEN excluded.label != '' THEN excluded.label ELSE site_content.label END,
    content_type = COALESCE(?, site_content.content_type),
    sort_order = COALESCE(?, site_content.sort_order),
    updated_at = excluded.updated_at
RETURNING ` + siteContentColumns

// MergeSiteContentParams is a partial content block write. A NULL
// ContentType or SortOrder keeps the stored value of an existing block and
// falls back to text and 0 for a new one.
type MergeSiteContentParams struct {
	Section     string
	Key         string
	Value       string
	Label       string
	ContentType sql.NullString
	SortOrder   sql.NullInt64
	UpdatedAt   time.Time
}

// MergeSiteContent is UpsertSiteContent for admin edits: only the fields
// that were supplied change on an existing block.
func (q *Queries) MergeSiteContent(ctx context.Context, arg MergeSiteContentParams) (SiteContent, error) {
	row := q.db.QueryRowContext(ctx, mergeSiteContent,
		arg.Section,
		arg.Key,
		arg.Value,
		arg.Label,
		arg.ContentType,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.UpdatedAt,
		arg.ContentType,
		arg.SortOrder,
	)
	return scanSiteContent(row)
}

const insertSiteContentIfMissing = `-- name: InsertSiteContentIfMissing :execrows
INSERT INTO site_content (section, key, value, label, content_type, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(section, key) DO NOTHING`

// InsertSiteContentIfMissing inserts a block unless one already exists; it never overwrites.
func (q *Queries) InsertSiteContentIfMissing(ctx context.Context, arg UpsertSiteContentParams) (int64, error) {
	contentType := arg.ContentType
	if contentType == "" {
		contentType = "text"
	}
	result, err := q.db.ExecContext(ctx, insertSiteContentIfMissing,
		arg.Section,
		arg.Key,
		arg.Value,
		arg.Label,
		contentType,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateSiteContentValue = `-- name: UpdateSiteContentValue :one
UPDATE site_content SET value = ?, updated_at = ? WHERE id = ?
RETURNING ` + siteContentColumns

func (q *Queries) UpdateSiteContentValue(ctx context.Context, id int64, value string, updatedAt time.Time) (SiteContent, error) {
	return scanSiteContent(q.db.QueryRowContext(ctx, updateSiteContentValue, value, updatedAt, id))
}

const deleteSiteContent = `-- name: DeleteSiteContent :one
DELETE FROM site_content WHERE id = ?
RETURNING ` + siteContentColumns

// DeleteSiteContent removes a block and returns it so callers can invalidate its section.
func (q *Queries) DeleteSiteContent(ctx context.Context, id int64) (SiteContent, error) {
	return scanSiteContent(q.db.QueryRowContext(ctx, deleteSiteContent, id))
}

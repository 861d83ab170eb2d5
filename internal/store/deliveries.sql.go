// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createNotificationDelivery = `-- name: CreateNotificationDelivery :exec
INSERT INTO notification_deliveries (batch_id, lead_id, channel, recipient, title, success, error_message, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateNotificationDeliveryParams struct {
	BatchID      string
	LeadID       *int64
	Channel      string
	Recipient    string
	Title        string
	Success      bool
	ErrorMessage string
	DurationMs   int64
	CreatedAt    time.Time
}

func (q *Queries) CreateNotificationDelivery(ctx context.Context, arg CreateNotificationDeliveryParams) error {
	_, err := q.db.ExecContext(ctx, createNotificationDelivery,
		arg.BatchID,
		arg.LeadID,
		arg.Channel,
		arg.Recipient,
		arg.Title,
		arg.Success,
		arg.ErrorMessage,
		arg.DurationMs,
		arg.CreatedAt,
	)
	return err
}

const listRecentNotificationDeliveries = `-- name: ListRecentNotificationDeliveries :many
SELECT id, batch_id, lead_id, channel, recipient, title, success, error_message, duration_ms, created_at
FROM notification_deliveries ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentNotificationDeliveries(ctx context.Context, limit int64) ([]NotificationDelivery, error) {
	rows, err := q.db.QueryContext(ctx, listRecentNotificationDeliveries, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []NotificationDelivery{}
	for rows.Next() {
		var d NotificationDelivery
		if err := rows.Scan(
			&d.ID,
			&d.BatchID,
			&d.LeadID,
			&d.Channel,
			&d.Recipient,
			&d.Title,
			&d.Success,
			&d.ErrorMessage,
			&d.DurationMs,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteNotificationDeliveriesBefore = `-- name: DeleteNotificationDeliveriesBefore :execrows
DELETE FROM notification_deliveries WHERE created_at < ?`

func (q *Queries) DeleteNotificationDeliveriesBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteNotificationDeliveriesBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

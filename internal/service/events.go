// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/docpropel/docpropel/internal/store"
)

// Listing limits for the admin audit views.
const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

// EventService reads and prunes the event log and the notification delivery log.
type EventService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewEventService creates an EventService.
func NewEventService(db *sql.DB) *EventService {
	s := &EventService{now: time.Now}
	if db != nil {
		s.queries = store.New(db)
	}
	return s
}

func clampLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return DefaultLogLimit
	case limit > MaxLogLimit:
		return MaxLogLimit
	}
	return limit
}

// RecentEvents returns the latest events, newest first.
func (s *EventService) RecentEvents(ctx context.Context, limit int64) ([]store.Event, error) {
	if s.queries == nil {
		return []store.Event{}, nil
	}
	events, err := s.queries.ListRecentEvents(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// RecentDeliveries returns the latest notification attempts, newest first.
func (s *EventService) RecentDeliveries(ctx context.Context, limit int64) ([]store.NotificationDelivery, error) {
	if s.queries == nil {
		return []store.NotificationDelivery{}, nil
	}
	rows, err := s.queries.ListRecentNotificationDeliveries(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing notification deliveries: %w", err)
	}
	return rows, nil
}

// Prune removes events and delivery records older than retention.
func (s *EventService) Prune(ctx context.Context, retention time.Duration) error {
	if s.queries == nil {
		return nil
	}
	cutoff := s.now().UTC().Add(-retention)

	events, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("deleting old events: %w", err)
	}
	deliveries, err := s.queries.DeleteNotificationDeliveriesBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("deleting old notification deliveries: %w", err)
	}

	if events > 0 || deliveries > 0 {
		slog.Info("pruned audit logs", "events", events, "deliveries", deliveries, "cutoff", cutoff)
	}
	return nil
}

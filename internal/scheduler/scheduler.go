// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: audit log retention
// and GeoIP database reloads.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job names.
const (
	JobPruneAuditLogs = "prune_audit_logs"
	JobReloadGeoIP    = "reload_geoip"
)

// Pruner deletes audit records older than a retention period.
// *service.EventService satisfies it.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration) error
}

// Reloader reopens an on-disk database when it changed.
// *geoip.Lookup satisfies it.
type Reloader interface {
	Reload() error
	Enabled() bool
}

// Scheduler owns the cron instance and its job registry.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	registry *Registry
}

// New creates a scheduler. Jobs run in UTC.
func New(logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))
	return &Scheduler{
		cron:     c,
		logger:   logger,
		registry: newRegistry(c, logger),
	}
}

// Registry exposes the job registry for listing and manual triggers.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// AddRetentionJob prunes events and notification deliveries older than
// retentionDays every night. A non-positive retention disables the job.
func (s *Scheduler) AddRetentionJob(p Pruner, retentionDays int) error {
	if p == nil || retentionDays <= 0 {
		s.logger.Info("audit log retention disabled")
		return nil
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour
	return s.registry.Register(JobPruneAuditLogs,
		"Delete events and notification deliveries past retention",
		"30 3 * * *",
		func(ctx context.Context) error {
			return p.Prune(ctx, retention)
		})
}

// AddGeoIPReloadJob picks up a replaced MaxMind database file every hour.
func (s *Scheduler) AddGeoIPReloadJob(r Reloader) error {
	if r == nil || !r.Enabled() {
		return nil
	}
	return s.registry.Register(JobReloadGeoIP,
		"Reload the GeoIP database when the file changes",
		"@hourly",
		func(context.Context) error {
			return r.Reload()
		})
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

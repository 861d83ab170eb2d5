// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/store"
)

// Recorder persists channel attempts. *store.Queries satisfies it.
type Recorder interface {
	CreateNotificationDelivery(ctx context.Context, arg store.CreateNotificationDeliveryParams) error
}

// Dispatcher sends a message over every enabled channel, one after another:
// email, then SMS, then WhatsApp.
type Dispatcher struct {
	settings SettingsSource
	senders  map[string]Sender
	recorder Recorder
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. recorder may be nil.
func NewDispatcher(settings SettingsSource, email, sms, whatsapp Sender, recorder Recorder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		settings: settings,
		senders: map[string]Sender{
			model.ChannelEmail:    email,
			model.ChannelSMS:      sms,
			model.ChannelWhatsApp: whatsapp,
		},
		recorder: recorder,
		logger:   logger,
	}
}

// Send delivers msg using the current settings. It never fails: a settings
// load error or a channel failure is logged and reflected in the report.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Report {
	report := Report{BatchID: uuid.NewString()}

	settings, err := d.settings.NotificationSettings(ctx)
	if err != nil {
		d.logger.Error("failed to load notification settings", "error", err)
		return report
	}

	return d.SendWith(ctx, settings, msg, report.BatchID)
}

// SendWith delivers msg using explicit settings.
func (d *Dispatcher) SendWith(ctx context.Context, settings Settings, msg Message, batchID string) Report {
	if batchID == "" {
		batchID = uuid.NewString()
	}
	report := Report{BatchID: batchID, Results: []Result{}}

	targets := settings.targets()
	if len(targets) == 0 {
		d.logger.Info("no notification channels enabled", "title", msg.Title)
		return report
	}

	for _, tgt := range targets {
		sender := d.senders[tgt.channel]
		var res Result
		if sender == nil {
			res = Result{Channel: tgt.channel, Recipient: tgt.recipient, Error: "channel not configured"}
		} else {
			res = sender.Send(ctx, tgt.recipient, msg)
		}
		res.Channel = tgt.channel

		if res.Success {
			d.logger.Info("notification sent", "channel", res.Channel, "recipient", res.Recipient)
		} else {
			d.logger.Warn("failed to send notification",
				"channel", res.Channel,
				"recipient", res.Recipient,
				"status", res.StatusCode,
				"error", res.Error,
			)
		}

		d.record(ctx, batchID, msg, res)
		report.Results = append(report.Results, res)
	}

	d.logger.Info("notification batch complete",
		"batch_id", batchID,
		"title", msg.Title,
		"sent", report.Sent(),
		"failed", report.Failed(),
	)
	return report
}

func (d *Dispatcher) record(ctx context.Context, batchID string, msg Message, res Result) {
	if d.recorder == nil {
		return
	}
	// The attempt is logged even if the request context was cancelled mid-send.
	err := d.recorder.CreateNotificationDelivery(context.WithoutCancel(ctx), store.CreateNotificationDeliveryParams{
		BatchID:      batchID,
		LeadID:       msg.LeadID,
		Channel:      res.Channel,
		Recipient:    res.Recipient,
		Title:        msg.Title,
		Success:      res.Success,
		ErrorMessage: res.Error,
		DurationMs:   res.Duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		d.logger.Error("failed to record notification delivery", "channel", res.Channel, "error", err)
	}
}

// StaticSettings is a SettingsSource that always returns the same settings.
type StaticSettings Settings

// NotificationSettings implements SettingsSource.
func (s StaticSettings) NotificationSettings(context.Context) (Settings, error) {
	return Settings(s), nil
}

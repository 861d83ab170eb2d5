// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/notify"
	"github.com/docpropel/docpropel/internal/scheduler"
	"github.com/docpropel/docpropel/internal/service"
)

// Test notification text sent by admin.sendTestNotification.
const (
	TestNotificationTitle = "Test Notification"
	TestNotificationBody  = "This is a test notification from the DocPropel admin dashboard.\n\n" +
		"- **Status:** Notification channels are configured correctly"
)

func (h *Handler) registerAdmin() {
	// Content
	h.adminQuery("admin.getAllContent", h.getAllContent)
	h.adminQuery("admin.getContentBySection", h.getContentBySection)
	h.adminMutation("admin.upsertContent", h.upsertContent)
	h.adminMutation("admin.updateContent", h.updateContent)
	h.adminMutation("admin.deleteContent", h.deleteContent)

	// Leads
	h.adminQuery("admin.getAllLeads", h.getAllLeads)
	h.adminMutation("admin.updateLeadStatus", h.updateLeadStatus)
	h.adminMutation("admin.deleteLead", h.deleteLead)

	// Testimonials
	h.adminQuery("admin.getAllTestimonials", h.getAllTestimonials)
	h.adminMutation("admin.createTestimonial", h.createTestimonial)
	h.adminMutation("admin.updateTestimonial", h.updateTestimonial)
	h.adminMutation("admin.deleteTestimonial", h.deleteTestimonial)

	// Notifications
	h.adminQuery("admin.getNotificationSettings", h.getNotificationSettings)
	h.adminMutation("admin.updateNotificationSettings", h.updateNotificationSettings)
	h.adminMutation("admin.sendTestNotification", h.sendTestNotification)
	h.adminQuery("admin.getNotificationLog", h.getNotificationLog)

	// Operations
	h.adminQuery("admin.getEvents", h.getEvents)
	h.adminQuery("admin.getScheduledJobs", h.getScheduledJobs)
	h.adminMutation("admin.runScheduledJob", h.runScheduledJob)
}

func (h *Handler) getAllContent(c *call) (any, error) {
	return h.content.All(c.ctx())
}

func (h *Handler) getContentBySection(c *call) (any, error) {
	section, err := decodeSection(c)
	if err != nil {
		return nil, err
	}
	return h.content.Section(c.ctx(), section)
}

func (h *Handler) upsertContent(c *call) (any, error) {
	in, err := decode[service.UpsertContentInput](c)
	if err != nil {
		return nil, err
	}
	return h.content.Upsert(c.ctx(), in)
}

type updateContentInput struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

func (h *Handler) updateContent(c *call) (any, error) {
	in, err := decode[updateContentInput](c)
	if err != nil {
		return nil, err
	}
	return h.content.UpdateValue(c.ctx(), in.ID, in.Value)
}

func (h *Handler) deleteContent(c *call) (any, error) {
	id, err := decodeID(c)
	if err != nil {
		return nil, err
	}
	if err := h.content.Delete(c.ctx(), id); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (h *Handler) getAllLeads(c *call) (any, error) {
	return h.leads.List(c.ctx())
}

func (h *Handler) updateLeadStatus(c *call) (any, error) {
	in, err := decode[service.UpdateStatusInput](c)
	if err != nil {
		return nil, err
	}
	return h.leads.UpdateStatus(c.ctx(), in)
}

func (h *Handler) deleteLead(c *call) (any, error) {
	id, err := decodeID(c)
	if err != nil {
		return nil, err
	}
	if err := h.leads.Delete(c.ctx(), id); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (h *Handler) getAllTestimonials(c *call) (any, error) {
	return h.testimonials.All(c.ctx())
}

func (h *Handler) createTestimonial(c *call) (any, error) {
	in, err := decode[service.TestimonialInput](c)
	if err != nil {
		return nil, err
	}
	return h.testimonials.Create(c.ctx(), in)
}

type updateTestimonialInput struct {
	ID int64 `json:"id"`
	service.TestimonialInput
}

func (h *Handler) updateTestimonial(c *call) (any, error) {
	in, err := decode[updateTestimonialInput](c)
	if err != nil {
		return nil, err
	}
	return h.testimonials.Update(c.ctx(), in.ID, in.TestimonialInput)
}

func (h *Handler) deleteTestimonial(c *call) (any, error) {
	id, err := decodeID(c)
	if err != nil {
		return nil, err
	}
	if err := h.testimonials.Delete(c.ctx(), id); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (h *Handler) getNotificationSettings(c *call) (any, error) {
	return h.content.NotificationSettings(c.ctx())
}

func (h *Handler) updateNotificationSettings(c *call) (any, error) {
	in, err := decode[notify.Settings](c)
	if err != nil {
		return nil, err
	}
	return h.content.UpdateNotificationSettings(c.ctx(), in)
}

// TestNotificationResult summarises a test dispatch for the dashboard.
type TestNotificationResult struct {
	Success bool          `json:"success"`
	Report  notify.Report `json:"report"`
	Sent    []string      `json:"sent"`
	Failed  []string      `json:"failed"`
	Message string        `json:"message"`
}

func (h *Handler) sendTestNotification(c *call) (any, error) {
	if h.notifier == nil {
		return nil, &Error{Status: http.StatusInternalServerError, Code: middleware.CodeInternal, Message: "Notifications are not configured"}
	}

	report := h.notifier.Send(c.ctx(), notify.Message{Title: TestNotificationTitle, Body: TestNotificationBody})
	res := TestNotificationResult{
		Report: report,
		Sent:   nonNil(report.Sent()),
		Failed: nonNil(report.Failed()),
	}
	res.Success = len(res.Sent) > 0 && len(res.Failed) == 0

	switch {
	case len(report.Results) == 0:
		res.Message = "No notification channels are enabled"
	case res.Success:
		res.Message = "Test notification sent via " + strings.Join(res.Sent, ", ")
	default:
		res.Message = "Failed channels: " + strings.Join(res.Failed, ", ")
	}
	return res, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type limitInput struct {
	Limit int64 `json:"limit"`
}

func (h *Handler) getNotificationLog(c *call) (any, error) {
	in, err := decode[limitInput](c)
	if err != nil {
		return nil, err
	}
	return h.events.RecentDeliveries(c.ctx(), in.Limit)
}

func (h *Handler) getEvents(c *call) (any, error) {
	in, err := decode[limitInput](c)
	if err != nil {
		return nil, err
	}
	return h.events.RecentEvents(c.ctx(), in.Limit)
}

func (h *Handler) getScheduledJobs(*call) (any, error) {
	if h.jobs == nil {
		return []scheduler.JobInfo{}, nil
	}
	return h.jobs.List(), nil
}

type jobInput struct {
	Name string `json:"name"`
}

func (h *Handler) runScheduledJob(c *call) (any, error) {
	in, err := decode[jobInput](c)
	if err != nil {
		return nil, err
	}
	if h.jobs == nil {
		return nil, &Error{Status: http.StatusNotFound, Code: middleware.CodeNotFound, Message: "Job not found"}
	}
	found := false
	for _, job := range h.jobs.List() {
		if job.Name == in.Name {
			found = true
			break
		}
	}
	if !found {
		return nil, &Error{Status: http.StatusNotFound, Code: middleware.CodeNotFound, Message: "Job not found"}
	}
	if err := h.jobs.TriggerNow(c.ctx(), in.Name); err != nil {
		return nil, err
	}
	return okResult, nil
}

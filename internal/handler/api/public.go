// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/roi"
	"github.com/docpropel/docpropel/internal/service"
)

func (h *Handler) registerPublic() {
	h.query("calculator.specialties", h.specialties)
	h.query("calculator.project", h.project)
	h.submission("calculator.submitLead", h.submitCalculatorLead)
	h.submission("leads.submitIntake", h.submitIntake)
	h.query("content.getSection", h.getPublicSection)
	h.query("testimonials.getVisible", h.visibleTestimonials)
	h.query("testimonials.getFeatured", h.featuredTestimonials)
}

func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{IP: middleware.ClientIP(r), UserAgent: r.UserAgent()}
}

func (h *Handler) specialties(*call) (any, error) {
	return roi.Specialties(), nil
}

type projectInput struct {
	Specialty       string `json:"specialty"`
	MonthlyPatients int    `json:"monthlyPatients"`
	PatientValue    int    `json:"patientValue"`
}

// projectOutput adds the whole growth percentage to the projection.
type projectOutput struct {
	roi.Projection
	GrowthPercent int `json:"growthPercent"`
}

func (h *Handler) project(c *call) (any, error) {
	in, err := decode[projectInput](c)
	if err != nil {
		return nil, err
	}
	if in.Specialty == "" {
		in.Specialty = roi.DefaultSpecialtyKey
	}
	p, err := roi.Project(in.Specialty, in.MonthlyPatients, in.PatientValue)
	if err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Code: middleware.CodeBadRequest,
			Message: "Invalid input", Details: map[string]string{"specialty": "Unknown specialty"}}
	}
	return projectOutput{Projection: p, GrowthPercent: p.GrowthPercent()}, nil
}

func (h *Handler) submitCalculatorLead(c *call) (any, error) {
	in, err := decode[service.CalculatorLeadInput](c)
	if err != nil {
		return nil, err
	}
	if _, err := h.leads.SubmitCalculatorLead(c.ctx(), in, requestMeta(c.r)); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (h *Handler) submitIntake(c *call) (any, error) {
	in, err := decode[service.IntakeInput](c)
	if err != nil {
		return nil, err
	}
	if _, err := h.leads.SubmitIntake(c.ctx(), in, requestMeta(c.r)); err != nil {
		return nil, err
	}
	return okResult, nil
}

type sectionInput struct {
	Section string `json:"section"`
}

func decodeSection(c *call) (string, error) {
	in, err := decode[sectionInput](c)
	if err != nil {
		return "", err
	}
	section := strings.TrimSpace(in.Section)
	if section == "" {
		return "", &Error{Status: http.StatusBadRequest, Code: middleware.CodeBadRequest,
			Message: "Invalid input", Details: map[string]string{"section": "Section is required"}}
	}
	return section, nil
}

func (h *Handler) getPublicSection(c *call) (any, error) {
	section, err := decodeSection(c)
	if err != nil {
		return nil, err
	}
	return h.content.PublicSection(c.ctx(), section)
}

func (h *Handler) visibleTestimonials(c *call) (any, error) {
	return h.testimonials.Visible(c.ctx())
}

func (h *Handler) featuredTestimonials(c *call) (any, error) {
	return h.testimonials.Featured(c.ctx())
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/render"
	"github.com/docpropel/docpropel/internal/roi"
	"github.com/docpropel/docpropel/internal/service"
	"github.com/docpropel/docpropel/internal/store"
)

// siteSections are the editable content sections every page can read.
var siteSections = []string{model.SectionHero, model.SectionContact, model.SectionAbout, model.SectionFooter}

const defaultDescription = "DocPropel is the performance-based growth partner for healthcare practices. No retainers. No long-term contracts. Just accountable patient growth."

// HomeData holds data for the home page.
type HomeData struct {
	Pillars      []Feature
	Services     []Feature
	Comparison   []ComparisonRow
	Testimonials []store.Testimonial
}

// ServicesData holds data for the services page.
type ServicesData struct {
	Services  []Service
	Playbooks []SpecialtyPlaybook
}

// CompareData holds data for the comparison page.
type CompareData struct {
	Rows []ComparisonRow
}

// StepsData holds data for the how-it-works page.
type StepsData struct {
	Steps []Feature
}

// ResultsData holds data for the results page.
type ResultsData struct {
	Stats        []Stat
	CaseStudies  []CaseStudy
	Testimonials []store.Testimonial
}

// CalculatorData holds data for the ROI calculator page.
type CalculatorData struct {
	Specialties []roi.Specialty
	Projection  roi.Projection
	Email       string
	Errors      map[string]string
	Submitted   bool

	MinPatients int
	MaxPatients int
	MinValue    int
	MaxValue    int
	ValueStep   int
}

// ContactData holds data for the contact page.
type ContactData struct {
	Form             service.IntakeInput
	Errors           map[string]string
	Submitted        bool
	Expectations     []string
	OfficeHours      string
	SpecialtyOptions []Option
	VolumeOptions    []Option
}

// PagesHandler serves the public marketing pages.
type PagesHandler struct {
	renderer     *render.Renderer
	content      *service.ContentService
	leads        *service.LeadService
	testimonials *service.TestimonialService
	logger       *slog.Logger
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(renderer *render.Renderer, content *service.ContentService, leads *service.LeadService,
	testimonials *service.TestimonialService, logger *slog.Logger) *PagesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PagesHandler{
		renderer:     renderer,
		content:      content,
		leads:        leads,
		testimonials: testimonials,
		logger:       logger,
	}
}

// Home handles GET /.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{
		Pillars:      homePillars,
		Services:     homeServices,
		Comparison:   homeComparison,
		Testimonials: h.listTestimonials(r.Context(), true),
	}
	h.render(w, r, http.StatusOK, "pages/home", h.base(r, "Performance-Based Healthcare Marketing", defaultDescription, data))
}

// Services handles GET /services.
func (h *PagesHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := ServicesData{Services: services, Playbooks: playbooks}
	h.render(w, r, http.StatusOK, "pages/services", h.base(r, "Services",
		"One growth system for doctors, dentists, pharmacies and PT/OT clinics.", data))
}

// HowItWorks handles GET /how-it-works.
func (h *PagesHandler) HowItWorks(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/how-it-works", h.base(r, "How It Works",
		"Simple. Transparent. Aligned. You pay when patients are delivered.", StepsData{Steps: howItWorksSteps}))
}

// Compare handles GET /compare.
func (h *PagesHandler) Compare(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/compare", h.base(r, "DocPropel vs. Traditional Agencies",
		"Most agencies are paid regardless of results. Our performance-based model shares the risk.", CompareData{Rows: compareRows}))
}

// About handles GET /about.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/about", h.base(r, "About", defaultDescription, nil))
}

// Results handles GET /results.
func (h *PagesHandler) Results(w http.ResponseWriter, r *http.Request) {
	data := ResultsData{
		Stats:        resultStats,
		CaseStudies:  caseStudies,
		Testimonials: h.listTestimonials(r.Context(), false),
	}
	h.render(w, r, http.StatusOK, "pages/results", h.base(r, "Results",
		"Case studies from doctors, dentists, pharmacies and PT/OT clinics.", data))
}

// Calculator handles GET /calculator. The projection is computed from the
// specialty, patients and value query parameters.
func (h *PagesHandler) Calculator(w http.ResponseWriter, r *http.Request) {
	data := newCalculatorData(projectionFromForm(r.URL.Query()))
	data.Submitted = r.URL.Query().Get("submitted") == "1"
	h.render(w, r, http.StatusOK, "pages/calculator", h.base(r, "ROI Calculator",
		"Estimate how many new patients and how much revenue performance marketing could add.", data))
}

// SubmitCalculator handles POST /calculator: the email capture under the projection.
func (h *PagesHandler) SubmitCalculator(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	p := projectionFromForm(r.PostForm)
	in := service.CalculatorLeadInput{
		Email:                  r.PostForm.Get("email"),
		Specialty:              p.Specialty.Label,
		MonthlyPatients:        int64(p.MonthlyPatients),
		PatientValue:           int64(p.PatientValue),
		ProjectedGrowth:        p.Specialty.GrowthRate,
		ProjectedAnnualRevenue: int64(p.AnnualIncrease),
	}

	if _, err := h.leads.SubmitCalculatorLead(r.Context(), in, requestMeta(r)); err != nil {
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("failed to submit calculator lead", "error", err)
			h.renderError(w, r, http.StatusInternalServerError)
			return
		}
		data := newCalculatorData(p)
		data.Email = in.Email
		data.Errors = verr.Fields
		h.render(w, r, http.StatusUnprocessableEntity, "pages/calculator", h.base(r, "ROI Calculator", "", data))
		return
	}

	q := calculatorQuery(p)
	q.Set("submitted", "1")
	h.renderer.SetFlash(r, "Thanks! Your personalized growth report is on its way.", "success")
	http.Redirect(w, r, RouteCalculator+"?"+q.Encode(), http.StatusSeeOther)
}

// Contact handles GET /contact.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	data := newContactData(service.IntakeInput{})
	data.Submitted = r.URL.Query().Get("submitted") == "1"
	h.render(w, r, http.StatusOK, "pages/contact", h.base(r, "Contact",
		"Request a Practice Growth Brief and get a customized analysis of your growth potential.", data))
}

// SubmitContact handles POST /contact: the Practice Growth Brief intake form.
func (h *PagesHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in := service.IntakeInput{
		PracticeName:  r.PostForm.Get("practiceName"),
		Specialty:     r.PostForm.Get("specialty"),
		Location:      r.PostForm.Get("location"),
		PatientVolume: r.PostForm.Get("patientVolume"),
		Goal:          r.PostForm.Get("goal"),
		Website:       r.PostForm.Get("website"),
		Email:         r.PostForm.Get("email"),
		ContactName:   r.PostForm.Get("contactName"),
		Phone:         r.PostForm.Get("phone"),
	}

	if _, err := h.leads.SubmitIntake(r.Context(), in, requestMeta(r)); err != nil {
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("failed to submit intake", "error", err)
			h.renderError(w, r, http.StatusInternalServerError)
			return
		}
		data := newContactData(in)
		data.Errors = verr.Fields
		h.render(w, r, http.StatusUnprocessableEntity, "pages/contact", h.base(r, "Contact", "", data))
		return
	}

	h.renderer.SetFlash(r, "Thank you! We'll be in touch within 24 hours.", "success")
	http.Redirect(w, r, RouteContact+"?submitted=1", http.StatusSeeOther)
}

// NotFound renders the 404 page.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "pages/404", h.base(r, "Page Not Found", "", nil))
}

// base returns the template data shared by every page.
func (h *PagesHandler) base(r *http.Request, title, description string, data any) render.TemplateData {
	if description == "" {
		description = defaultDescription
	}
	return render.TemplateData{
		Title:       title,
		Description: description,
		Site:        siteContent(r.Context(), h.content),
		Data:        data,
	}
}

// render renders a page, falling back to a plain error page when the
// template fails.
func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.RenderStatus(w, r, status, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
	}
}

func (h *PagesHandler) renderError(w http.ResponseWriter, _ *http.Request, status int) {
	http.Error(w, http.StatusText(status), status)
}

// listTestimonials returns visible (or featured) testimonials; failures
// render the page without them.
func (h *PagesHandler) listTestimonials(ctx context.Context, featured bool) []store.Testimonial {
	if h.testimonials == nil {
		return nil
	}
	list := h.testimonials.Visible
	if featured {
		list = h.testimonials.Featured
	}
	items, err := list(ctx)
	if err != nil {
		h.logger.Error("failed to list testimonials", "featured", featured, "error", err)
		return nil
	}
	return items
}

// siteContent flattens the public content sections into "section.key" values.
func siteContent(ctx context.Context, content *service.ContentService) map[string]string {
	site := make(map[string]string)
	if content == nil {
		return site
	}
	for _, section := range siteSections {
		for key, value := range content.Values(ctx, section) {
			site[section+"."+key] = value
		}
	}
	return site
}

func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{IP: middleware.ClientIP(r), UserAgent: r.UserAgent()}
}

// projectionFromForm reads specialty, patients and value, falling back to
// the defaults and clamping to the slider ranges.
func projectionFromForm(form url.Values) roi.Projection {
	spec, ok := roi.Lookup(strings.TrimSpace(form.Get("specialty")))
	if !ok {
		spec, _ = roi.Lookup(roi.DefaultSpecialtyKey)
	}

	patients := roi.DefaultPatients
	if n, err := strconv.Atoi(form.Get("patients")); err == nil {
		patients = n
	}
	value := spec.PatientValue
	if v, err := strconv.Atoi(form.Get("value")); err == nil {
		value = v
	}

	// The specialty comes from the table, so Project cannot fail.
	p, _ := roi.Project(spec.Key, roi.ClampPatients(patients), roi.ClampPatientValue(value))
	return p
}

func calculatorQuery(p roi.Projection) url.Values {
	q := url.Values{}
	q.Set("specialty", p.Specialty.Key)
	q.Set("patients", strconv.Itoa(p.MonthlyPatients))
	q.Set("value", strconv.Itoa(p.PatientValue))
	return q
}

func newCalculatorData(p roi.Projection) CalculatorData {
	return CalculatorData{
		Specialties: roi.Specialties(),
		Projection:  p,
		MinPatients: roi.MinMonthlyPatients,
		MaxPatients: roi.MaxMonthlyPatients,
		MinValue:    roi.MinPatientValue,
		MaxValue:    roi.MaxPatientValue,
		ValueStep:   roi.PatientValueStep,
	}
}

func newContactData(form service.IntakeInput) ContactData {
	return ContactData{
		Form:             form,
		Expectations:     contactExpectations,
		OfficeHours:      OfficeHours,
		SpecialtyOptions: intakeSpecialtyOptions,
		VolumeOptions:    intakeVolumeOptions,
	}
}

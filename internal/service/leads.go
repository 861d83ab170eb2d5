// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mileusna/useragent"

	"github.com/docpropel/docpropel/internal/geoip"
	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/notify"
	"github.com/docpropel/docpropel/internal/store"
)

// Field limits for lead submissions.
const (
	MaxEmailLen     = 320
	MaxShortTextLen = 255
	MaxMessageLen   = 5000
)

// Calculator lead notification title.
const CalculatorLeadTitle = "New ROI Calculator Lead"

// Intake lead notification title.
const IntakeLeadTitle = "New Practice Growth Brief Request"

// IntakePatientVolumes are the accepted patient volume ranges of the intake form.
var IntakePatientVolumes = []string{"1-100", "101-500", "500+"}

// Notifier delivers lead notifications. *notify.Dispatcher satisfies it.
type Notifier interface {
	Send(ctx context.Context, msg notify.Message) notify.Report
}

// RequestMeta describes the HTTP request that carried a submission.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// LeadService validates, stores and announces lead submissions.
type LeadService struct {
	queries  *store.Queries
	notifier Notifier
	geo      geoip.Resolver
	now      func() time.Time
}

// NewLeadService creates a lead service. notifier and geo may be nil.
func NewLeadService(db *sql.DB, notifier Notifier, geo geoip.Resolver) *LeadService {
	s := &LeadService{notifier: notifier, geo: geo, now: time.Now}
	if db != nil {
		s.queries = store.New(db)
	}
	return s
}

// CalculatorLeadInput is the ROI calculator email capture.
type CalculatorLeadInput struct {
	Email                  string  `json:"email"`
	Specialty              string  `json:"specialty"`
	MonthlyPatients        int64   `json:"monthlyPatients"`
	PatientValue           int64   `json:"patientValue"`
	ProjectedGrowth        float64 `json:"projectedGrowth"`
	ProjectedAnnualRevenue int64   `json:"projectedAnnualRevenue"`
}

func (in *CalculatorLeadInput) validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.Specialty = strings.TrimSpace(in.Specialty)

	errs := validationErrors{}
	validateEmail(errs, in.Email)
	if in.Specialty == "" {
		errs["specialty"] = "Specialty is required"
	} else if utf8.RuneCountInString(in.Specialty) > MaxShortTextLen {
		errs["specialty"] = "Specialty is too long"
	}
	if in.MonthlyPatients < 0 {
		errs["monthlyPatients"] = "Monthly patients cannot be negative"
	}
	if in.PatientValue < 0 {
		errs["patientValue"] = "Patient value cannot be negative"
	}
	if in.ProjectedGrowth < 0 || math.IsNaN(in.ProjectedGrowth) || math.IsInf(in.ProjectedGrowth, 0) {
		errs["projectedGrowth"] = "Projected growth must be a non-negative number"
	}
	if in.ProjectedAnnualRevenue < 0 {
		errs["projectedAnnualRevenue"] = "Projected revenue cannot be negative"
	}
	return errs.err()
}

// IntakeInput is the "Practice Growth Brief" request form.
type IntakeInput struct {
	PracticeName  string `json:"practiceName"`
	Specialty     string `json:"specialty"`
	Location      string `json:"location"`
	PatientVolume string `json:"patientVolume,omitempty"`
	Goal          string `json:"goal"`
	Website       string `json:"website,omitempty"`
	Email         string `json:"email"`
	ContactName   string `json:"contactName,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

func (in *IntakeInput) validate() error {
	in.PracticeName = strings.TrimSpace(in.PracticeName)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Location = strings.TrimSpace(in.Location)
	in.PatientVolume = strings.TrimSpace(in.PatientVolume)
	in.Goal = strings.TrimSpace(in.Goal)
	in.Website = strings.TrimSpace(in.Website)
	in.Email = strings.TrimSpace(in.Email)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.Phone = strings.TrimSpace(in.Phone)

	errs := validationErrors{}
	validateEmail(errs, in.Email)
	requireText(errs, "practiceName", "Practice name", in.PracticeName, MaxShortTextLen)
	requireText(errs, "location", "Location", in.Location, MaxShortTextLen)
	requireText(errs, "goal", "Growth goal", in.Goal, MaxMessageLen)
	if !model.IsValidIntakeSpecialty(in.Specialty) {
		errs["specialty"] = "Specialty must be one of: " + strings.Join(model.IntakeSpecialties, ", ")
	}
	if in.PatientVolume != "" && !slices.Contains(IntakePatientVolumes, in.PatientVolume) {
		errs["patientVolume"] = "Patient volume must be one of: " + strings.Join(IntakePatientVolumes, ", ")
	}
	if in.Website != "" && !isValidURL(in.Website) {
		errs["website"] = "Website must be an http or https URL"
	}
	if utf8.RuneCountInString(in.ContactName) > MaxShortTextLen {
		errs["contactName"] = "Contact name is too long"
	}
	if utf8.RuneCountInString(in.Phone) > 32 {
		errs["phone"] = "Phone number is too long"
	}
	return errs.err()
}

func validateEmail(errs validationErrors, email string) {
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case len(email) > MaxEmailLen || !isValidEmail(email):
		errs["email"] = "Invalid email format"
	}
}

func requireText(errs validationErrors, field, label, value string, maxLen int) {
	switch {
	case value == "":
		errs[field] = label + " is required"
	case utf8.RuneCountInString(value) > maxLen:
		errs[field] = fmt.Sprintf("%s must be at most %d characters", label, maxLen)
	}
}

// SubmitCalculatorLead stores a calculator lead and notifies the team.
// Only validation errors are returned; storage and delivery problems are logged.
func (s *LeadService) SubmitCalculatorLead(ctx context.Context, in CalculatorLeadInput, meta RequestMeta) (*store.LeadSubmission, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lead := s.create(ctx, store.CreateLeadParams{
		Source:                 model.LeadSourceCalculator,
		Email:                  in.Email,
		Specialty:              in.Specialty,
		MonthlyPatients:        in.MonthlyPatients,
		PatientValue:           in.PatientValue,
		ProjectedGrowth:        in.ProjectedGrowth,
		ProjectedAnnualRevenue: in.ProjectedAnnualRevenue,
	}, meta)

	s.notify(ctx, CalculatorLeadMessage(in), lead)
	return lead, nil
}

// SubmitIntake stores a Practice Growth Brief request and notifies the team.
func (s *LeadService) SubmitIntake(ctx context.Context, in IntakeInput, meta RequestMeta) (*store.LeadSubmission, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lead := s.create(ctx, store.CreateLeadParams{
		Source:        model.LeadSourceIntake,
		PracticeName:  in.PracticeName,
		ContactName:   in.ContactName,
		Email:         in.Email,
		Phone:         in.Phone,
		Specialty:     in.Specialty,
		Location:      in.Location,
		Message:       in.Goal,
		Website:       in.Website,
		PatientVolume: in.PatientVolume,
	}, meta)

	s.notify(ctx, IntakeLeadMessage(in), lead)
	return lead, nil
}

// create inserts the lead, returning nil when it could not be stored.
func (s *LeadService) create(ctx context.Context, arg store.CreateLeadParams, meta RequestMeta) *store.LeadSubmission {
	arg.IPAddress = meta.IP
	arg.DeviceType = DeviceType(meta.UserAgent)
	if s.geo != nil && meta.IP != "" {
		arg.Country = s.geo.LookupCountry(meta.IP)
	}
	arg.CreatedAt = s.now().UTC()

	if s.queries == nil {
		slog.Warn("cannot save lead: database not available", "source", arg.Source, "category", model.EventCategoryLead)
		return nil
	}

	lead, err := s.queries.CreateLead(ctx, arg)
	if err != nil {
		slog.Error("failed to save lead", "source", arg.Source, "error", err, "category", model.EventCategoryLead)
		return nil
	}
	slog.Info("lead saved", "id", lead.ID, "source", lead.Source, "country", lead.Country)
	return &lead
}

func (s *LeadService) notify(ctx context.Context, msg notify.Message, lead *store.LeadSubmission) {
	if s.notifier == nil {
		return
	}
	if lead != nil {
		id := lead.ID
		msg.LeadID = &id
	}
	s.notifier.Send(ctx, msg)
}

// CalculatorLeadMessage builds the notification announcing a calculator lead.
func CalculatorLeadMessage(in CalculatorLeadInput) notify.Message {
	var b strings.Builder
	b.WriteString("**" + CalculatorLeadTitle + "**\n\n")
	fmt.Fprintf(&b, "- **Email:** %s\n", in.Email)
	fmt.Fprintf(&b, "- **Specialty:** %s\n", in.Specialty)
	fmt.Fprintf(&b, "- **Monthly Patients:** %d\n", in.MonthlyPatients)
	fmt.Fprintf(&b, "- **Avg. Patient Value:** %s\n", notify.FormatDollars(in.PatientValue))
	fmt.Fprintf(&b, "- **Projected Growth Rate:** %d%%\n", int64(math.Floor(in.ProjectedGrowth*100+0.5)))
	fmt.Fprintf(&b, "- **Projected Annual Revenue Increase:** %s\n", notify.FormatDollars(in.ProjectedAnnualRevenue))
	return notify.Message{Title: CalculatorLeadTitle, Body: b.String()}
}

// IntakeLeadMessage builds the notification announcing an intake request.
func IntakeLeadMessage(in IntakeInput) notify.Message {
	var b strings.Builder
	b.WriteString("**" + IntakeLeadTitle + "**\n\n")
	fmt.Fprintf(&b, "- **Practice:** %s\n", in.PracticeName)
	fmt.Fprintf(&b, "- **Email:** %s\n", in.Email)
	if in.ContactName != "" {
		fmt.Fprintf(&b, "- **Contact:** %s\n", in.ContactName)
	}
	if in.Phone != "" {
		fmt.Fprintf(&b, "- **Phone:** %s\n", in.Phone)
	}
	fmt.Fprintf(&b, "- **Specialty:** %s\n", in.Specialty)
	fmt.Fprintf(&b, "- **Location:** %s\n", in.Location)
	if in.PatientVolume != "" {
		fmt.Fprintf(&b, "- **Patient Volume:** %s / month\n", in.PatientVolume)
	}
	if in.Website != "" {
		fmt.Fprintf(&b, "- **Website:** %s\n", in.Website)
	}
	fmt.Fprintf(&b, "\n**Goal:** %s\n", in.Goal)
	return notify.Message{Title: IntakeLeadTitle, Body: b.String()}
}

// DeviceType classifies a User-Agent header as mobile, tablet, bot or desktop.
func DeviceType(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.Parse(ua)
	switch {
	case parsed.Mobile:
		return "mobile"
	case parsed.Tablet:
		return "tablet"
	case parsed.Bot:
		return "bot"
	default:
		return "desktop"
	}
}

// List returns every lead, oldest first.
func (s *LeadService) List(ctx context.Context) ([]store.LeadSubmission, error) {
	if s.queries == nil {
		slog.Warn("cannot get leads: database not available")
		return []store.LeadSubmission{}, nil
	}
	leads, err := s.queries.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return leads, nil
}

// Count returns the number of stored leads.
func (s *LeadService) Count(ctx context.Context) (int64, error) {
	if s.queries == nil {
		return 0, nil
	}
	n, err := s.queries.CountLeads(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}
	return n, nil
}

// UpdateStatusInput changes a lead's pipeline status. Nil AdminNotes keeps the stored notes.
type UpdateStatusInput struct {
	ID         int64   `json:"id"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// UpdateStatus moves a lead through the pipeline.
func (s *LeadService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (store.LeadSubmission, error) {
	if !model.IsValidLeadStatus(in.Status) {
		return store.LeadSubmission{}, &ValidationError{Fields: map[string]string{
			"status": "Status must be one of: " + strings.Join(model.LeadStatuses, ", "),
		}}
	}
	if s.queries == nil {
		slog.Warn("cannot update lead status: database not available", "id", in.ID)
		return store.LeadSubmission{}, nil
	}

	arg := store.UpdateLeadStatusParams{ID: in.ID, Status: in.Status, UpdatedAt: s.now().UTC()}
	if in.AdminNotes != nil {
		arg.AdminNotes = sql.NullString{String: *in.AdminNotes, Valid: true}
	}
	lead, err := s.queries.UpdateLeadStatus(ctx, arg)
	if err != nil {
		return store.LeadSubmission{}, notFound(err, "updating lead status")
	}
	return lead, nil
}

// Delete removes a lead.
func (s *LeadService) Delete(ctx context.Context, id int64) error {
	if s.queries == nil {
		slog.Warn("cannot delete lead: database not available", "id", id)
		return nil
	}
	n, err := s.queries.DeleteLead(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

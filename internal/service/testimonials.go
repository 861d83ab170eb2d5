// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docpropel/docpropel/internal/store"
)

// Rating bounds.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// TestimonialService manages client testimonials.
type TestimonialService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewTestimonialService creates a testimonial service.
func NewTestimonialService(db *sql.DB) *TestimonialService {
	s := &TestimonialService{now: time.Now}
	if db != nil {
		s.queries = store.New(db)
	}
	return s
}

// OptionalInt is a nullable number that also records whether it was sent.
// An explicit JSON null sets it with a nil Value.
type OptionalInt struct {
	Set   bool
	Value *int64
}

// SetInt returns an OptionalInt holding v.
func SetInt(v int64) OptionalInt {
	return OptionalInt{Set: true, Value: &v}
}

// ClearInt returns an OptionalInt that clears the stored value.
func ClearInt() OptionalInt {
	return OptionalInt{Set: true}
}

// UnmarshalJSON is only called when the key is present.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// TestimonialInput is a full or partial testimonial write. Nil fields are
// left unchanged on update and take their defaults on create. The two
// metrics are cleared by an explicit null.
type TestimonialInput struct {
	ClientName          *string     `json:"clientName,omitempty"`
	PracticeName        *string     `json:"practiceName,omitempty"`
	Specialty           *string     `json:"specialty,omitempty"`
	Location            *string     `json:"location,omitempty"`
	Quote               *string     `json:"quote,omitempty"`
	PhotoURL            *string     `json:"photoUrl,omitempty"`
	GrowthPercent       OptionalInt `json:"growthPercent"`
	NewPatientsPerMonth OptionalInt `json:"newPatientsPerMonth"`
	RevenueIncrease     *string     `json:"revenueIncrease,omitempty"`
	Rating              *int64      `json:"rating,omitempty"`
	IsFeatured          *bool       `json:"isFeatured,omitempty"`
	IsVisible           *bool       `json:"isVisible,omitempty"`
	SortOrder           *int64      `json:"sortOrder,omitempty"`
}

// apply overlays the non-nil fields of in onto p.
func (in TestimonialInput) apply(p *store.TestimonialParams) {
	setString(&p.ClientName, in.ClientName)
	setString(&p.PracticeName, in.PracticeName)
	setString(&p.Specialty, in.Specialty)
	setString(&p.Location, in.Location)
	setString(&p.PhotoURL, in.PhotoURL)
	setString(&p.RevenueIncrease, in.RevenueIncrease)
	setString(&p.Quote, in.Quote)
	if in.GrowthPercent.Set {
		p.GrowthPercent = in.GrowthPercent.Value
	}
	if in.NewPatientsPerMonth.Set {
		p.NewPatientsPerMonth = in.NewPatientsPerMonth.Value
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsVisible != nil {
		p.IsVisible = *in.IsVisible
	}
	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func validateTestimonial(p store.TestimonialParams) error {
	errs := validationErrors{}
	requireText(errs, "clientName", "Client name", p.ClientName, MaxShortTextLen)
	requireText(errs, "quote", "Quote", p.Quote, MaxMessageLen)
	if p.Rating < MinRating || p.Rating > MaxRating {
		errs["rating"] = fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)
	}
	if p.PhotoURL != "" && !isValidURL(p.PhotoURL) && !strings.HasPrefix(p.PhotoURL, "/") {
		errs["photoUrl"] = "Photo URL must be an http(s) URL or a site path"
	}
	if p.GrowthPercent != nil && *p.GrowthPercent < 0 {
		errs["growthPercent"] = "Growth percent cannot be negative"
	}
	if p.NewPatientsPerMonth != nil && *p.NewPatientsPerMonth < 0 {
		errs["newPatientsPerMonth"] = "New patients per month cannot be negative"
	}
	for field, v := range map[string]string{
		"practiceName":    p.PracticeName,
		"specialty":       p.Specialty,
		"location":        p.Location,
		"revenueIncrease": p.RevenueIncrease,
	} {
		if utf8.RuneCountInString(v) > MaxShortTextLen {
			errs[field] = "Value is too long"
		}
	}
	return errs.err()
}

func paramsFrom(t store.Testimonial) store.TestimonialParams {
	return store.TestimonialParams{
		ClientName:          t.ClientName,
		PracticeName:        t.PracticeName,
		Specialty:           t.Specialty,
		Location:            t.Location,
		Quote:               t.Quote,
		PhotoURL:            t.PhotoURL,
		GrowthPercent:       t.GrowthPercent,
		NewPatientsPerMonth: t.NewPatientsPerMonth,
		RevenueIncrease:     t.RevenueIncrease,
		Rating:              t.Rating,
		IsFeatured:          t.IsFeatured,
		IsVisible:           t.IsVisible,
		SortOrder:           t.SortOrder,
	}
}

// All returns every testimonial by sort order.
func (s *TestimonialService) All(ctx context.Context) ([]store.Testimonial, error) {
	return s.list(ctx, "testimonials", s.listAll)
}

// Visible returns the testimonials shown on the site.
func (s *TestimonialService) Visible(ctx context.Context) ([]store.Testimonial, error) {
	return s.list(ctx, "visible testimonials", s.listVisible)
}

// Featured returns visible testimonials flagged as featured.
func (s *TestimonialService) Featured(ctx context.Context) ([]store.Testimonial, error) {
	return s.list(ctx, "featured testimonials", s.listFeatured)
}

func (s *TestimonialService) listAll(ctx context.Context) ([]store.Testimonial, error) {
	return s.queries.ListTestimonials(ctx)
}

func (s *TestimonialService) listVisible(ctx context.Context) ([]store.Testimonial, error) {
	return s.queries.ListVisibleTestimonials(ctx)
}

func (s *TestimonialService) listFeatured(ctx context.Context) ([]store.Testimonial, error) {
	return s.queries.ListFeaturedTestimonials(ctx)
}

func (s *TestimonialService) list(ctx context.Context, what string, fn func(context.Context) ([]store.Testimonial, error)) ([]store.Testimonial, error) {
	if s.queries == nil {
		slog.Warn("cannot get " + what + ": database not available")
		return []store.Testimonial{}, nil
	}
	items, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	return items, nil
}

// Create adds a testimonial. Client name and quote are required.
func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (store.Testimonial, error) {
	p := store.TestimonialParams{Rating: DefaultRating, IsVisible: true}
	in.apply(&p)
	if err := validateTestimonial(p); err != nil {
		return store.Testimonial{}, err
	}
	if s.queries == nil {
		slog.Warn("cannot create testimonial: database not available")
		return store.Testimonial{}, nil
	}

	t, err := s.queries.CreateTestimonial(ctx, p, s.now().UTC())
	if err != nil {
		return store.Testimonial{}, fmt.Errorf("creating testimonial: %w", err)
	}
	return t, nil
}

// Update applies a partial update to one testimonial.
func (s *TestimonialService) Update(ctx context.Context, id int64, in TestimonialInput) (store.Testimonial, error) {
	if s.queries == nil {
		slog.Warn("cannot update testimonial: database not available", "id", id)
		return store.Testimonial{}, nil
	}

	current, err := s.queries.GetTestimonialByID(ctx, id)
	if err != nil {
		return store.Testimonial{}, notFound(err, "loading testimonial")
	}

	p := paramsFrom(current)
	in.apply(&p)
	if err := validateTestimonial(p); err != nil {
		return store.Testimonial{}, err
	}

	t, err := s.queries.UpdateTestimonial(ctx, id, p, s.now().UTC())
	if err != nil {
		return store.Testimonial{}, notFound(err, "updating testimonial")
	}
	return t, nil
}

// Delete removes exactly one testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	if s.queries == nil {
		slog.Warn("cannot delete testimonial: database not available", "id", id)
		return nil
	}
	n, err := s.queries.DeleteTestimonial(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting testimonial: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const testimonialColumns = `id, client_name, practice_name, specialty, location, quote, photo_url,
    growth_percent, new_patients_per_month, revenue_increase, rating, is_featured, is_visible,
    sort_order, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (Testimonial, error) {
	var t Testimonial
	err := row.Scan(
		&t.ID,
		&t.ClientName,
		&t.PracticeName,
		&t.Specialty,
		&t.Location,
		&t.Quote,
		&t.PhotoURL,
		&t.GrowthPercent,
		&t.NewPatientsPerMonth,
		&t.RevenueIncrease,
		&t.Rating,
		&t.IsFeatured,
		&t.IsVisible,
		&t.SortOrder,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func collectTestimonials(rows *sql.Rows) ([]Testimonial, error) {
	defer func() { _ = rows.Close() }()
	items := []Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTestimonials = `-- name: ListTestimonials :many
SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY sort_order, id`

func (q *Queries) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials)
	if err != nil {
		return nil, err
	}
	return collectTestimonials(rows)
}

const listVisibleTestimonials = `-- name: ListVisibleTestimonials :many
SELECT ` + testimonialColumns + ` FROM testimonials WHERE is_visible = 1 ORDER BY sort_order, id`

func (q *Queries) ListVisibleTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listVisibleTestimonials)
	if err != nil {
		return nil, err
	}
	return collectTestimonials(rows)
}

const listFeaturedTestimonials = `-- name: ListFeaturedTestimonials :many
SELECT ` + testimonialColumns + ` FROM testimonials
WHERE is_visible = 1 AND is_featured = 1
ORDER BY sort_order, id`

func (q *Queries) ListFeaturedTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listFeaturedTestimonials)
	if err != nil {
		return nil, err
	}
	return collectTestimonials(rows)
}

const getTestimonialByID = `-- name: GetTestimonialByID :one
SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`

func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, getTestimonialByID, id))
}

// TestimonialParams carries the writable columns of a testimonial.
type TestimonialParams struct {
	ClientName          string
	PracticeName        string
	Specialty           string
	Location            string
	Quote               string
	PhotoURL            string
	GrowthPercent       *int64
	NewPatientsPerMonth *int64
	RevenueIncrease     string
	Rating              int64
	IsFeatured          bool
	IsVisible           bool
	SortOrder           int64
}

const createTestimonial = `-- name: CreateTestimonial :one
INSERT INTO testimonials (
    client_name, practice_name, specialty, location, quote, photo_url,
    growth_percent, new_patients_per_month, revenue_increase, rating, is_featured, is_visible,
    sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + testimonialColumns

func (q *Queries) CreateTestimonial(ctx context.Context, arg TestimonialParams, now time.Time) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial,
		arg.ClientName,
		arg.PracticeName,
		arg.Specialty,
		arg.Location,
		arg.Quote,
		arg.PhotoURL,
		arg.GrowthPercent,
		arg.NewPatientsPerMonth,
		arg.RevenueIncrease,
		arg.Rating,
		arg.IsFeatured,
		arg.IsVisible,
		arg.SortOrder,
		now,
		now,
	)
	return scanTestimonial(row)
}

const updateTestimonial = `-- name: UpdateTestimonial :one
UPDATE testimonials SET
    client_name = ?, practice_name = ?, specialty = ?, location = ?, quote = ?, photo_url = ?,
    growth_percent = ?, new_patients_per_month = ?, revenue_increase = ?, rating = ?,
    is_featured = ?, is_visible = ?, sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + testimonialColumns

func (q *Queries) UpdateTestimonial(ctx context.Context, id int64, arg TestimonialParams, now time.Time) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, updateTestimonial,
		arg.ClientName,
		arg.PracticeName,
		arg.Specialty,
		arg.Location,
		arg.Quote,
		arg.PhotoURL,
		arg.GrowthPercent,
		arg.NewPatientsPerMonth,
		arg.RevenueIncrease,
		arg.Rating,
		arg.IsFeatured,
		arg.IsVisible,
		arg.SortOrder,
		now,
		id,
	)
	return scanTestimonial(row)
}

const deleteTestimonial = `-- name: DeleteTestimonial :execrows
DELETE FROM testimonials WHERE id = ?`

func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTestimonials = `-- name: CountTestimonials :one
SELECT COUNT(*) FROM testimonials`

func (q *Queries) CountTestimonials(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTestimonials).Scan(&n)
	return n, err
}

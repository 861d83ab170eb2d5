// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const leadColumns = `id, source, practice_name, contact_name, email, phone, specialty, location, message,
    monthly_patients, patient_value, projected_growth, projected_annual_revenue, website, patient_volume,
    status, admin_notes, ip_address, country, device_type, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (LeadSubmission, error) {
	var l LeadSubmission
	err := row.Scan(
		&l.ID,
		&l.Source,
		&l.PracticeName,
		&l.ContactName,
		&l.Email,
		&l.Phone,
		&l.Specialty,
		&l.Location,
		&l.Message,
		&l.MonthlyPatients,
		&l.PatientValue,
		&l.ProjectedGrowth,
		&l.ProjectedAnnualRevenue,
		&l.Website,
		&l.PatientVolume,
		&l.Status,
		&l.AdminNotes,
		&l.IPAddress,
		&l.Country,
		&l.DeviceType,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

const createLead = `-- name: CreateLead :one
INSERT INTO lead_submissions (
    source, practice_name, contact_name, email, phone, specialty, location, message,
    monthly_patients, patient_value, projected_growth, projected_annual_revenue, website, patient_volume,
    status, ip_address, country, device_type, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'new', ?, ?, ?, ?, ?)
RETURNING ` + leadColumns

type CreateLeadParams struct {
	Source                 string
	PracticeName           string
	ContactName            string
	Email                  string
	Phone                  string
	Specialty              string
	Location               string
	Message                string
	MonthlyPatients        int64
	PatientValue           int64
	ProjectedGrowth        float64
	ProjectedAnnualRevenue int64
	Website                string
	PatientVolume          string
	IPAddress              string
	Country                string
	DeviceType             string
	CreatedAt              time.Time
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (LeadSubmission, error) {
	row := q.db.QueryRowContext(ctx, createLead,
		arg.Source,
		arg.PracticeName,
		arg.ContactName,
		arg.Email,
		arg.Phone,
		arg.Specialty,
		arg.Location,
		arg.Message,
		arg.MonthlyPatients,
		arg.PatientValue,
		arg.ProjectedGrowth,
		arg.ProjectedAnnualRevenue,
		arg.Website,
		arg.PatientVolume,
		arg.IPAddress,
		arg.Country,
		arg.DeviceType,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanLead(row)
}

const listLeads = `-- name: ListLeads :many
SELECT ` + leadColumns + ` FROM lead_submissions ORDER BY created_at, id`

// ListLeads returns every submission, oldest first.
func (q *Queries) ListLeads(ctx context.Context) ([]LeadSubmission, error) {
	rows, err := q.db.QueryContext(ctx, listLeads)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []LeadSubmission{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLeadByID = `-- name: GetLeadByID :one
SELECT ` + leadColumns + ` FROM lead_submissions WHERE id = ?`

func (q *Queries) GetLeadByID(ctx context.Context, id int64) (LeadSubmission, error) {
	return scanLead(q.db.QueryRowContext(ctx, getLeadByID, id))
}

const countLeads = `-- name: CountLeads :one
SELECT COUNT(*) FROM lead_submissions`

func (q *Queries) CountLeads(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countLeads).Scan(&n)
	return n, err
}

const updateLeadStatus = `-- name: UpdateLeadStatus :one
UPDATE lead_submissions
SET status = ?,
    admin_notes = COALESCE(?, admin_notes),
    updated_at = ?
WHERE id = ?
RETURNING ` + leadColumns

type UpdateLeadStatusParams struct {
	ID         int64
	Status     string
	AdminNotes sql.NullString // Invalid leaves the stored notes untouched
	UpdatedAt  time.Time
}

func (q *Queries) UpdateLeadStatus(ctx context.Context, arg UpdateLeadStatusParams) (LeadSubmission, error) {
	row := q.db.QueryRowContext(ctx, updateLeadStatus, arg.Status, arg.AdminNotes, arg.UpdatedAt, arg.ID)
	return scanLead(row)
}

const deleteLead = `-- name: DeleteLead :execrows
DELETE FROM lead_submissions WHERE id = ?`

func (q *Queries) DeleteLead(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLead, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package legacy imports the data of the previous MySQL deployment into the
// SQLite store. It is run once from the command line with -import-mysql.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/docpropel/docpropel/internal/model"
	"github.com/docpropel/docpropel/internal/store"
)

// Reader reads rows from the legacy MySQL schema. Column names are the
// camelCase names the old deployment used.
type Reader struct {
	db *sql.DB
}

// Open connects to a legacy MySQL database. Timestamps are always parsed
// into time.Time, whatever the DSN says.
func Open(dsn string) (*Reader, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to mysql: %w", err)
	}
	return &Reader{db: db}, nil
}

// NewReader wraps an open connection to a database with the legacy schema.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Close closes the database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Users returns the legacy users, oldest first.
func (r *Reader) Users(ctx context.Context) ([]store.UpsertUserParams, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT openId, name, email, loginMethod, role, lastSignedIn FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []store.UpsertUserParams
	for rows.Next() {
		var (
			u                        store.UpsertUserParams
			name, email, loginMethod sql.NullString
		)
		if err := rows.Scan(&u.OpenID, &name, &email, &loginMethod, &u.Role, &u.SignedInAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Name, u.Email, u.LoginMethod = name.String, email.String, loginMethod.String
		u.Role = legacyRole(u.Role)
		u.SignedInAt = u.SignedInAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// SiteContent returns the legacy content blocks.
func (r *Reader) SiteContent(ctx context.Context) ([]store.UpsertSiteContentParams, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT section, `key`, value, label, contentType, sortOrder, updatedAt FROM site_content ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying site content: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []store.UpsertSiteContentParams
	for rows.Next() {
		var (
			c     store.UpsertSiteContentParams
			label sql.NullString
		)
		if err := rows.Scan(&c.Section, &c.Key, &c.Value, &label, &c.ContentType, &c.SortOrder, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning site content: %w", err)
		}
		c.Label = label.String
		if !model.IsValidContentType(c.ContentType) {
			c.ContentType = model.ContentTypeText
		}
		c.UpdatedAt = c.UpdatedAt.UTC()
		blocks = append(blocks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating site content: %w", err)
	}
	return blocks, nil
}

// Lead is a legacy lead submission with its pipeline state.
type Lead struct {
	store.CreateLeadParams
	Status     string
	AdminNotes string
	UpdatedAt  time.Time
}

// Leads returns the legacy lead submissions, oldest first.
func (r *Reader) Leads(ctx context.Context) ([]Lead, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT practiceName, contactName, email, phone, specialty, location,
    message, status, adminNotes, createdAt, updatedAt FROM lead_submissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var leads []Lead
	for rows.Next() {
		var (
			l                                   Lead
			practice, contact, email, phone     sql.NullString
			specialty, location, message, notes sql.NullString
		)
		if err := rows.Scan(&practice, &contact, &email, &phone, &specialty, &location,
			&message, &l.Status, &notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		l.Source = model.LeadSourceImport
		l.PracticeName = practice.String
		l.ContactName = contact.String
		l.Email = email.String
		l.Phone = phone.String
		l.Specialty = specialty.String
		l.Location = location.String
		l.Message = message.String
		l.AdminNotes = notes.String
		if !model.IsValidLeadStatus(l.Status) {
			l.Status = model.LeadStatusNew
		}
		l.CreatedAt = l.CreatedAt.UTC()
		l.UpdatedAt = l.UpdatedAt.UTC()
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return leads, nil
}

// Testimonial is a legacy testimonial with its original creation time.
type Testimonial struct {
	store.TestimonialParams
	CreatedAt time.Time
}

// Testimonials returns the legacy testimonials in display order.
func (r *Reader) Testimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT clientName, practiceName, specialty, location, quote, photoUrl,
    growthPercent, newPatientsPerMonth, revenueIncrease, rating, isFeatured, isVisible, sortOrder, createdAt
    FROM testimonials ORDER BY sortOrder, id`)
	if err != nil {
		return nil, fmt.Errorf("querying testimonials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []Testimonial
	for rows.Next() {
		var (
			t                             Testimonial
			practice, specialty, location sql.NullString
			photo, revenue                sql.NullString
			growth, newPatients, rating   sql.NullInt64
			featured, visible             string
		)
		if err := rows.Scan(&t.ClientName, &practice, &specialty, &location, &t.Quote, &photo,
			&growth, &newPatients, &revenue, &rating, &featured, &visible, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning testimonial: %w", err)
		}
		t.PracticeName = practice.String
		t.Specialty = specialty.String
		t.Location = location.String
		t.PhotoURL = photo.String
		t.RevenueIncrease = revenue.String
		t.GrowthPercent = nullInt(growth)
		t.NewPatientsPerMonth = nullInt(newPatients)
		t.Rating = legacyRating(rating)
		t.IsFeatured = parseFlag(featured, false)
		t.IsVisible = parseFlag(visible, true)
		t.CreatedAt = t.CreatedAt.UTC()
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating testimonials: %w", err)
	}
	return items, nil
}

// Result counts what an import wrote.
type Result struct {
	Users        int
	Content      int
	Leads        int
	Testimonials int
	// SkippedLeads and SkippedTestimonials are set when the target already
	// had rows in that table; those tables are only imported into empty ones.
	SkippedLeads        bool
	SkippedTestimonials bool
}

// Import copies every legacy table into target in one transaction. Users and
// content blocks are upserted by their natural keys, so running the import
// again refreshes them.
func Import(ctx context.Context, r *Reader, target *sql.DB, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	users, err := r.Users(ctx)
	if err != nil {
		return res, err
	}
	blocks, err := r.SiteContent(ctx)
	if err != nil {
		return res, err
	}
	leads, err := r.Leads(ctx)
	if err != nil {
		return res, err
	}
	testimonials, err := r.Testimonials(ctx)
	if err != nil {
		return res, err
	}

	tx, err := target.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := store.New(target).WithTx(tx)

	for _, u := range users {
		if _, err := q.UpsertUser(ctx, u); err != nil {
			return res, fmt.Errorf("importing user %s: %w", u.OpenID, err)
		}
		res.Users++
	}

	for _, c := range blocks {
		if _, err := q.UpsertSiteContent(ctx, c); err != nil {
			return res, fmt.Errorf("importing content %s.%s: %w", c.Section, c.Key, err)
		}
		res.Content++
	}

	leadCount, err := q.CountLeads(ctx)
	if err != nil {
		return res, fmt.Errorf("counting leads: %w", err)
	}
	if leadCount > 0 {
		res.SkippedLeads = len(leads) > 0
	} else {
		for _, l := range leads {
			created, err := q.CreateLead(ctx, l.CreateLeadParams)
			if err != nil {
				return res, fmt.Errorf("importing lead from %s: %w", l.Email, err)
			}
			if l.Status != model.LeadStatusNew || l.AdminNotes != "" {
				_, err = q.UpdateLeadStatus(ctx, store.UpdateLeadStatusParams{
					ID:         created.ID,
					Status:     l.Status,
					AdminNotes: sql.NullString{String: l.AdminNotes, Valid: l.AdminNotes != ""},
					UpdatedAt:  l.UpdatedAt,
				})
				if err != nil {
					return res, fmt.Errorf("importing lead status: %w", err)
				}
			}
			res.Leads++
		}
	}

	testimonialCount, err := q.CountTestimonials(ctx)
	if err != nil {
		return res, fmt.Errorf("counting testimonials: %w", err)
	}
	if testimonialCount > 0 {
		res.SkippedTestimonials = len(testimonials) > 0
	} else {
		for _, t := range testimonials {
			if _, err := q.CreateTestimonial(ctx, t.TestimonialParams, t.CreatedAt); err != nil {
				return res, fmt.Errorf("importing testimonial from %s: %w", t.ClientName, err)
			}
			res.Testimonials++
		}
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("committing import: %w", err)
	}

	if res.SkippedLeads {
		logger.Warn("skipped legacy leads, target already has leads", "legacy_rows", len(leads))
	}
	if res.SkippedTestimonials {
		logger.Warn("skipped legacy testimonials, target already has testimonials", "legacy_rows", len(testimonials))
	}
	logger.Info("legacy import complete",
		"users", res.Users, "content", res.Content, "leads", res.Leads, "testimonials", res.Testimonials)
	return res, nil
}

// parseFlag reads the "true"/"false" strings the legacy schema used for booleans.
func parseFlag(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return fallback
}

func legacyRole(role string) string {
	if role == model.RoleAdmin {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// legacyRating defaults a missing rating to five stars and clamps it to 1-5.
func legacyRating(n sql.NullInt64) int64 {
	if !n.Valid {
		return 5
	}
	return min(max(n.Int64, 1), 5)
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

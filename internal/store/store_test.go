// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

// testDB creates a temporary migrated database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "docpropel-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func int64Ptr(v int64) *int64 { return &v }

func TestUpsertUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	first, err := q.UpsertUser(ctx, UpsertUserParams{
		OpenID:      "oid-1",
		Name:        "Dr. Reyes",
		Email:       "reyes@example.com",
		LoginMethod: "google",
		SignedInAt:  now,
	})
	if err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if first.Role != "user" {
		t.Errorf("Role = %q, want %q", first.Role, "user")
	}

	second, err := q.UpsertUser(ctx, UpsertUserParams{
		OpenID:     "oid-1",
		Role:       "admin",
		SignedInAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("UpsertUser (second): %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ID = %d, want %d", second.ID, first.ID)
	}
	if second.Name != "Dr. Reyes" {
		t.Errorf("Name = %q, empty update must not overwrite", second.Name)
	}
	if second.Role != "admin" {
		t.Errorf("Role = %q, want %q", second.Role, "admin")
	}

	third, err := q.UpsertUser(ctx, UpsertUserParams{OpenID: "oid-1", Role: "user", SignedInAt: now})
	if err != nil {
		t.Fatalf("UpsertUser (third): %v", err)
	}
	if third.Role != "admin" {
		t.Errorf("Role = %q, admin must not be downgraded", third.Role)
	}

	if _, err := q.GetUserByOpenID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetUserByOpenID(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestUpsertSiteContent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	created, err := q.UpsertSiteContent(ctx, UpsertSiteContentParams{
		Section: "hero", Key: "headline", Value: "One", Label: "Main Headline", SortOrder: 1, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("UpsertSiteContent: %v", err)
	}
	if created.ContentType != "text" {
		t.Errorf("ContentType = %q, want default %q", created.ContentType, "text")
	}

	updated, err := q.UpsertSiteContent(ctx, UpsertSiteContentParams{
		Section: "hero", Key: "headline", Value: "Two", SortOrder: 1, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("UpsertSiteContent (update): %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID = %d, want %d", updated.ID, created.ID)
	}
	if updated.Value != "Two" {
		t.Errorf("Value = %q, want %q", updated.Value, "Two")
	}
	if updated.Label != "Main Headline" {
		t.Errorf("Label = %q, empty label must keep the stored one", updated.Label)
	}
}

func TestUpsertSiteContent_ConcurrentWritersLeaveOneRow(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := q.UpsertSiteContent(ctx, UpsertSiteContentParams{
				Section:   "contact",
				Key:       "phone",
				Value:     fmt.Sprintf("value-%d", i),
				UpdatedAt: time.Now().UTC(),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("UpsertSiteContent: %v", err)
		}
	}

	items, err := q.ListSiteContentBySection(ctx, "contact")
	if err != nil {
		t.Fatalf("ListSiteContentBySection: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	valid := false
	for i := 0; i < writers; i++ {
		if items[0].Value == fmt.Sprintf("value-%d", i) {
			valid = true
		}
	}
	if !valid {
		t.Errorf("Value = %q, want one of the written values", items[0].Value)
	}
}

func TestSiteContentOrdering(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for _, p := range []UpsertSiteContentParams{
		{Section: "hero", Key: "cta_text", SortOrder: 3},
		{Section: "about", Key: "title", SortOrder: 1},
		{Section: "hero", Key: "headline", SortOrder: 1},
	} {
		p.UpdatedAt = now
		if _, err := q.UpsertSiteContent(ctx, p); err != nil {
			t.Fatalf("UpsertSiteContent: %v", err)
		}
	}

	all, err := q.ListAllSiteContent(ctx)
	if err != nil {
		t.Fatalf("ListAllSiteContent: %v", err)
	}
	got := make([]string, 0, len(all))
	for _, c := range all {
		got = append(got, c.Section+"."+c.Key)
	}
	want := []string{"about.title", "hero.headline", "hero.cta_text"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestUpdateAndDeleteSiteContent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	c, err := q.UpsertSiteContent(ctx, UpsertSiteContentParams{Section: "footer", Key: "tagline", Value: "old", UpdatedAt: now})
	if err != nil {
		t.Fatalf("UpsertSiteContent: %v", err)
	}

	updated, err := q.UpdateSiteContentValue(ctx, c.ID, "new", now)
	if err != nil {
		t.Fatalf("UpdateSiteContentValue: %v", err)
	}
	if updated.Value != "new" {
		t.Errorf("Value = %q, want %q", updated.Value, "new")
	}

	if _, err := q.UpdateSiteContentValue(ctx, 9999, "x", now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("UpdateSiteContentValue(missing) error = %v, want sql.ErrNoRows", err)
	}

	deleted, err := q.DeleteSiteContent(ctx, c.ID)
	if err != nil {
		t.Fatalf("DeleteSiteContent: %v", err)
	}
	if deleted.Section != "footer" {
		t.Errorf("deleted.Section = %q, want %q", deleted.Section, "footer")
	}
	if _, err := q.GetSiteContentByID(ctx, c.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetSiteContentByID after delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	phone, err := q.GetSiteContent(ctx, "contact", "phone")
	if err != nil {
		t.Fatalf("GetSiteContent: %v", err)
	}
	if _, err := q.UpdateSiteContentValue(ctx, phone.ID, "555-0100", time.Now().UTC()); err != nil {
		t.Fatalf("UpdateSiteContentValue: %v", err)
	}

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed (second run): %v", err)
	}

	all, err := q.ListAllSiteContent(ctx)
	if err != nil {
		t.Fatalf("ListAllSiteContent: %v", err)
	}
	if len(all) != len(DefaultContent) {
		t.Errorf("len(all) = %d, want %d", len(all), len(DefaultContent))
	}

	phone, err = q.GetSiteContent(ctx, "contact", "phone")
	if err != nil {
		t.Fatalf("GetSiteContent: %v", err)
	}
	if phone.Value != "555-0100" {
		t.Errorf("phone = %q, seeding must not overwrite edits", phone.Value)
	}

	hero, err := q.GetSiteContent(ctx, "hero", "subheadline")
	if err != nil {
		t.Fatalf("GetSiteContent: %v", err)
	}
	if hero.ContentType != "textarea" {
		t.Errorf("ContentType = %q, want %q", hero.ContentType, "textarea")
	}
}

func TestLeads(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	base := time.Now().UTC()

	first, err := q.CreateLead(ctx, CreateLeadParams{
		Source:                 "calculator",
		Email:                  "first@example.com",
		Specialty:              "Dentists",
		MonthlyPatients:        30,
		PatientValue:           1200,
		ProjectedGrowth:        0.35,
		ProjectedAnnualRevenue: 158400,
		CreatedAt:              base,
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if first.Status != "new" {
		t.Errorf("Status = %q, want %q", first.Status, "new")
	}

	second, err := q.CreateLead(ctx, CreateLeadParams{
		Source:       "intake",
		Email:        "second@example.com",
		PracticeName: "Bright Smiles",
		CreatedAt:    base.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}

	leads, err := q.ListLeads(ctx)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(leads) != 2 || leads[0].ID != first.ID || leads[1].ID != second.ID {
		t.Fatalf("ListLeads order unexpected: %+v", leads)
	}

	withNotes, err := q.UpdateLeadStatus(ctx, UpdateLeadStatusParams{
		ID:         first.ID,
		Status:     "contacted",
		AdminNotes: sql.NullString{String: "called back", Valid: true},
		UpdatedAt:  base,
	})
	if err != nil {
		t.Fatalf("UpdateLeadStatus: %v", err)
	}
	if withNotes.Status != "contacted" || withNotes.AdminNotes != "called back" {
		t.Errorf("lead = %q/%q", withNotes.Status, withNotes.AdminNotes)
	}

	keepNotes, err := q.UpdateLeadStatus(ctx, UpdateLeadStatusParams{ID: first.ID, Status: "qualified", UpdatedAt: base})
	if err != nil {
		t.Fatalf("UpdateLeadStatus: %v", err)
	}
	if keepNotes.AdminNotes != "called back" {
		t.Errorf("AdminNotes = %q, omitted notes must be preserved", keepNotes.AdminNotes)
	}

	if _, err := q.UpdateLeadStatus(ctx, UpdateLeadStatusParams{ID: first.ID, Status: "bogus", UpdatedAt: base}); err == nil {
		t.Error("UpdateLeadStatus should reject an unknown status")
	}

	n, err := q.DeleteLead(ctx, second.ID)
	if err != nil {
		t.Fatalf("DeleteLead: %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}
	if count, _ := q.CountLeads(ctx); count != 1 {
		t.Errorf("CountLeads = %d, want 1", count)
	}
}

func TestTestimonials(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	hidden, err := q.CreateTestimonial(ctx, TestimonialParams{
		ClientName: "Hidden", Quote: "q", Rating: 5, IsVisible: false, SortOrder: 0,
	}, now)
	if err != nil {
		t.Fatalf("CreateTestimonial: %v", err)
	}
	featured, err := q.CreateTestimonial(ctx, TestimonialParams{
		ClientName: "Featured", Quote: "q", Rating: 5, IsVisible: true, IsFeatured: true, SortOrder: 2,
		GrowthPercent: int64Ptr(145),
	}, now)
	if err != nil {
		t.Fatalf("CreateTestimonial: %v", err)
	}
	plain, err := q.CreateTestimonial(ctx, TestimonialParams{
		ClientName: "Plain", Quote: "q", Rating: 4, IsVisible: true, SortOrder: 1,
	}, now)
	if err != nil {
		t.Fatalf("CreateTestimonial: %v", err)
	}

	if featured.GrowthPercent == nil || *featured.GrowthPercent != 145 {
		t.Errorf("GrowthPercent = %v, want 145", featured.GrowthPercent)
	}
	if plain.GrowthPercent != nil {
		t.Errorf("GrowthPercent = %v, want nil", *plain.GrowthPercent)
	}

	visible, err := q.ListVisibleTestimonials(ctx)
	if err != nil {
		t.Fatalf("ListVisibleTestimonials: %v", err)
	}
	if len(visible) != 2 || visible[0].ID != plain.ID || visible[1].ID != featured.ID {
		t.Errorf("visible = %+v, want [Plain Featured]", visible)
	}

	feat, err := q.ListFeaturedTestimonials(ctx)
	if err != nil {
		t.Fatalf("ListFeaturedTestimonials: %v", err)
	}
	if len(feat) != 1 || feat[0].ID != featured.ID {
		t.Errorf("featured = %+v, want [Featured]", feat)
	}

	if _, err := q.CreateTestimonial(ctx, TestimonialParams{ClientName: "Bad", Quote: "q", Rating: 6}, now); err == nil {
		t.Error("CreateTestimonial should reject a rating above 5")
	}

	n, err := q.DeleteTestimonial(ctx, hidden.ID)
	if err != nil {
		t.Fatalf("DeleteTestimonial: %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}

	all, err := q.ListTestimonials(ctx)
	if err != nil {
		t.Fatalf("ListTestimonials: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	for i, want := range []Testimonial{plain, featured} {
		got := all[i]
		if got.ID == hidden.ID {
			t.Error("deleted testimonial still listed")
		}
		if got.ID != want.ID || got.ClientName != want.ClientName || got.SortOrder != want.SortOrder ||
			got.IsVisible != want.IsVisible || got.IsFeatured != want.IsFeatured || got.Rating != want.Rating {
			t.Errorf("all[%d] = %+v, want unchanged %+v", i, got, want)
		}
	}
	if all[1].GrowthPercent == nil || *all[1].GrowthPercent != 145 {
		t.Errorf("Featured GrowthPercent after delete = %v, want 145", all[1].GrowthPercent)
	}
}

func TestNotificationDeliveriesAndEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC()

	for _, at := range []time.Time{old, recent} {
		if err := q.CreateNotificationDelivery(ctx, CreateNotificationDeliveryParams{
			BatchID: "b1", Channel: "email", Recipient: "hello@docpropel.com", Success: true, CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateNotificationDelivery: %v", err)
		}
		if err := q.CreateEvent(ctx, CreateEventParams{
			Level: "warning", Category: "notification", Message: "m", Metadata: "{}", CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	n, err := q.DeleteNotificationDeliveriesBefore(ctx, recent.Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteNotificationDeliveriesBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted deliveries = %d, want 1", n)
	}

	n, err = q.DeleteEventsBefore(ctx, recent.Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted events = %d, want 1", n)
	}

	deliveries, err := q.ListRecentNotificationDeliveries(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentNotificationDeliveries: %v", err)
	}
	if len(deliveries) != 1 || !deliveries[0].Success || deliveries[0].LeadID != nil {
		t.Errorf("deliveries = %+v", deliveries)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	OpenID       string    `json:"openId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LoginMethod  string    `json:"loginMethod"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

type SiteContent struct {
	ID          int64     `json:"id"`
	Section     string    `json:"section"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Label       string    `json:"label"`
	ContentType string    `json:"contentType"`
	SortOrder   int64     `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LeadSubmission struct {
	ID                     int64     `json:"id"`
	Source                 string    `json:"source"`
	PracticeName           string    `json:"practiceName"`
	ContactName            string    `json:"contactName"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	Specialty              string    `json:"specialty"`
	Location               string    `json:"location"`
	Message                string    `json:"message"`
	MonthlyPatients        int64     `json:"monthlyPatients"`
	PatientValue           int64     `json:"patientValue"`
	ProjectedGrowth        float64   `json:"projectedGrowth"`
	ProjectedAnnualRevenue int64     `json:"projectedAnnualRevenue"`
	Website                string    `json:"website"`
	PatientVolume          string    `json:"patientVolume"`
	Status                 string    `json:"status"`
	AdminNotes             string    `json:"adminNotes"`
	IPAddress              string    `json:"ipAddress"`
	Country                string    `json:"country"`
	DeviceType             string    `json:"deviceType"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type Testimonial struct {
	ID                  int64     `json:"id"`
	ClientName          string    `json:"clientName"`
	PracticeName        string    `json:"practiceName"`
	Specialty           string    `json:"specialty"`
	Location            string    `json:"location"`
	Quote               string    `json:"quote"`
	PhotoURL            string    `json:"photoUrl"`
	GrowthPercent       *int64    `json:"growthPercent"`
	NewPatientsPerMonth *int64    `json:"newPatientsPerMonth"`
	RevenueIncrease     string    `json:"revenueIncrease"`
	Rating              int64     `json:"rating"`
	IsFeatured          bool      `json:"isFeatured"`
	IsVisible           bool      `json:"isVisible"`
	SortOrder           int64     `json:"sortOrder"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationDelivery struct {
	ID           int64     `json:"id"`
	BatchID      string    `json:"batchId"`
	LeadID       *int64    `json:"leadId"`
	Channel      string    `json:"channel"`
	Recipient    string    `json:"recipient"`
	Title        string    `json:"title"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

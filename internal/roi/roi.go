// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package roi projects the revenue a practice gains from additional monthly
// patients. It is pure and safe for concurrent use.
package roi

import (
	"fmt"
	"math"
	"strings"
)

// Specialty describes one practice type offered by the calculator.
type Specialty struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	GrowthRate   float64 `json:"growthRate"`   // Fraction of current monthly patients gained
	PatientValue int     `json:"patientValue"` // Default average revenue per patient, dollars
}

// Slider bounds of the calculator form.
const (
	MinMonthlyPatients  = 5
	MaxMonthlyPatients  = 200
	MinPatientValue     = 100
	MaxPatientValue     = 10000
	PatientValueStep    = 50
	DefaultSpecialtyKey = "doctors"
	DefaultPatients     = 30
)

var specialties = []Specialty{
	{Key: "doctors", Label: "Doctors / Physicians", GrowthRate: 0.25, PatientValue: 500},
	{Key: "dentists", Label: "Dentists", GrowthRate: 0.35, PatientValue: 1200},
	{Key: "pharmacy", Label: "Pharmacies", GrowthRate: 0.30, PatientValue: 85},
	{Key: "pt_ot", Label: "PT / OT Clinics", GrowthRate: 0.28, PatientValue: 1500},
	{Key: "urgent", Label: "Urgent Care", GrowthRate: 0.40, PatientValue: 250},
	{Key: "specialty", Label: "Specialty Practice", GrowthRate: 0.22, PatientValue: 2500},
}

// Specialties returns the specialty table in display order.
func Specialties() []Specialty {
	out := make([]Specialty, len(specialties))
	copy(out, specialties)
	return out
}

// Lookup finds a specialty by key or, case-insensitively, by label.
func Lookup(keyOrLabel string) (Specialty, bool) {
	for _, s := range specialties {
		if s.Key == keyOrLabel || strings.EqualFold(s.Label, keyOrLabel) {
			return s, true
		}
	}
	return Specialty{}, false
}

// Projection is the outcome of Project.
type Projection struct {
	Specialty          Specialty `json:"specialty"`
	MonthlyPatients    int       `json:"monthlyPatients"`
	PatientValue       int       `json:"patientValue"`
	AdditionalPatients int       `json:"additionalPatients"`
	MonthlyIncrease    int       `json:"monthlyIncrease"`
	AnnualIncrease     int       `json:"annualIncrease"`
}

// GrowthPercent returns the growth rate as a whole percentage.
func (p Projection) GrowthPercent() int {
	return int(math.Round(p.Specialty.GrowthRate * 100))
}

// Calculate applies rate to the given inputs:
//
//	additional = round(monthlyPatients * rate)
//	monthly    = additional * patientValue
//	annual     = monthly * 12
//
// Halves round up. Negative inputs are treated as zero.
func Calculate(rate float64, monthlyPatients, patientValue int) (additional, monthly, annual int) {
	monthlyPatients = max(monthlyPatients, 0)
	patientValue = max(patientValue, 0)
	rate = math.Max(rate, 0)

	additional = int(math.Floor(float64(monthlyPatients)*rate + 0.5))
	monthly = additional * patientValue
	annual = monthly * 12
	return additional, monthly, annual
}

// Project looks up the specialty and computes its projection.
func Project(specialty string, monthlyPatients, patientValue int) (Projection, error) {
	s, ok := Lookup(specialty)
	if !ok {
		return Projection{}, fmt.Errorf("unknown specialty %q", specialty)
	}

	additional, monthly, annual := Calculate(s.GrowthRate, monthlyPatients, patientValue)
	return Projection{
		Specialty:          s,
		MonthlyPatients:    monthlyPatients,
		PatientValue:       patientValue,
		AdditionalPatients: additional,
		MonthlyIncrease:    monthly,
		AnnualIncrease:     annual,
	}, nil
}

// ClampPatients bounds n to the calculator's monthly patients slider.
func ClampPatients(n int) int {
	return min(max(n, MinMonthlyPatients), MaxMonthlyPatients)
}

// ClampPatientValue bounds v to the patient value slider and snaps it to the slider step.
func ClampPatientValue(v int) int {
	v = min(max(v, MinPatientValue), MaxPatientValue)
	return v - (v-MinPatientValue)%PatientValueStep
}

// RevenueProjection is the presenter-mode projection of total revenue.
type RevenueProjection struct {
	CurrentRevenue   float64 `json:"currentRevenue"`
	GrowthPercent    float64 `json:"growthPercent"`
	ProjectedRevenue float64 `json:"projectedRevenue"`
	Increase         float64 `json:"increase"`
}

// ProjectRevenue returns current * (1 + growthPercent/100).
func ProjectRevenue(current, growthPercent float64) RevenueProjection {
	projected := current * (1 + growthPercent/100)
	return RevenueProjection{
		CurrentRevenue:   current,
		GrowthPercent:    growthPercent,
		ProjectedRevenue: projected,
		Increase:         projected - current,
	}
}

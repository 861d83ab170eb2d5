// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Dentists(t *testing.T) {
	p, err := Project("dentists", 30, 1200)
	require.NoError(t, err)

	assert.Equal(t, 11, p.AdditionalPatients)
	assert.Equal(t, 13200, p.MonthlyIncrease)
	assert.Equal(t, 158400, p.AnnualIncrease)
	assert.Equal(t, 35, p.GrowthPercent())
}

func TestProject_AllSpecialties(t *testing.T) {
	tests := []struct {
		key        string
		patients   int
		value      int
		additional int
		annual     int
	}{
		{"doctors", 30, 500, 8, 48000}, // 7.5 rounds up
		{"dentists", 12, 1200, 4, 57600},
		{"pharmacy", 100, 85, 30, 30600},
		{"pt_ot", 25, 1500, 7, 126000},
		{"urgent", 200, 250, 80, 240000},
		{"specialty", 5, 2500, 1, 30000}, // 1.1 rounds down
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, err := Project(tt.key, tt.patients, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.additional, p.AdditionalPatients)
			assert.Equal(t, tt.additional*tt.value, p.MonthlyIncrease)
			assert.Equal(t, tt.annual, p.AnnualIncrease)
		})
	}
}

func TestProject_AnnualIsTwelveMonths(t *testing.T) {
	for _, s := range Specialties() {
		for m := MinMonthlyPatients; m <= MaxMonthlyPatients; m += 13 {
			p, err := Project(s.Key, m, s.PatientValue)
			require.NoError(t, err)
			assert.Equal(t, p.AdditionalPatients*s.PatientValue*12, p.AnnualIncrease, "%s/%d", s.Key, m)
		}
	}
}

func TestProject_UnknownSpecialty(t *testing.T) {
	_, err := Project("veterinary", 30, 500)
	assert.Error(t, err)
}

func TestLookup_ByLabel(t *testing.T) {
	s, ok := Lookup("PT / OT Clinics")
	require.True(t, ok)
	assert.Equal(t, "pt_ot", s.Key)

	s, ok = Lookup("dentists")
	require.True(t, ok)
	assert.Equal(t, "Dentists", s.Label)

	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestCalculate_NegativeInputs(t *testing.T) {
	additional, monthly, annual := Calculate(0.25, -10, 500)
	assert.Zero(t, additional)
	assert.Zero(t, monthly)
	assert.Zero(t, annual)
}

func TestSpecialties_ReturnsCopy(t *testing.T) {
	list := Specialties()
	require.Len(t, list, 6)
	list[0].GrowthRate = 99

	s, _ := Lookup("doctors")
	assert.Equal(t, 0.25, s.GrowthRate)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, MinMonthlyPatients, ClampPatients(0))
	assert.Equal(t, 42, ClampPatients(42))
	assert.Equal(t, MaxMonthlyPatients, ClampPatients(1000))

	assert.Equal(t, MinPatientValue, ClampPatientValue(10))
	assert.Equal(t, 1200, ClampPatientValue(1200))
	assert.Equal(t, 1200, ClampPatientValue(1234))
	assert.Equal(t, MaxPatientValue, ClampPatientValue(20000))
}

func TestProjectRevenue(t *testing.T) {
	p := ProjectRevenue(50000, 35)
	assert.InDelta(t, 67500, p.ProjectedRevenue, 0.001)
	assert.InDelta(t, 17500, p.Increase, 0.001)

	zero := ProjectRevenue(50000, 0)
	assert.InDelta(t, 50000, zero.ProjectedRevenue, 0.001)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Lead statuses, in pipeline order.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"
)

// LeadStatuses lists every valid lead status.
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusClosed,
}

// IsValidLeadStatus reports whether s is a known lead status.
func IsValidLeadStatus(s string) bool {
	return slices.Contains(LeadStatuses, s)
}

// Lead sources.
const (
	LeadSourceCalculator = "calculator"
	LeadSourceIntake     = "intake"
	LeadSourceImport     = "import"
)

// Intake form specialty options.
var IntakeSpecialties = []string{"dental", "medical", "pt", "pharmacy", "other"}

// IsValidIntakeSpecialty reports whether s is an intake form specialty option.
func IsValidIntakeSpecialty(s string) bool {
	return slices.Contains(IntakeSpecialties, s)
}

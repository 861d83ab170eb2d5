// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Fixed marketing copy. Editable headlines, contact details and footer text
// come from site_content; the lists below change with releases.

// Feature is a titled paragraph used by feature grids.
type Feature struct {
	Title       string
	Description string
}

// ComparisonRow contrasts DocPropel with a traditional agency.
type ComparisonRow struct {
	Feature string
	Us      string
	Them    string
}

// Service is one offering on the services page.
type Service struct {
	Title       string
	Description string
	Specialties []string
	CTA         string
}

// SpecialtyPlaybook lists the outcomes targeted for one specialty.
type SpecialtyPlaybook struct {
	Title string
	Items []string
}

// Stat is a headline number.
type Stat struct {
	Value string
	Label string
}

// CaseStudy is a results page entry.
type CaseStudy struct {
	Specialty   string
	Title       string
	Metric      string
	MetricLabel string
	Stats       []Stat
}

var homePillars = []Feature{
	{"Zero Risk", "Stop gambling your marketing budget. With our performance model, you don't pay for empty promises."},
	{"Total Transparency", "No vanity metrics. Our real-time dashboards show you exactly how many patients we've delivered."},
	{"Aligned Incentives", "We only win when you win. Our team fights for every single lead because our revenue depends on it."},
}

var homeServices = []Feature{
	{"Healthcare SEO", "Dominate local search results so patients find you first."},
	{"Precision PPC", "Targeted ad campaigns that drive qualified leads instantly."},
	{"Medical Web Design", "High-converting, ADA compliant websites built for trust."},
	{"Reputation Management", "Build a 5-star reputation that attracts new patients automatically."},
	{"Social Media Marketing", "Engage your community and build a loyal patient following."},
	{"Content Marketing", "Expert content that establishes you as the authority in your field."},
}

var homeComparison = []ComparisonRow{
	{"Pricing Model", "Performance-Based", "High Fixed Retainer"},
	{"Financial Risk", "Minimal & Shared", "100% On You"},
	{"Contract Terms", "Flexible, No Lock-in", "12-24 Month Lock-in"},
	{"Reporting", "Real-Time ROI", "Confusing PDFs"},
	{"Incentives", "Aligned with Growth", "Paid Regardless"},
}

var compareRows = []ComparisonRow{
	{"Pricing Model", "Performance-Based", "High Fixed Retainer"},
	{"Financial Risk", "Shared Risk", "100% On You"},
	{"Contract Terms", "Flexible, No Lock-in", "12-24 Month Lock-in"},
	{"Reporting", "Real-Time ROI", "Confusing PDFs"},
	{"Incentives", "Aligned with Growth", "Paid Regardless"},
}

var allSpecialties = []string{"Doctors", "Dentists", "Pharmacies", "Physical Therapy / Occupational Therapy"}

var services = []Service{
	{
		Title:       "Healthcare SEO",
		Description: "We ensure you appear exactly where patients are actively searching for care in your local market. We focus on high-intent keywords that drive appointments, not just traffic.",
		Specialties: allSpecialties,
	},
	{
		Title:       "Paid Search & PPC",
		Description: "Create immediate demand and convert intent into booked appointments. We manage your ad spend to maximize ROI and eliminate waste.",
		Specialties: []string{"Doctors", "Dentists", "Physical Therapy / Occupational Therapy"},
	},
	{
		Title:       "AI-Powered Website",
		Description: "Built for trust, compliance, and conversion rather than just aesthetics. Your site will be a patient-generating machine with 24/7 AI chat.",
		Specialties: allSpecialties,
	},
	{
		Title:       "Reputation Management",
		Description: "Systematically build social proof that works continuously to attract new patients. We help you get more 5-star reviews and manage your online reputation.",
		Specialties: allSpecialties,
	},
	{
		Title:       "Patient Reactivation",
		Description: "Smart campaigns identify and re-engage dormant patients automatically, filling your schedule without you lifting a finger.",
		Specialties: []string{"Doctors", "Dentists", "Physical Therapy / Occupational Therapy"},
	},
	{
		Title:       "Digital Brief",
		Description: "A supportive, insight-led review of your digital ecosystem and experience. Identify gaps and opportunities for growth.",
		Specialties: []string{"All Specialties"},
		CTA:         "Request a Digital Brief",
	},
}

var playbooks = []SpecialtyPlaybook{
	{"For Doctors & Physicians", []string{
		"Increase new patient appointments by 25-40%",
		"Reduce no-show rates with automated reminders",
		"Build referral networks with local specialists",
		"HIPAA-compliant marketing across all channels",
	}},
	{"For Dentists", []string{
		"Fill hygiene schedules with recurring patients",
		"Attract high-value cosmetic cases",
		"Dominate local search for dental keywords",
		"Convert website visitors into booked appointments",
	}},
	{"For Pharmacies", []string{
		"Drive prescription transfers from competitors",
		"Promote specialty services (compounding, immunizations)",
		"Build community presence and loyalty",
		"Compete effectively against big chains",
	}},
	{"For Physical Therapy / Occupational Therapy Clinics", []string{
		"Capture direct-access patients online",
		"Build physician referral relationships",
		"Reduce patient drop-off rates",
		"Expand to multiple locations with proven playbooks",
	}},
}

var howItWorksSteps = []Feature{
	{"1. Deploy & Optimize", "We deploy and continuously optimize the right mix of channels based on your specialty and geography. No cookie-cutter strategies."},
	{"2. Deliver Patients", "We focus on delivering qualified patient inquiries and booked appointments. Reporting is real-time and outcome-focused."},
	{"3. Pay for Performance", "You pay when patients are delivered, not for activity. No vanity metrics, long contracts, or lock-ins."},
}

var caseStudies = []CaseStudy{
	{"Dentists", "Scaling a Multi-Location Dental Group", "+145%", "New Patient Volume",
		[]Stat{{"-40%", "Cost Per Lead"}, {"8.5x", "ROI"}}},
	{"Doctors", "Primary Care Practice Growth", "+87%", "Monthly New Patients",
		[]Stat{{"+$420K", "Revenue Growth"}, {"High", "Lead Quality"}}},
	{"Pharmacies", "Independent Pharmacy Turnaround", "+210%", "Prescription Transfers",
		[]Stat{{"+95", "New Customers/Mo"}, {"92%", "Retention Rate"}}},
	{"PT / OT", "Physical Therapy Clinic Expansion", "+165%", "Patient Referrals",
		[]Stat{{"20 hrs/wk", "Admin Time Saved"}, {"4.9/5", "Patient Satisfaction"}}},
	{"Dentists", "Cosmetic Dentistry Revenue Boost", "+$1.8M", "Annual Revenue",
		[]Stat{{"+65%", "Avg Case Value"}, {"78%", "Consult Rate"}}},
	{"Doctors", "Urgent Care Volume Surge", "+210%", "Online Bookings",
		[]Stat{{"-35%", "Wait Time Reduction"}, {"4.8/5", "Patient Satisfaction"}}},
}

var resultStats = []Stat{
	{"500+", "Practices Served"},
	{"$50M+", "Revenue Generated"},
	{"32%", "Avg. Growth Rate"},
	{"4.9/5", "Client Satisfaction"},
}

// OfficeHours is shown on the contact page.
const OfficeHours = "Monday - Friday, 9am - 6pm EST"

var contactExpectations = []string{
	"A brief discovery call to understand your practice",
	"Custom analysis of your market and competition",
	"Clear growth projections with no obligation",
}

// Option is a select option of a form.
type Option struct {
	Value string
	Label string
}

var intakeSpecialtyOptions = []Option{
	{"dental", "Dental"},
	{"medical", "Medical / Primary Care"},
	{"pt", "Physical Therapy"},
	{"pharmacy", "Pharmacy"},
	{"other", "Other"},
}

var intakeVolumeOptions = []Option{
	{"1-100", "1-100 / month"},
	{"101-500", "101-500 / month"},
	{"500+", "500+ / month"},
}

// Slide is one presenter mode slide.
type Slide struct {
	ID    string
	Title string
}

var presenterSlides = []Slide{
	{"intro", "Introduction"},
	{"problem", "The Problem"},
	{"solution", "The Solution"},
	{"comparison", "Comparison Tool"},
	{"roi", "ROI Calculator"},
	{"closing", "Next Steps"},
}

var presenterProblems = []Feature{
	{"High Fixed Retainers", "You pay thousands monthly regardless of results."},
	{"Zero Accountability", "Agencies focus on vanity metrics, not booked appointments."},
	{"Long-Term Lock-ins", "12-24 month contracts trap you in bad relationships."},
}

var presenterSolutions = []Feature{
	{"Shared Risk", "We invest upfront. We only win when you win."},
	{"Total Transparency", "Real-time dashboards showing actual patient bookings."},
	{"Aligned Incentives", "Our revenue is tied directly to your patient growth."},
}

// PresenterComparison is a row of the presenter comparison tool.
type PresenterComparison struct {
	Title       string
	Traditional string
	DocPropel   string
}

var presenterComparisons = []PresenterComparison{
	{"Pricing Model", "High Fixed Retainer ($3k-$10k/mo)", "Performance-Based (Pay for Results)"},
	{"Contract Terms", "12-24 Month Lock-in Contract", "Flexible, No Long-Term Lock-in"},
	{"Accountability", "Paid Regardless of Outcome", "Revenue Tied to Your Growth"},
}

var presenterNextSteps = []string{
	"Audit current digital footprint",
	"Identify patient leakage points",
	"Launch performance pilot",
}

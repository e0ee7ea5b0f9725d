// Package compliance implements the fleet's expiration and alert engine: it
// projects vehicle documents, maintenance schedules and driver credentials
// into a single obligation shape, classifies each by urgency and reduces the
// result into dashboard summaries and alert payloads.
package compliance

import "time"

// Severity is the urgency tier of an obligation.
type Severity string

const (
	SeverityOverdue  Severity = "overdue"
	SeverityUrgent   Severity = "urgent"
	SeverityUpcoming Severity = "upcoming"
	SeverityOK       Severity = "ok"
	// SeverityNoRecord marks an obligation whose due value was never recorded.
	// It is surfaced separately and excluded from alert totals.
	SeverityNoRecord Severity = "no_record"
)

// rank orders severities for display, most urgent first.
func (s Severity) rank() int {
	switch s {
	case SeverityOverdue:
		return 0
	case SeverityUrgent:
		return 1
	case SeverityUpcoming:
		return 2
	case SeverityOK:
		return 3
	default:
		return 4
	}
}

// Alertable reports whether the severity belongs in an alert report.
func (s Severity) Alertable() bool {
	return s == SeverityOverdue || s == SeverityUrgent || s == SeverityUpcoming
}

// MeasureKind distinguishes date-based from odometer-based obligations.
type MeasureKind string

const (
	MeasureDays       MeasureKind = "days"
	MeasureKilometers MeasureKind = "kilometers"
)

// Group identifies which feed an obligation came from.
type Group string

const (
	GroupVehicleDocument  Group = "vehicle_document"
	GroupMaintenance      Group = "maintenance"
	GroupDriverCredential Group = "driver_credential"
)

// DueMeasure is the normalized "how much is left" value: a signed remaining
// amount in days or kilometers, negative once overdue.
type DueMeasure struct {
	Kind      MeasureKind `json:"kind"`
	Remaining int         `json:"remaining"`
	DueDate   *time.Time  `json:"due_date,omitempty"`
	DueAtKm   *int        `json:"due_at_km,omitempty"`
}

// Obligation is the canonical unit the engine operates on. Values are
// transient: built per invocation from store rows and discarded after the
// report is produced.
type Obligation struct {
	SubjectID    string      `json:"subject_id"`
	SubjectLabel string      `json:"subject_label"` // plate or driver name
	Group        Group       `json:"group"`
	Category     string      `json:"category"`
	Due          *DueMeasure `json:"due,omitempty"` // nil means no record
	Severity     Severity    `json:"severity"`
	Cost         *float64    `json:"cost,omitempty"`
	Provider     string      `json:"provider,omitempty"`
	LastService  string      `json:"last_service,omitempty"`
}

// DaysUntil returns the whole number of calendar days from now to due,
// negative when due is in the past. Both instants are truncated to their
// calendar date first, so a document due later today reports 0.
func DaysUntil(now, due time.Time) int {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDate.Sub(nowDate).Hours() / 24)
}

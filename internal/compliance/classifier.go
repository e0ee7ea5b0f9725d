package compliance

// Thresholds configures the urgency boundaries for one obligation class, in
// the same unit as the remaining value it classifies (days or kilometers).
type Thresholds struct {
	Urgent  int // below this, URGENT
	Warning int // below this, UPCOMING
}

// Policy is the per-class threshold table. Call sites never hardcode a
// boundary; they pass the policy in.
type Policy struct {
	VehicleDocument     Thresholds
	MaintenanceDate     Thresholds
	MaintenanceOdometer Thresholds // Warning is overridden by an item's own alert lead
	DriverCredential    Thresholds
}

// DefaultPolicy returns the fleet's standard thresholds: documents and
// date-scheduled maintenance turn urgent a week out, driver credentials
// fifteen days out, odometer-scheduled maintenance at 500 km remaining.
func DefaultPolicy() Policy {
	return Policy{
		VehicleDocument:     Thresholds{Urgent: 7, Warning: 30},
		MaintenanceDate:     Thresholds{Urgent: 7, Warning: 30},
		MaintenanceOdometer: Thresholds{Urgent: 500, Warning: 1000},
		DriverCredential:    Thresholds{Urgent: 15, Warning: 30},
	}
}

// Classify maps a signed remaining value to a severity tier. A remaining
// value of exactly 0 is URGENT, not OVERDUE: the obligation is due today but
// not yet past due.
func Classify(remaining int, t Thresholds) Severity {
	switch {
	case remaining < 0:
		return SeverityOverdue
	case remaining < t.Urgent:
		return SeverityUrgent
	case remaining < t.Warning:
		return SeverityUpcoming
	default:
		return SeverityOK
	}
}

// Package alerts turns aggregated compliance results into recipient-facing
// reports and delivers them by e-mail. Building a report and delivering it
// are separate steps; nothing here touches the store.
package alerts

import (
	"fmt"
	"time"

	"github.com/flotasur/fleet-management/internal/compliance"
	"github.com/flotasur/fleet-management/internal/models"
)

// Item is one alert line in a report section.
type Item struct {
	Severity     compliance.Severity `json:"severity"`
	SubjectLabel string              `json:"subject_label"`
	Category     string              `json:"category"`
	Detail       string              `json:"detail"`
}

// OutOfServiceItem is one stopped or in-repair vehicle in the informational
// section.
type OutOfServiceItem struct {
	Plate string              `json:"plate"`
	State models.VehicleState `json:"state"`
	Notes string              `json:"notes,omitempty"`
}

// Report is the structured notification payload handed to the delivery
// collaborator. When TotalAlerts is zero all sections are empty and the
// subject line switches to the all-clear variant.
type Report struct {
	GeneratedAt       time.Time          `json:"generated_at"`
	TotalAlerts       int                `json:"total_alerts"`
	VehicleDocuments  []Item             `json:"vehicle_documents,omitempty"`
	Maintenance       []Item             `json:"maintenance,omitempty"`
	DriverCredentials []Item             `json:"driver_credentials,omitempty"`
	OutOfService      []OutOfServiceItem `json:"out_of_service,omitempty"`
}

// AllClear reports whether the fleet has no alerts at all.
func (r Report) AllClear() bool {
	return r.TotalAlerts == 0
}

// Subject builds the e-mail subject line for the report.
func (r Report) Subject() string {
	date := r.GeneratedAt.Format("02/01/2006")
	if r.AllClear() {
		return fmt.Sprintf("Fleet OK - %s", date)
	}
	return fmt.Sprintf("%d fleet alerts - %s", r.TotalAlerts, date)
}

// BuildReport assembles the notification payload from classified obligations
// and the out-of-service vehicle list. Only overdue, urgent and upcoming
// obligations make it into a section; sections are ordered most urgent first.
func BuildReport(now time.Time, obligations []compliance.Obligation, outOfService []models.Vehicle) Report {
	report := Report{GeneratedAt: now}

	ordered := compliance.NewAggregate(obligations).Ordered
	for _, o := range ordered {
		if !o.Severity.Alertable() {
			continue
		}
		item := Item{
			Severity:     o.Severity,
			SubjectLabel: o.SubjectLabel,
			Category:     o.Category,
			Detail:       describe(o),
		}
		switch o.Group {
		case compliance.GroupVehicleDocument:
			report.VehicleDocuments = append(report.VehicleDocuments, item)
		case compliance.GroupMaintenance:
			report.Maintenance = append(report.Maintenance, item)
		case compliance.GroupDriverCredential:
			report.DriverCredentials = append(report.DriverCredentials, item)
		}
	}

	for _, v := range outOfService {
		report.OutOfService = append(report.OutOfService, OutOfServiceItem{
			Plate: v.Plate,
			State: v.State,
			Notes: v.Notes,
		})
	}

	report.TotalAlerts = len(report.VehicleDocuments) +
		len(report.Maintenance) +
		len(report.DriverCredentials) +
		len(report.OutOfService)
	return report
}

func describe(o compliance.Obligation) string {
	if o.Due == nil {
		return "no schedule recorded"
	}

	switch o.Due.Kind {
	case compliance.MeasureKilometers:
		if o.Due.Remaining < 0 {
			return fmt.Sprintf("%d km past due", -o.Due.Remaining)
		}
		return fmt.Sprintf("%d km remaining", o.Due.Remaining)
	default:
		due := ""
		if o.Due.DueDate != nil {
			due = o.Due.DueDate.Format("2006-01-02")
		}
		switch {
		case o.Due.Remaining < 0:
			return fmt.Sprintf("expired %s (%d days ago)", due, -o.Due.Remaining)
		case o.Due.Remaining == 0:
			return fmt.Sprintf("expires today (%s)", due)
		default:
			return fmt.Sprintf("expires %s (in %d days)", due, o.Due.Remaining)
		}
	}
}

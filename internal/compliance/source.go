package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Credential category labels. Each of the four driver credential dates
// projects into its own obligation under one of these.
const (
	CredentialLicense      = "License"
	CredentialHazmat       = "HazmatEndorsement"
	CredentialMedicalExam  = "MedicalExam"
	CredentialSafetyCourse = "SafetyCourse"
)

// Source is the engine's query layer: it fetches the rows the classifier
// needs, already filtered to in-scope subjects, and projects them into
// obligations. The scope policy is uniform: active vehicles and active
// drivers only, so totals agree across every panel built from one Source.
type Source struct {
	Vehicles    db.VehicleCollection
	Drivers     db.DriverCollection
	Documents   db.DocumentCollection
	Maintenance db.MaintenanceCollection
	Policy      Policy
}

// NewSource creates a Source over the given collections with the default
// threshold policy.
func NewSource(vehicles db.VehicleCollection, drivers db.DriverCollection, documents db.DocumentCollection, maintenance db.MaintenanceCollection) *Source {
	return &Source{
		Vehicles:    vehicles,
		Drivers:     drivers,
		Documents:   documents,
		Maintenance: maintenance,
		Policy:      DefaultPolicy(),
	}
}

func (s *Source) activeVehicles(ctx context.Context) (map[string]models.Vehicle, []string, error) {
	vehicles, err := s.Vehicles.FindVehicles(ctx, bson.M{"state": models.VehicleActive})
	if err != nil {
		return nil, nil, fmt.Errorf("fetching active vehicles: %w", err)
	}

	byID := make(map[string]models.Vehicle, len(vehicles))
	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		id := v.ID.Hex()
		byID[id] = v
		ids = append(ids, id)
	}
	return byID, ids, nil
}

// DocumentObligations classifies every active document of every active
// vehicle by days remaining until its due date.
func (s *Source) DocumentObligations(ctx context.Context, now time.Time) ([]Obligation, error) {
	vehicles, ids, err := s.activeVehicles(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	docs, err := s.Documents.FindDocuments(ctx, bson.M{
		"vehicle_id": bson.M{"$in": ids},
		"state":      models.DocumentActive,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}

	obligations := make([]Obligation, 0, len(docs))
	for _, doc := range docs {
		vehicle, ok := vehicles[doc.VehicleID]
		if !ok {
			continue
		}

		thresholds := s.Policy.VehicleDocument
		if doc.AlertDays > 0 {
			thresholds.Warning = doc.AlertDays
			// The warning window never narrows below the urgent one.
			if thresholds.Warning < thresholds.Urgent {
				thresholds.Warning = thresholds.Urgent
			}
		}

		remaining := DaysUntil(now, doc.DueDate)
		dueDate := doc.DueDate
		obligations = append(obligations, Obligation{
			SubjectID:    doc.VehicleID,
			SubjectLabel: vehicle.Plate,
			Group:        GroupVehicleDocument,
			Category:     doc.Type,
			Due:          &DueMeasure{Kind: MeasureDays, Remaining: remaining, DueDate: &dueDate},
			Severity:     Classify(remaining, thresholds),
			Cost:         doc.RenewalCost,
		})
	}
	return obligations, nil
}

// MaintenanceObligations classifies the current maintenance status of every
// active vehicle. Only the most recent item per (vehicle, type) counts; an
// item scheduled by both date and odometer yields one obligation of each
// kind, and an item scheduling nothing yields a NO_RECORD marker.
func (s *Source) MaintenanceObligations(ctx context.Context, now time.Time) ([]Obligation, error) {
	vehicles, ids, err := s.activeVehicles(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := s.Maintenance.LatestPerType(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching maintenance status: %w", err)
	}

	var obligations []Obligation
	for _, item := range items {
		vehicle, ok := vehicles[item.VehicleID]
		if !ok {
			continue
		}

		base := Obligation{
			SubjectID:    item.VehicleID,
			SubjectLabel: vehicle.Plate,
			Group:        GroupMaintenance,
			Category:     item.Type,
			Provider:     item.Workshop,
			LastService:  fmt.Sprintf("%s at %d km", item.Date.Format("2006-01-02"), item.Odometer),
		}
		if item.Cost > 0 {
			cost := item.Cost
			base.Cost = &cost
		}

		scheduled := false
		if item.NextDueDate != nil {
			remaining := DaysUntil(now, *item.NextDueDate)
			o := base
			o.Due = &DueMeasure{Kind: MeasureDays, Remaining: remaining, DueDate: item.NextDueDate}
			o.Severity = Classify(remaining, s.Policy.MaintenanceDate)
			obligations = append(obligations, o)
			scheduled = true
		}
		if item.NextDueOdometer != nil {
			thresholds := s.Policy.MaintenanceOdometer
			if item.AlertKm > 0 {
				thresholds.Warning = item.AlertKm
				if thresholds.Warning < thresholds.Urgent {
					thresholds.Warning = thresholds.Urgent
				}
			}
			remaining := *item.NextDueOdometer - vehicle.Odometer
			o := base
			o.Due = &DueMeasure{Kind: MeasureKilometers, Remaining: remaining, DueAtKm: item.NextDueOdometer}
			o.Severity = Classify(remaining, thresholds)
			obligations = append(obligations, o)
			scheduled = true
		}
		if !scheduled {
			o := base
			o.Severity = SeverityNoRecord
			obligations = append(obligations, o)
		}
	}
	return obligations, nil
}

// CredentialObligations projects the four credential dates of every active
// driver into independent obligations. A date never recorded yields NO_RECORD.
func (s *Source) CredentialObligations(ctx context.Context, now time.Time) ([]Obligation, error) {
	drivers, err := s.Drivers.FindDrivers(ctx, bson.M{"state": models.DriverActive})
	if err != nil {
		return nil, fmt.Errorf("fetching active drivers: %w", err)
	}

	var obligations []Obligation
	for _, driver := range drivers {
		credentials := []struct {
			category string
			expiry   *time.Time
		}{
			{CredentialLicense, driver.LicenseExpiry},
			{CredentialHazmat, driver.HazmatExpiry},
			{CredentialMedicalExam, driver.MedicalExamExpiry},
			{CredentialSafetyCourse, driver.SafetyCourseExpiry},
		}

		for _, cred := range credentials {
			o := Obligation{
				SubjectID:    driver.ID.Hex(),
				SubjectLabel: driver.Name,
				Group:        GroupDriverCredential,
				Category:     cred.category,
			}
			if cred.expiry == nil {
				o.Severity = SeverityNoRecord
			} else {
				remaining := DaysUntil(now, *cred.expiry)
				o.Due = &DueMeasure{Kind: MeasureDays, Remaining: remaining, DueDate: cred.expiry}
				o.Severity = Classify(remaining, s.Policy.DriverCredential)
			}
			obligations = append(obligations, o)
		}
	}
	return obligations, nil
}

// AllObligations fetches and classifies the three feeds in one pass.
func (s *Source) AllObligations(ctx context.Context, now time.Time) ([]Obligation, error) {
	docs, err := s.DocumentObligations(ctx, now)
	if err != nil {
		return nil, err
	}
	maint, err := s.MaintenanceObligations(ctx, now)
	if err != nil {
		return nil, err
	}
	creds, err := s.CredentialObligations(ctx, now)
	if err != nil {
		return nil, err
	}

	all := make([]Obligation, 0, len(docs)+len(maint)+len(creds))
	all = append(all, docs...)
	all = append(all, maint...)
	all = append(all, creds...)
	return all, nil
}

// OutOfServiceVehicles returns the stopped and in-repair vehicles for the
// informational section of the alert report.
func (s *Source) OutOfServiceVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.Vehicles.FindVehicles(ctx, bson.M{
		"state": bson.M{"$in": []models.VehicleState{models.VehicleStopped, models.VehicleInRepair}},
	})
}

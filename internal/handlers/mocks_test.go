package handlers

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flotasur/fleet-management/internal/models"
)

// duplicateKeyErr mimics the driver's duplicate-key write error.
var duplicateKeyErr = mongo.WriteException{
	WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}},
}

type fakeVehicles struct {
	vehicles  []models.Vehicle
	inserted  []models.Vehicle
	updated   map[string]models.Vehicle
	odometers map[string]int
	insertErr error
	findErr   error
}

func (f *fakeVehicles) InsertVehicle(ctx context.Context, v models.Vehicle) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, v)
	return nil
}

func (f *fakeVehicles) FindVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	states, ok := vehicleStateFilter(filter)
	if !ok {
		return f.vehicles, nil
	}
	var out []models.Vehicle
	for _, v := range f.vehicles {
		if states[v.State] {
			out = append(out, v)
		}
	}
	return out, nil
}

// vehicleStateFilter interprets the state clauses the handlers and the
// compliance source actually issue.
func vehicleStateFilter(filter bson.M) (map[models.VehicleState]bool, bool) {
	raw, ok := filter["state"]
	if !ok {
		return nil, false
	}
	states := make(map[models.VehicleState]bool)
	switch v := raw.(type) {
	case string:
		states[models.VehicleState(v)] = true
	case models.VehicleState:
		states[v] = true
	case bson.M:
		in, ok := v["$in"].([]models.VehicleState)
		if !ok {
			return nil, false
		}
		for _, s := range in {
			states[s] = true
		}
	default:
		return nil, false
	}
	return states, true
}

func (f *fakeVehicles) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	for i := range f.vehicles {
		if f.vehicles[i].ID.Hex() == id {
			return &f.vehicles[i], nil
		}
	}
	return nil, fmt.Errorf("vehicle not found")
}

func (f *fakeVehicles) UpdateVehicle(ctx context.Context, id string, v models.Vehicle) error {
	if _, err := f.FindVehicleByID(ctx, id); err != nil {
		return err
	}
	if f.updated == nil {
		f.updated = make(map[string]models.Vehicle)
	}
	f.updated[id] = v
	return nil
}

func (f *fakeVehicles) UpdateVehicleOdometer(ctx context.Context, id string, odometer int) error {
	if f.odometers == nil {
		f.odometers = make(map[string]int)
	}
	f.odometers[id] = odometer
	return nil
}

func (f *fakeVehicles) DeleteVehicle(ctx context.Context, id string) error {
	if _, err := f.FindVehicleByID(ctx, id); err != nil {
		return err
	}
	return nil
}

type fakeDrivers struct {
	drivers   []models.Driver
	inserted  []models.Driver
	insertErr error
}

func (f *fakeDrivers) InsertDriver(ctx context.Context, d models.Driver) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, d)
	return nil
}

func (f *fakeDrivers) FindDrivers(ctx context.Context, filter bson.M) ([]models.Driver, error) {
	return f.drivers, nil
}

func (f *fakeDrivers) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	for i := range f.drivers {
		if f.drivers[i].ID.Hex() == id {
			return &f.drivers[i], nil
		}
	}
	return nil, fmt.Errorf("driver not found")
}

func (f *fakeDrivers) UpdateDriver(ctx context.Context, id string, d models.Driver) error { return nil }
func (f *fakeDrivers) DeleteDriver(ctx context.Context, id string) error                  { return nil }

type fakeDocuments struct {
	documents []models.ExpiringDocument
	inserted  []models.ExpiringDocument
}

func (f *fakeDocuments) InsertDocument(ctx context.Context, d models.ExpiringDocument) error {
	f.inserted = append(f.inserted, d)
	return nil
}

func (f *fakeDocuments) FindDocuments(ctx context.Context, filter bson.M) ([]models.ExpiringDocument, error) {
	return f.documents, nil
}

func (f *fakeDocuments) UpdateDocument(ctx context.Context, id string, d models.ExpiringDocument) error {
	return nil
}
func (f *fakeDocuments) DeleteDocument(ctx context.Context, id string) error { return nil }

type fakeMaintenance struct {
	items    []models.MaintenanceItem
	latest   []models.MaintenanceItem
	inserted []models.MaintenanceItem
}

func (f *fakeMaintenance) InsertMaintenance(ctx context.Context, item models.MaintenanceItem) error {
	f.inserted = append(f.inserted, item)
	return nil
}

func (f *fakeMaintenance) FindMaintenance(ctx context.Context, filter bson.M) ([]models.MaintenanceItem, error) {
	return f.items, nil
}

func (f *fakeMaintenance) LatestPerType(ctx context.Context, vehicleIDs []string) ([]models.MaintenanceItem, error) {
	return f.latest, nil
}

func (f *fakeMaintenance) DeleteMaintenance(ctx context.Context, id string) error { return nil }

type fakeFuel struct {
	records  []models.FuelRecord
	last     *models.FuelRecord
	inserted []models.FuelRecord
}

func (f *fakeFuel) InsertFuelRecord(ctx context.Context, r models.FuelRecord) error {
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeFuel) FindFuelRecords(ctx context.Context, filter bson.M) ([]models.FuelRecord, error) {
	return f.records, nil
}

func (f *fakeFuel) LastForVehicle(ctx context.Context, vehicleID string) (*models.FuelRecord, error) {
	return f.last, nil
}

type fakeFailures struct {
	failures []models.Failure
	inserted []models.Failure
}

func (f *fakeFailures) InsertFailure(ctx context.Context, failure models.Failure) error {
	f.inserted = append(f.inserted, failure)
	return nil
}

func (f *fakeFailures) FindFailures(ctx context.Context, filter bson.M) ([]models.Failure, error) {
	return f.failures, nil
}

type fakeRecipients struct {
	recipients []models.Recipient
	inserted   []models.Recipient
	insertErr  error
}

func (f *fakeRecipients) InsertRecipient(ctx context.Context, r models.Recipient) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeRecipients) FindRecipients(ctx context.Context, filter bson.M) ([]models.Recipient, error) {
	return f.recipients, nil
}

func (f *fakeRecipients) UpdateRecipient(ctx context.Context, id string, r models.Recipient) error {
	return nil
}
func (f *fakeRecipients) DeleteRecipient(ctx context.Context, id string) error { return nil }

// fakeMailer records a delivery or fails on demand.
type fakeMailer struct {
	recipients []string
	subject    string
	body       string
	err        error
}

func (f *fakeMailer) Send(recipients []string, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.recipients = recipients
	f.subject = subject
	f.body = htmlBody
	return nil
}

// Seeds the database with a small demo fleet: vehicles in every state,
// drivers with mixed credential expiries, documents and maintenance spread
// across the alert bands, plus fuel and failure history. Duplicate keys are
// skipped so the seeder can run repeatedly.
package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

func daysFromNow(days int) *time.Time {
	d := time.Now().UTC().AddDate(0, 0, days)
	return &d
}

func intPtr(v int) *int { return &v }

func main() {
	_ = godotenv.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "fleet"
	}
	database := client.Database(dbName)
	ctx := context.Background()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	drivers := &db.MongoDriverCollection{Collection: database.Collection("drivers")}
	documents := &db.MongoDocumentCollection{Collection: database.Collection("documents")}
	maintenance := &db.MongoMaintenanceCollection{Collection: database.Collection("maintenance")}
	fuel := &db.MongoFuelCollection{Collection: database.Collection("fuel")}
	failures := &db.MongoFailureCollection{Collection: database.Collection("failures")}
	recipients := &db.MongoRecipientCollection{Collection: database.Collection("recipients")}

	demoVehicles := []models.Vehicle{
		{Plate: "AB-123-CD", Type: "truck", Make: "Volvo", Model: "FH16", Year: 2020, State: models.VehicleActive, Depot: "North", Odometer: 152000},
		{Plate: "EF-456-GH", Type: "truck", Make: "Scania", Model: "R450", Year: 2019, State: models.VehicleActive, Depot: "North", Odometer: 198500},
		{Plate: "IJ-789-KL", Type: "pickup", Make: "Toyota", Model: "Hilux", Year: 2022, State: models.VehicleActive, Depot: "South", Odometer: 64200},
		{Plate: "MN-012-OP", Type: "car", Make: "Ford", Model: "Focus", Year: 2021, State: models.VehicleActive, Depot: "South", Odometer: 48100},
		{Plate: "QR-345-ST", Type: "utility", Make: "Renault", Model: "Master", Year: 2018, State: models.VehicleInRepair, Depot: "North", Odometer: 221000, Notes: "gearbox overhaul"},
		{Plate: "UV-678-WX", Type: "truck", Make: "Mercedes", Model: "Actros", Year: 2017, State: models.VehicleStopped, Depot: "South", Odometer: 305000, Notes: "awaiting inspection"},
		{Plate: "YZ-901-AB", Type: "car", Make: "Peugeot", Model: "208", Year: 2015, State: models.VehicleDecommissioned, Odometer: 412000},
	}
	for _, v := range demoVehicles {
		if err := vehicles.InsertVehicle(ctx, v); err != nil {
			if db.IsDuplicateKey(err) {
				log.WithField("plate", v.Plate).Info("Vehicle already seeded, skipping")
				continue
			}
			log.WithError(err).WithField("plate", v.Plate).Fatal("Failed to seed vehicle")
		}
	}

	seeded, err := vehicles.FindVehicles(ctx, bson.M{})
	if err != nil {
		log.WithError(err).Fatal("Failed to read back vehicles")
	}
	byPlate := make(map[string]models.Vehicle, len(seeded))
	for _, v := range seeded {
		byPlate[v.Plate] = v
	}

	demoDrivers := []models.Driver{
		{Name: "Ana Torres", NationalID: "18234567", LicenseType: "C", State: models.DriverActive,
			LicenseExpiry: daysFromNow(400), HazmatExpiry: daysFromNow(90), MedicalExamExpiry: daysFromNow(10), SafetyCourseExpiry: daysFromNow(200)},
		{Name: "Bruno Silva", NationalID: "19345678", LicenseType: "C", State: models.DriverActive,
			LicenseExpiry: daysFromNow(-5), MedicalExamExpiry: daysFromNow(60)},
		{Name: "Carla Méndez", NationalID: "20456789", LicenseType: "B", State: models.DriverActive,
			LicenseExpiry: daysFromNow(25), MedicalExamExpiry: daysFromNow(180), SafetyCourseExpiry: daysFromNow(14)},
		{Name: "Diego Fuentes", NationalID: "21567890", LicenseType: "C", State: models.DriverInactive,
			LicenseExpiry: daysFromNow(300)},
	}
	for _, d := range demoDrivers {
		if err := drivers.InsertDriver(ctx, d); err != nil {
			if db.IsDuplicateKey(err) {
				log.WithField("national_id", d.NationalID).Info("Driver already seeded, skipping")
				continue
			}
			log.WithError(err).WithField("name", d.Name).Fatal("Failed to seed driver")
		}
	}

	// Documents land in each alert band: overdue, urgent, upcoming, ok.
	cost := 450.0
	demoDocuments := []models.ExpiringDocument{
		{VehicleID: byPlate["AB-123-CD"].ID.Hex(), Type: "insurance", DueDate: *daysFromNow(-3), AlertDays: 30, State: models.DocumentActive, RenewalCost: &cost},
		{VehicleID: byPlate["AB-123-CD"].ID.Hex(), Type: "roadworthiness", DueDate: *daysFromNow(5), AlertDays: 30, State: models.DocumentActive},
		{VehicleID: byPlate["EF-456-GH"].ID.Hex(), Type: "registration", DueDate: *daysFromNow(20), AlertDays: 30, State: models.DocumentActive},
		{VehicleID: byPlate["EF-456-GH"].ID.Hex(), Type: "municipal permit", DueDate: *daysFromNow(90), AlertDays: 30, State: models.DocumentActive},
		{VehicleID: byPlate["IJ-789-KL"].ID.Hex(), Type: "fire extinguisher", DueDate: *daysFromNow(45), AlertDays: 60, State: models.DocumentActive},
		{VehicleID: byPlate["MN-012-OP"].ID.Hex(), Type: "insurance", DueDate: *daysFromNow(200), AlertDays: 30, State: models.DocumentActive},
	}
	for _, d := range demoDocuments {
		if d.VehicleID == "" {
			continue
		}
		if err := documents.InsertDocument(ctx, d); err != nil {
			log.WithError(err).WithField("type", d.Type).Fatal("Failed to seed document")
		}
	}

	demoMaintenance := []models.MaintenanceItem{
		{VehicleID: byPlate["AB-123-CD"].ID.Hex(), Type: "Oil Change", Category: "preventive",
			Date: time.Now().AddDate(0, -2, 0), Odometer: 145000, Cost: 280, Workshop: "North Depot Shop",
			NextDueOdometer: intPtr(155000), AlertKm: 1000},
		{VehicleID: byPlate["AB-123-CD"].ID.Hex(), Type: "Brake Pads", Category: "preventive",
			Date: time.Now().AddDate(0, -5, 0), Odometer: 138000, Cost: 520, Workshop: "North Depot Shop",
			NextDueDate: daysFromNow(15), AlertKm: 1000},
		{VehicleID: byPlate["EF-456-GH"].ID.Hex(), Type: "Oil Change", Category: "preventive",
			Date: time.Now().AddDate(0, -1, 0), Odometer: 196000, Cost: 290,
			NextDueOdometer: intPtr(206000), AlertKm: 1000},
		{VehicleID: byPlate["IJ-789-KL"].ID.Hex(), Type: "Air Filter", Category: "preventive",
			Date: time.Now().AddDate(0, -3, 0), Odometer: 58000, Cost: 95,
			NextDueDate: daysFromNow(-10), AlertKm: 1000},
		{VehicleID: byPlate["QR-345-ST"].ID.Hex(), Type: "Gearbox", Category: "corrective",
			Date: time.Now().AddDate(0, 0, -7), Odometer: 221000, Cost: 3400, Workshop: "Central Garage"},
	}
	for _, m := range demoMaintenance {
		if m.VehicleID == "" {
			continue
		}
		if err := maintenance.InsertMaintenance(ctx, m); err != nil {
			log.WithError(err).WithField("type", m.Type).Fatal("Failed to seed maintenance")
		}
	}

	// Six months of fill-ups per active truck, roughly 2.8 km/l with noise.
	rng := rand.New(rand.NewSource(42))
	for _, plate := range []string{"AB-123-CD", "EF-456-GH"} {
		v, ok := byPlate[plate]
		if !ok {
			continue
		}
		odometer := v.Odometer - 18000
		for month := 6; month >= 1; month-- {
			liters := 380 + rng.Float64()*60
			distance := int(liters * (2.6 + rng.Float64()*0.5))
			odometer += distance
			efficiency := float64(distance) / liters
			record := models.FuelRecord{
				VehicleID:     v.ID.Hex(),
				Date:          time.Now().AddDate(0, -month, 0),
				Odometer:      odometer,
				Liters:        liters,
				TotalCost:     liters * 1.62,
				PricePerLiter: 1.62,
				FuelType:      "diesel",
				Efficiency:    &efficiency,
			}
			if err := fuel.InsertFuelRecord(ctx, record); err != nil {
				log.WithError(err).WithField("plate", plate).Fatal("Failed to seed fuel record")
			}
		}
	}

	demoFailures := []models.Failure{
		{VehicleID: byPlate["QR-345-ST"].ID.Hex(), Date: time.Now().AddDate(0, 0, -8), Type: "transmission",
			Severity: "serious", Description: "gearbox seized on route", DowntimeHours: 120, RepairCost: 3400},
		{VehicleID: byPlate["EF-456-GH"].ID.Hex(), Date: time.Now().AddDate(0, -2, 0), Type: "electrical",
			Severity: "minor", Description: "alternator belt", DowntimeHours: 4, RepairCost: 180, Resolution: "belt replaced"},
	}
	for _, f := range demoFailures {
		if f.VehicleID == "" {
			continue
		}
		if err := failures.InsertFailure(ctx, f); err != nil {
			log.WithError(err).WithField("type", f.Type).Fatal("Failed to seed failure")
		}
	}

	demoRecipients := []models.Recipient{
		{Name: "Fleet Ops", Email: "ops@example.com", Position: "Operations", CriticalAlerts: true, WeeklyReports: true, Active: true},
		{Name: "Workshop Lead", Email: "workshop@example.com", Position: "Maintenance", CriticalAlerts: true, Active: true},
		{Name: "Finance", Email: "finance@example.com", Position: "Accounting", WeeklyReports: true, Active: true},
	}
	for _, r := range demoRecipients {
		if err := recipients.InsertRecipient(ctx, r); err != nil {
			if db.IsDuplicateKey(err) {
				log.WithField("email", r.Email).Info("Recipient already seeded, skipping")
				continue
			}
			log.WithError(err).WithField("email", r.Email).Fatal("Failed to seed recipient")
		}
	}

	log.WithFields(log.Fields{
		"vehicles": len(demoVehicles),
		"drivers":  len(demoDrivers),
	}).Info("Demo fleet seeded")
}

package db

import (
	"context"

	"github.com/flotasur/fleet-management/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// VehicleCollection defines the interface for vehicle registry operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	FindVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	UpdateVehicleOdometer(ctx context.Context, id string, odometer int) error
	DeleteVehicle(ctx context.Context, id string) error
}

// DriverCollection defines the interface for driver registry operations.
type DriverCollection interface {
	InsertDriver(ctx context.Context, driver models.Driver) error
	FindDrivers(ctx context.Context, filter bson.M) ([]models.Driver, error)
	FindDriverByID(ctx context.Context, id string) (*models.Driver, error)
	UpdateDriver(ctx context.Context, id string, driver models.Driver) error
	DeleteDriver(ctx context.Context, id string) error
}

// DocumentCollection defines the interface for expiring-document operations.
type DocumentCollection interface {
	InsertDocument(ctx context.Context, doc models.ExpiringDocument) error
	FindDocuments(ctx context.Context, filter bson.M) ([]models.ExpiringDocument, error)
	UpdateDocument(ctx context.Context, id string, doc models.ExpiringDocument) error
	DeleteDocument(ctx context.Context, id string) error
}

// MaintenanceCollection defines the interface for maintenance history operations.
type MaintenanceCollection interface {
	InsertMaintenance(ctx context.Context, item models.MaintenanceItem) error
	FindMaintenance(ctx context.Context, filter bson.M) ([]models.MaintenanceItem, error)
	// LatestPerType returns, for each (vehicle, type) pair among the given
	// vehicle IDs, only the most recent item by date.
	LatestPerType(ctx context.Context, vehicleIDs []string) ([]models.MaintenanceItem, error)
	DeleteMaintenance(ctx context.Context, id string) error
}

// FuelCollection defines the interface for fuel fill-up operations.
type FuelCollection interface {
	InsertFuelRecord(ctx context.Context, record models.FuelRecord) error
	FindFuelRecords(ctx context.Context, filter bson.M) ([]models.FuelRecord, error)
	// LastForVehicle returns the most recent fill-up of a vehicle by date then
	// odometer, or nil when the vehicle has none.
	LastForVehicle(ctx context.Context, vehicleID string) (*models.FuelRecord, error)
}

// FailureCollection defines the interface for failure history operations.
type FailureCollection interface {
	InsertFailure(ctx context.Context, failure models.Failure) error
	FindFailures(ctx context.Context, filter bson.M) ([]models.Failure, error)
}

// RecipientCollection defines the interface for alert-recipient operations.
type RecipientCollection interface {
	InsertRecipient(ctx context.Context, recipient models.Recipient) error
	FindRecipients(ctx context.Context, filter bson.M) ([]models.Recipient, error)
	UpdateRecipient(ctx context.Context, id string, recipient models.Recipient) error
	DeleteRecipient(ctx context.Context, id string) error
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleState represents the operational state of a vehicle.
type VehicleState string

const (
	VehicleActive         VehicleState = "active"
	VehicleInRepair       VehicleState = "in_repair"
	VehicleStopped        VehicleState = "stopped"
	VehicleDecommissioned VehicleState = "decommissioned"
)

// IsValidVehicleState checks if a vehicle state is one of the known states.
// Transitions themselves are operator-driven and not restricted.
func IsValidVehicleState(s VehicleState) bool {
	switch s {
	case VehicleActive, VehicleInRepair, VehicleStopped, VehicleDecommissioned:
		return true
	default:
		return false
	}
}

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Plate        string             `bson:"plate" json:"plate"` // unique natural key
	Type         string             `bson:"type" json:"type"`   // "truck", "pickup", "car", "utility"
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	Chassis      string             `bson:"chassis,omitempty" json:"chassis,omitempty"`
	Engine       string             `bson:"engine,omitempty" json:"engine,omitempty"`
	State        VehicleState       `bson:"state" json:"state"`
	Depot        string             `bson:"depot,omitempty" json:"depot,omitempty"`
	Odometer     int                `bson:"odometer" json:"odometer"` // kilometers, updated on fuel/maintenance events
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

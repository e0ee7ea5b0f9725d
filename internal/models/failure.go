package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Failure represents a breakdown or malfunction event on a vehicle.
type Failure struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID     string             `bson:"vehicle_id" json:"vehicle_id"`
	Date          time.Time          `bson:"date" json:"date"`
	Odometer      int                `bson:"odometer,omitempty" json:"odometer,omitempty"`
	Type          string             `bson:"type" json:"type"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Severity      string             `bson:"severity" json:"severity"` // "minor", "moderate", "serious", "critical"
	DowntimeHours int                `bson:"downtime_hours,omitempty" json:"downtime_hours,omitempty"`
	RepairCost    float64            `bson:"repair_cost,omitempty" json:"repair_cost,omitempty"`
	Resolution    string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

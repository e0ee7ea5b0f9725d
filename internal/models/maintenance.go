package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaintenanceAlertKm is the default odometer alert lead for maintenance.
const DefaultMaintenanceAlertKm = 1000

// MaintenanceItem represents a performed maintenance service on a vehicle,
// optionally scheduling the next one by date, odometer, or both. The current
// status of a (vehicle, type) pair is the most recent row by date.
type MaintenanceItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID       string             `bson:"vehicle_id" json:"vehicle_id"`
	Type            string             `bson:"type" json:"type"`         // "Oil Change", "Air Filter", ...
	Category        string             `bson:"category" json:"category"` // "preventive", "corrective", "emergency"
	Date            time.Time          `bson:"date" json:"date"`
	Odometer        int                `bson:"odometer" json:"odometer"` // reading at time of service
	Cost            float64            `bson:"cost" json:"cost"`
	Workshop        string             `bson:"workshop,omitempty" json:"workshop,omitempty"`
	Mechanic        string             `bson:"mechanic,omitempty" json:"mechanic,omitempty"`
	NextDueDate     *time.Time         `bson:"next_due_date,omitempty" json:"next_due_date,omitempty"`
	NextDueOdometer *int               `bson:"next_due_odometer,omitempty" json:"next_due_odometer,omitempty"`
	AlertKm         int                `bson:"alert_km" json:"alert_km"` // odometer alert lead, default 1000
	PartsUsed       string             `bson:"parts_used,omitempty" json:"parts_used,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

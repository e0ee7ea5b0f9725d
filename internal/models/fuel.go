package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelRecord represents a fuel fill-up. PricePerLiter and Efficiency are
// derived at recording time; Efficiency stays nil for the first fill-up of a
// vehicle or when the odometer did not advance since the previous one.
type FuelRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID     string             `bson:"vehicle_id" json:"vehicle_id"`
	Date          time.Time          `bson:"date" json:"date"`
	Odometer      int                `bson:"odometer" json:"odometer"`
	Liters        float64            `bson:"liters" json:"liters"`
	TotalCost     float64            `bson:"total_cost" json:"total_cost"`
	PricePerLiter float64            `bson:"price_per_liter" json:"price_per_liter"`
	FuelType      string             `bson:"fuel_type" json:"fuel_type"` // "diesel", "gasoline", "cng"
	Station       string             `bson:"station,omitempty" json:"station,omitempty"`
	DriverID      string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	Efficiency    *float64           `bson:"efficiency,omitempty" json:"efficiency,omitempty"` // km per liter
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
